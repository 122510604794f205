package s7

import (
	"errors"
	"testing"
)

func TestNewSessionDefaults(t *testing.T) {
	s := New(nil)
	stats := s.Stats()
	if stats.Connected {
		t.Error("expected Connected = false before any Connect call")
	}
	if stats.PDULength != 0 {
		t.Errorf("PDULength = %d, want 0", stats.PDULength)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	s := New(nil)
	s.Disconnect()
	s.Disconnect()
	if err := s.Close(); err != nil {
		t.Errorf("Close returned %v, want nil", err)
	}
}

func TestDisconnectThenReadReturnsNotConnected(t *testing.T) {
	s, peer := connectedSession(t, readResponse(resultSuccess, []byte{1}))
	peer.close()
	s.Disconnect()

	dst := make([]byte, 1)
	if err := s.ReadDB(1, 0, dst); !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestConnectRackSlotDerivesRemoteTSAP(t *testing.T) {
	if got := remoteTSAPForRackSlot(CTPG, 0, 0); got != 0x0100 {
		t.Errorf("remote tsap = %#x, want 0x0100", got)
	}
	if got := remoteTSAPForRackSlot(CTPG, 0, 2); got != 0x0102 {
		t.Errorf("remote tsap = %#x, want 0x0102", got)
	}
	if got := remoteTSAPForRackSlot(CTOP, 1, 3); got != 0x0223 {
		t.Errorf("remote tsap = %#x, want 0x0223", got)
	}
}
