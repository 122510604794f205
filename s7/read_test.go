package s7

import (
	"errors"
	"testing"
	"time"
)

func connectedSession(t *testing.T, responses ...[]byte) (*Session, *mockPeer) {
	t.Helper()
	peer := newMockPeer(t, append([][]byte{isoCC(), pduNegotiateResponse(240)}, responses...)...)
	host, port := splitHostPort(t, peer.addr())

	s := New(nil)
	s.SetConnectionPort(port)
	s.SetTimeout(2*time.Second, 2*time.Second, 2*time.Second)
	if err := s.ConnectTSAP(host, 0x0100, 0x0300); err != nil {
		peer.close()
		t.Fatalf("ConnectTSAP failed: %v", err)
	}
	return s, peer
}

func TestReadAreaNotConnected(t *testing.T) {
	s := New(nil)
	dst := make([]byte, 4)
	if err := s.ReadArea(AreaDB, 1, 0, WLByte, dst); !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestReadDBSingleChunk(t *testing.T) {
	want := []byte{0x11, 0x22, 0x33, 0x44}
	s, peer := connectedSession(t, readResponse(resultSuccess, want))
	defer peer.close()
	defer s.Disconnect()

	dst := make([]byte, len(want))
	if err := s.ReadDB(1, 0, dst); err != nil {
		t.Fatalf("ReadDB failed: %v", err)
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %#x, want %#x", i, dst[i], want[i])
		}
	}
	if got := s.Stats().Chunks; got != 1 {
		t.Errorf("chunks = %d, want 1", got)
	}
}

func TestReadDBMultiChunk(t *testing.T) {
	// maxRdPduData = 240 - 18 = 222; ask for 300 bytes to force 2 chunks.
	chunk1 := make([]byte, 222)
	chunk2 := make([]byte, 78)
	for i := range chunk1 {
		chunk1[i] = byte(i)
	}
	for i := range chunk2 {
		chunk2[i] = byte(200 + i)
	}
	s, peer := connectedSession(t, readResponse(resultSuccess, chunk1), readResponse(resultSuccess, chunk2))
	defer peer.close()
	defer s.Disconnect()

	dst := make([]byte, 300)
	if err := s.ReadDB(1, 0, dst); err != nil {
		t.Fatalf("ReadDB failed: %v", err)
	}
	if got := s.Stats().Chunks; got != 2 {
		t.Errorf("chunks = %d, want 2", got)
	}
	for i := range chunk1 {
		if dst[i] != chunk1[i] {
			t.Fatalf("dst[%d] = %#x, want %#x", i, dst[i], chunk1[i])
		}
	}
	for i := range chunk2 {
		if dst[222+i] != chunk2[i] {
			t.Fatalf("dst[%d] = %#x, want %#x", 222+i, dst[222+i], chunk2[i])
		}
	}
}

func TestReadAreaNotFound(t *testing.T) {
	s, peer := connectedSession(t, readResponse(resultNotFound, nil))
	defer peer.close()
	defer s.Disconnect()

	dst := make([]byte, 1)
	err := s.ReadDB(99, 0, dst)
	if !errors.Is(err, ErrS7NotFound) {
		t.Errorf("err = %v, want ErrS7NotFound", err)
	}
}

func TestReadAreaInvalidAddress(t *testing.T) {
	s, peer := connectedSession(t, readResponse(resultInvalidAddress, nil))
	defer peer.close()
	defer s.Disconnect()

	dst := make([]byte, 1)
	err := s.ReadDB(1, 65535, dst)
	if !errors.Is(err, ErrS7InvalidAddress) {
		t.Errorf("err = %v, want ErrS7InvalidAddress", err)
	}
}

func TestReadBitIndexOutOfRangeNoIO(t *testing.T) {
	s := New(nil) // deliberately not connected: a real I/O attempt would hang/fail
	_, err := s.ReadBit(AreaDB, 1, 0, 8)
	if !errors.Is(err, ErrS7InvalidAddress) {
		t.Errorf("err = %v, want ErrS7InvalidAddress", err)
	}
}

func TestReadBitRoundTrip(t *testing.T) {
	s, peer := connectedSession(t, readResponse(resultSuccess, []byte{0x01}))
	defer peer.close()
	defer s.Disconnect()

	got, err := s.ReadBit(AreaDB, 10, 71, 4)
	if err != nil {
		t.Fatalf("ReadBit failed: %v", err)
	}
	if !got {
		t.Error("expected bit = true")
	}
}
