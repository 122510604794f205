package s7

import (
	"errors"
	"testing"
)

func TestWriteAreaNotConnected(t *testing.T) {
	s := New(nil)
	if err := s.WriteArea(AreaDB, 1, 0, WLByte, []byte{1, 2, 3}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestWriteDBSingleChunk(t *testing.T) {
	s, peer := connectedSession(t, writeResponse(resultSuccess))
	defer peer.close()
	defer s.Disconnect()

	if err := s.WriteDB(1, 0, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("WriteDB failed: %v", err)
	}
	if got := s.Stats().Chunks; got != 1 {
		t.Errorf("chunks = %d, want 1", got)
	}
}

func TestWriteDBMultiChunk(t *testing.T) {
	// maxWrPduData = 240 - 28 = 212; 300 bytes forces 2 chunks.
	data := make([]byte, 300)
	s, peer := connectedSession(t, writeResponse(resultSuccess), writeResponse(resultSuccess))
	defer peer.close()
	defer s.Disconnect()

	if err := s.WriteDB(1, 0, data); err != nil {
		t.Fatalf("WriteDB failed: %v", err)
	}
	if got := s.Stats().Chunks; got != 2 {
		t.Errorf("chunks = %d, want 2", got)
	}
}

func TestWriteAreaInvalidAddress(t *testing.T) {
	s, peer := connectedSession(t, writeResponse(resultInvalidAddress))
	defer peer.close()
	defer s.Disconnect()

	err := s.WriteDB(1, 65535, []byte{1})
	if !errors.Is(err, ErrS7InvalidAddress) {
		t.Errorf("err = %v, want ErrS7InvalidAddress", err)
	}
}

func TestWriteBitIndexOutOfRangeNoIO(t *testing.T) {
	s := New(nil)
	if err := s.WriteBit(AreaDB, 1, 0, 8, true); !errors.Is(err, ErrS7InvalidAddress) {
		t.Errorf("err = %v, want ErrS7InvalidAddress", err)
	}
}

func TestWriteBitAcknowledged(t *testing.T) {
	s, peer := connectedSession(t, writeResponse(resultSuccess))
	defer peer.close()
	defer s.Disconnect()

	if err := s.WriteBit(AreaDB, 10, 71, 4, true); err != nil {
		t.Fatalf("WriteBit failed: %v", err)
	}
}
