package s7

// readArea reads datasize elements (bytes, or the single element used for a
// bit read) of wordlen from area/db/start into dst, chunking the job across
// as many Read-Var telegrams as negotiatedPDU forces. dst must
// already be sized to datasize bytes (datasize is capped at 65535); it returns
// the number of chunks used. A response carrying fewer data bytes than its
// chunk asked for fails with ErrIsoInvalidTelegram.
func (s *Session) readArea(area Area, db uint16, start uint16, wordlen WordLen, dst []byte) (int, error) {
	datasize := uint16(len(dst))
	if len(dst) > 0xFFFF {
		datasize = 0xFFFF
	}
	if wordlen == WLBit {
		datasize = 1
	}

	var offset uint16
	longStart := uint32(start)
	chunks := 0

	for offset < datasize {
		remaining := datasize - offset
		chunkSize := remaining
		if chunkSize > s.maxRdPDUData {
			chunkSize = s.maxRdPDUData
		}
		chunks++

		req := buildReadRequest(area, db, bitAddress(longStart, wordlen), wordlen, chunkSize)

		if err := s.t.sendTPKT(req[4:]); err != nil {
			return chunks, err
		}

		payload, err := s.t.recvTelegram(s.pduLength)
		if err != nil {
			return chunks, err
		}
		if len(payload) < readRespLen {
			return chunks, ErrIsoInvalidTelegram
		}

		if err := resultToError(payload[rwResultOffset]); err != nil {
			return chunks, err
		}

		got := payload[readRespLen:]
		if len(got) < int(chunkSize) {
			return chunks, ErrIsoInvalidTelegram
		}
		copy(dst[offset:offset+chunkSize], got[:chunkSize])

		offset += chunkSize
		longStart += uint32(chunkSize)
	}

	return chunks, nil
}
