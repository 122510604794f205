package s7

// writeArea writes src (datasize elements of wordlen, where datasize is 1
// for a bit write) to area/db/start, chunking the job across as many
// Write-Var telegrams as negotiatedPDU forces. It returns the
// number of chunks used.
func (s *Session) writeArea(area Area, db uint16, start uint16, wordlen WordLen, src []byte) (int, error) {
	datasize := len(src)
	if wordlen == WLBit {
		datasize = 1
	}

	var offset int
	longStart := uint32(start)
	chunks := 0

	for offset < datasize {
		remaining := datasize - offset
		chunkSize := remaining
		if chunkSize > int(s.maxWrPDUData) {
			chunkSize = int(s.maxWrPDUData)
		}
		chunks++

		chunk := src[offset : offset+chunkSize]
		req := buildWriteRequest(area, db, bitAddress(longStart, wordlen), wordlen, chunk)

		if err := s.t.sendTPKT(req[4:]); err != nil {
			return chunks, err
		}

		payload, err := s.t.recvTelegram(s.pduLength)
		if err != nil {
			return chunks, err
		}
		if len(payload) < writeRespLen {
			return chunks, ErrIsoInvalidTelegram
		}

		if err := resultToError(payload[rwResultOffset]); err != nil {
			return chunks, err
		}

		offset += chunkSize
		longStart += uint32(chunkSize)
	}

	return chunks, nil
}
