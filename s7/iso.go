package s7

// ISO framing: validates the 7-byte TPKT+COTP prefix of an incoming
// telegram and reports how many bytes of S7 payload remain to be read.
// recvTPKT already stripped the 4-byte TPKT header, so the prefix this
// component inspects is the first 3 bytes of that payload (the COTP DT
// header) plus the already-known TPKT length.

// checkISOPrefix validates the COTP DT header that begins the payload
// returned by transport.recvTPKT, given the total TPKT telegram length
// (including the 4-byte TPKT header) carried in that same header. It
// returns the number of S7 bytes remaining after the 7-byte TPKT+COTP
// prefix.
func checkISOPrefix(telegramLength int, cotp []byte, negotiatedPDU uint16) (int, error) {
	if len(cotp) < 3 {
		return 0, ErrIsoInvalidHeader
	}
	if cotp[0] != 0x02 || cotp[1] != 0xF0 {
		return 0, ErrIsoInvalidHeader
	}
	if cotp[2] != eot {
		return 0, ErrIsoFragmentedPacket
	}

	remaining := telegramLength - tpktISOLen
	if telegramLength < tpktISOLen || remaining <= 0 || remaining > int(negotiatedPDU) {
		return 0, ErrIsoInvalidTelegram
	}

	return remaining, nil
}

// recvTelegram reads one TPKT+COTP-framed S7 telegram from the transport,
// validates its ISO framing against negotiatedPDU, and returns the S7
// payload (the bytes after the 3-byte COTP header). The handshake does not
// use it: no PDU has been negotiated yet at that point (a negotiatedPDU of 0
// would reject every telegram), so the handshake reads with recvTPKT and
// checks the fixed handshake telegram lengths itself.
func (t *transport) recvTelegram(negotiatedPDU uint16) ([]byte, error) {
	payload, err := t.recvTPKT()
	if err != nil {
		return nil, err
	}
	if len(payload) < 3 {
		return nil, ErrIsoInvalidHeader
	}

	// transport.recvTPKT already read exactly the number of bytes the TPKT
	// header declared (io.ReadFull fails short reads as a connection
	// error), so reconstructing the declared length from what we actually
	// hold is equivalent to re-reading the wire's length field.
	telegramLength := len(payload) + 4 // +4 for the TPKT header already stripped
	if _, err := checkISOPrefix(telegramLength, payload[:3], negotiatedPDU); err != nil {
		return nil, err
	}

	return payload[3:], nil
}
