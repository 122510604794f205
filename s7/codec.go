package s7

// Wire-level constants and telegram templates for ISO-on-TCP + S7
// communication. All integers on the wire are big-endian. Every byte here is
// fixed by the Siemens S7 communication protocol. Each builder returns a
// fresh byte-slice literal with the per-call fields written inline; the
// 24-bit address and the Write-Var total length are patched in afterwards.

const (
	isoID byte = 0x03 // RFC 1006 (TPKT) version/ID
	s7ID  byte = 0x32 // S7 protocol ID

	isoConnReq byte = 0xE0 // COTP Connection Request
	isoConnOK  byte = 0xD0 // COTP Connection Confirm

	tpktISOLen = 7 // TPKT (4) + COTP DT header (3)
	eot        = 0x80

	isoCRLen     = 22 // Connection Request telegram length
	isoPNReqLen  = 25 // PDU negotiation request telegram length
	isoPNRespLen = 27 // PDU negotiation response telegram length
	readReqLen   = 31 // Read-Var request length
	readRespLen  = 18 // Read-Var response header length
	writeReqLen  = 35 // Write-Var request header length (before payload)
	writeRespLen = 15 // Write-Var response header length

	pduLenReq uint16 = 0x01E0 // 480, requested PDU size

	rwResultOffset = 14 // result byte offset in both read and write responses
)

// Area codes.
type Area byte

const (
	AreaPE Area = 0x81 // Process Inputs
	AreaPA Area = 0x82 // Process Outputs
	AreaMK Area = 0x83 // Merkers
	AreaDB Area = 0x84 // Data Block
)

// WordLen codes.
type WordLen byte

const (
	WLBit  WordLen = 0x01
	WLByte WordLen = 0x02
)

// Write-only transport codes used in the Write-Var data section (distinct
// from the WordLen codes used in the item header).
const (
	transportBit  byte = 0x03
	transportByte byte = 0x04
)

// Connection-type codes, used as the high byte of the remote
// TSAP for the rack/slot connect helpers.
type ConnType uint16

const (
	CTPG ConnType = 0x0001 // as a programming device (default)
	CTOP ConnType = 0x0002 // as an HMI/operator panel
	CTS7 ConnType = 0x0003 // as a generic S7-Basic device
)

func hi(x uint16) byte { return byte(x >> 8) }
func lo(x uint16) byte { return byte(x) }

// buildCR returns the 22-byte ISO Connection Request telegram for the given
// TSAP pair.
func buildCR(localTSAP, remoteTSAP uint16) []byte {
	return []byte{
		// TPKT
		isoID, 0x00, hi(isoCRLen), lo(isoCRLen),
		// COTP
		0x11, isoConnReq,
		0x00, 0x00, // destination reference
		0x00, 0x01, // source reference
		0x00, // class + options
		0xC0, 0x01, 0x0A, // requested PDU size 1024 (COTP parameter, not the S7 PDU)
		0xC1, 0x02, hi(localTSAP), lo(localTSAP),
		0xC2, 0x02, hi(remoteTSAP), lo(remoteTSAP),
	}
}

// buildPDUNegotiate returns the 25-byte S7 Setup-Communication request
// telegram requesting pduLenReq as the PDU size.
func buildPDUNegotiate() []byte {
	return []byte{
		isoID, 0x00, 0x00, 0x19,
		0x02, 0xF0, eot,
		s7ID, 0x01, 0x00, 0x00, 0x04, 0x00, 0x00, 0x08, 0x00,
		0x00, 0xF0, 0x00, 0x00, 0x01, 0x00, 0x01,
		hi(pduLenReq), lo(pduLenReq),
	}
}

// bitAddress packs a (start, wordlen) pair into the 24-bit on-wire address:
// the raw bit index for BIT access, or start<<3 for BYTE access (a
// protocol invariant). start is carried as uint32 because a running byte offset
// shifted left by 3 can exceed 16 bits well before it exceeds 24.
func bitAddress(start uint32, wordlen WordLen) uint32 {
	if wordlen == WLBit {
		return start
	}
	return start << 3
}

func putAddress24(dst []byte, addr uint32) {
	dst[0] = byte(addr >> 16)
	dst[1] = byte(addr >> 8)
	dst[2] = byte(addr)
}

// buildReadRequest returns the 31-byte Read-Var request telegram for a
// single item of size chunkSize elements at the given 24-bit wire address.
func buildReadRequest(area Area, db uint16, addr uint32, wordlen WordLen, chunkSize uint16) []byte {
	req := []byte{
		isoID, 0x00, 0x00, readReqLen,
		0x02, 0xF0, eot,
		s7ID, 0x01, 0x00, 0x00, 0x05, 0x00,
		0x00, 0x0E, // parameter length = 14
		0x00, 0x00, // no payload in a read request
		0x04,                   // function: Read Var
		0x01,                   // item count
		0x12, 0x0A, 0x10,       // var spec / length / syntax ID S7ANY
		byte(wordlen),
		hi(chunkSize), lo(chunkSize),
		hi(db), lo(db),
		byte(area),
		0x00, 0x00, 0x00, // 24-bit address, patched below
	}
	putAddress24(req[28:31], addr)
	return req
}

// buildWriteRequest returns the Write-Var request telegram (35-byte header
// plus the payload) at the given 24-bit wire address, with the TPKT length
// field already patched to the total telegram size.
func buildWriteRequest(area Area, db uint16, addr uint32, wordlen WordLen, chunk []byte) []byte {
	chunkSize := uint16(len(chunk))
	dataLen := chunkSize + 4

	transport := transportByte
	bitsPayload := chunkSize * 8
	if wordlen == WLBit {
		transport = transportBit
		bitsPayload = 1
	}

	req := make([]byte, 0, writeReqLen+len(chunk))
	req = append(req,
		isoID, 0x00, 0x00, 0x00, // TPKT length patched below
		0x02, 0xF0, eot,
		s7ID, 0x01, 0x00, 0x00, 0x05, 0x00,
		0x00, 0x0E, // parameter length = 14
		hi(dataLen), lo(dataLen),
		0x05,             // function: Write Var
		0x01,             // item count
		0x12, 0x0A, 0x10, // var spec / length / syntax ID S7ANY
		byte(wordlen),
		hi(chunkSize), lo(chunkSize),
		hi(db), lo(db),
		byte(area),
		0x00, 0x00, 0x00, // 24-bit address, patched below
		0x00,      // reserved
		transport, // data-section transport code
		hi(bitsPayload), lo(bitsPayload),
	)
	req = append(req, chunk...)

	putAddress24(req[28:31], addr)

	total := uint16(len(req))
	req[2], req[3] = hi(total), lo(total)

	return req
}
