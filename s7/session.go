// Package s7 implements a synchronous client for the Siemens S7
// communication protocol over ISO-on-TCP (RFC 1006), the wire protocol
// spoken by S7-300/400/1200/1500 CPUs and compatible drives.
package s7

import (
	"fmt"
	"time"

	"s7link/logging"
)

const (
	defaultConnectTimeout = 3000 * time.Millisecond
	defaultReadTimeout    = 1000 * time.Millisecond
	defaultWriteTimeout   = 500 * time.Millisecond
)

// Stats is a point-in-time snapshot of a Session's connection and last-job
// bookkeeping, safe to read after any operation returns.
type Stats struct {
	// PDULength is the PDU size negotiated by the most recent successful
	// connect, or 0 before the first one. Disconnect does not reset it.
	PDULength uint16
	// Connected reports whether the session currently holds an open socket.
	Connected bool
	// LastTime is how long the last successful operation took, in
	// milliseconds. It is 0 if the last operation failed.
	LastTime float64
	// Chunks is how many Read-Var/Write-Var telegrams the last operation
	// needed, bounded by the negotiated PDU size.
	Chunks int
}

// Session is a single PLC connection. It is not safe for concurrent use:
// one goroutine, one in-flight job at a time, matching the synchronous
// request/response nature of the protocol itself.
type Session struct {
	t      *transport
	tracer logging.Tracer

	port     uint16
	connType ConnType

	connectTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration

	pduLength    uint16
	maxRdPDUData uint16
	maxWrPDUData uint16
	connected    bool

	lastTime float64
	chunks   int
}

// New returns a Session with default timeouts and connection type, ready to
// Connect. Pass a non-nil logging.Tracer to record connection lifecycle
// events and a hex dump of every telegram; a nil tracer discards everything.
func New(tracer logging.Tracer) *Session {
	if tracer == nil {
		tracer = logging.NopTracer()
	}
	return &Session{
		tracer:         tracer,
		port:           defaultS7Port,
		connType:       CTPG,
		connectTimeout: defaultConnectTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
	}
}

// SetConnectionType changes the TSAP connection type used by
// ConnectRackSlot, ConnectS71200, and ConnectS7300. Has no effect on
// ConnectTSAP, which already takes the remote TSAP explicitly. Must be
// called before connecting.
func (s *Session) SetConnectionType(connType ConnType) {
	s.connType = connType
}

// SetConnectionPort overrides the default S7 port (102), for NAT setups.
// Must be called before connecting.
func (s *Session) SetConnectionPort(port uint16) {
	if port > 0 {
		s.port = port
	}
}

// SetTimeout overrides the connect/read/write timeouts. A zero duration
// leaves the corresponding timeout unchanged. Must be called before
// connecting.
func (s *Session) SetTimeout(connect, read, write time.Duration) {
	if connect > 0 {
		s.connectTimeout = connect
	}
	if read > 0 {
		s.readTimeout = read
	}
	if write > 0 {
		s.writeTimeout = write
	}
}

// ConnectTSAP is the most general connect entry point: it dials ip on the
// configured port and negotiates using the given local and remote TSAP
// values directly. ConnectRackSlot, ConnectS71200, and ConnectS7300 are
// convenience wrappers that derive the remote TSAP for common hardware.
func (s *Session) ConnectTSAP(ip string, localTSAP, remoteTSAP uint16) error {
	s.connected = false
	s.lastTime = 0
	start := time.Now()

	address := fmt.Sprintf("%s:%d", ip, s.port)
	t := newTransport(s.tracer)
	if err := t.dial(address, s.connectTimeout, s.readTimeout, s.writeTimeout); err != nil {
		return err
	}

	hs := &handshake{t: t}
	pduLength, err := hs.connect(localTSAP, remoteTSAP)
	if err != nil {
		_ = t.close()
		s.tracer.ConnectError(address, err)
		return err
	}

	s.t = t
	s.pduLength = pduLength
	s.maxRdPDUData = pduLength - 18
	s.maxWrPDUData = pduLength - 28
	s.connected = true
	s.lastTime = elapsedMillis(start)

	s.tracer.ConnectSuccess(address, fmt.Sprintf("pdu=%d", pduLength))
	return nil
}

// ConnectRackSlot connects using the rack/slot addressing scheme shared by
// the S7300/400/1200/1500 families, deriving the remote TSAP from the
// configured connection type (CTPG by default).
func (s *Session) ConnectRackSlot(ip string, rack, slot uint16) error {
	remoteTSAP := remoteTSAPForRackSlot(s.connType, rack, slot)
	return s.ConnectTSAP(ip, localTSAPDefault, remoteTSAP)
}

// ConnectS71200 connects to an S7-1200/1500 CPU, equivalent to
// ConnectRackSlot(ip, 0, 0).
func (s *Session) ConnectS71200(ip string) error {
	return s.ConnectRackSlot(ip, 0, 0)
}

// ConnectS7300 connects to an S7-300 CPU, equivalent to
// ConnectRackSlot(ip, 0, 2).
func (s *Session) ConnectS7300(ip string) error {
	return s.ConnectRackSlot(ip, 0, 2)
}

// Disconnect closes the connection. Safe to call when not connected. After
// Disconnect, ReadArea/WriteArea return ErrNotConnected until the session is
// reconnected.
func (s *Session) Disconnect() {
	if !s.connected {
		return
	}
	addr := ""
	if s.t != nil && s.t.conn != nil {
		addr = s.t.conn.RemoteAddr().String()
	}
	_ = s.t.close()
	s.t = nil
	s.connected = false
	s.tracer.Disconnect(addr, "disconnect requested")
}

// Close is an alias for Disconnect, for callers that prefer the io.Closer
// idiom. Unlike a *os.File or net.Conn, a Session has no finalizer: a
// forgotten Close leaves the socket open until the garbage collector
// reclaims the underlying net.Conn.
func (s *Session) Close() error {
	s.Disconnect()
	return nil
}

// Stats returns a snapshot of the session's connection state and the
// bookkeeping from its last completed operation.
func (s *Session) Stats() Stats {
	return Stats{
		PDULength: s.pduLength,
		Connected: s.connected,
		LastTime:  s.lastTime,
		Chunks:    s.chunks,
	}
}

// ReadArea reads len(dst) bytes, at most 65535 (wordlen byte), or a single
// element (wordlen bit) from area/db/start into dst. On a low-level error the
// caller should Disconnect and reconnect rather than retry in place.
func (s *Session) ReadArea(area Area, db uint16, start uint16, wordlen WordLen, dst []byte) error {
	s.lastTime = 0
	s.chunks = 0
	if !s.connected {
		return ErrNotConnected
	}

	start0 := time.Now()
	chunks, err := s.readArea(area, db, start, wordlen, dst)
	s.chunks = chunks
	if err != nil {
		s.tracer.Error("read", err)
		return err
	}
	s.lastTime = elapsedMillis(start0)
	return nil
}

// WriteArea writes src (len(src) bytes for wordlen byte, a single element
// for wordlen bit) to area/db/start. On a low-level error the caller should
// Disconnect and reconnect rather than retry in place.
func (s *Session) WriteArea(area Area, db uint16, start uint16, wordlen WordLen, src []byte) error {
	s.lastTime = 0
	s.chunks = 0
	if !s.connected {
		return ErrNotConnected
	}

	start0 := time.Now()
	chunks, err := s.writeArea(area, db, start, wordlen, src)
	s.chunks = chunks
	if err != nil {
		s.tracer.Error("write", err)
		return err
	}
	s.lastTime = elapsedMillis(start0)
	return nil
}

// ReadDB reads len(dst) bytes from data block db at byte offset start.
// Equivalent to ReadArea(AreaDB, db, start, WLByte, dst).
func (s *Session) ReadDB(db uint16, start uint16, dst []byte) error {
	return s.ReadArea(AreaDB, db, start, WLByte, dst)
}

// WriteDB writes src to data block db at byte offset start. Equivalent to
// WriteArea(AreaDB, db, start, WLByte, src).
func (s *Session) WriteDB(db uint16, start uint16, src []byte) error {
	return s.WriteArea(AreaDB, db, start, WLByte, src)
}

// ReadBit reads a single bit from area/db at byteNum.bitIdx (bitIdx 0..7).
// For example DB10.DBX71.4 is ReadBit(AreaDB, 10, 71, 4).
func (s *Session) ReadBit(area Area, db uint16, byteNum uint16, bitIdx uint8) (bool, error) {
	if bitIdx > 7 {
		return false, ErrS7InvalidAddress
	}
	start := byteNum*8 + uint16(bitIdx)
	var buf [1]byte
	if err := s.ReadArea(area, db, start, WLBit, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// WriteBit writes a single bit to area/db at byteNum.bitIdx (bitIdx 0..7),
// leaving the other bits of that byte unchanged. For example writing 1 to
// DB10.DBX71.4 is WriteBit(AreaDB, 10, 71, 4, true).
func (s *Session) WriteBit(area Area, db uint16, byteNum uint16, bitIdx uint8, value bool) error {
	if bitIdx > 7 {
		return ErrS7InvalidAddress
	}
	start := byteNum*8 + uint16(bitIdx)
	var buf [1]byte
	if value {
		buf[0] = 1
	}
	return s.WriteArea(area, db, start, WLBit, buf[:])
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
