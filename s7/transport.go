package s7

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"s7link/logging"
)

const defaultS7Port = 102

// transport owns the single TCP endpoint for a Session. It
// sends and receives whole TPKT-framed packets and applies connect/read/
// write deadlines; it has no notion of COTP or S7 semantics, which belong to
// the ISO framing and handshake components.
type transport struct {
	conn         net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
	tracer       logging.Tracer
}

func newTransport(tracer logging.Tracer) *transport {
	if tracer == nil {
		tracer = logging.NopTracer()
	}
	return &transport{tracer: tracer}
}

// dial connects to address (host or host:port; defaultS7Port is appended
// when address has no port) within connectTimeout, then records the
// per-direction timeouts applied to every subsequent sendTPKT/recvTPKT call
// and disables Nagle's algorithm.
func (t *transport) dial(address string, connectTimeout, readTimeout, writeTimeout time.Duration) error {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = fmt.Sprintf("%s:%d", address, defaultS7Port)
	}

	t.tracer.Connect(address)

	conn, err := net.DialTimeout("tcp", address, connectTimeout)
	if err != nil {
		t.tracer.ConnectError(address, err)
		return fmt.Errorf("%w: %w", ErrTCPConnectionFailed, err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	t.conn = conn
	t.readTimeout = readTimeout
	t.writeTimeout = writeTimeout
	return nil
}

// close shuts the connection down and releases it. Idempotent.
func (t *transport) close() error {
	if t.conn == nil {
		return nil
	}
	addr := t.conn.RemoteAddr().String()
	err := t.conn.Close()
	t.conn = nil
	t.tracer.Disconnect(addr, "close requested")
	return err
}

// sendTPKT writes payload wrapped in a TPKT header, honoring the configured
// write timeout.
func (t *transport) sendTPKT(payload []byte) error {
	length := uint16(len(payload) + 4)
	packet := make([]byte, 0, length)
	packet = append(packet, isoID, 0x00, hi(length), lo(length))
	packet = append(packet, payload...)

	if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
		return ioError("set write deadline", err)
	}

	t.tracer.TX(packet)
	if _, err := t.conn.Write(packet); err != nil {
		return classifyIOError("write", err)
	}
	return nil
}

// recvTPKT reads one TPKT-framed packet, honoring the configured read
// timeout, and returns its payload (everything after the 4-byte TPKT
// header). It performs no COTP/S7 validation — that is the ISO framing
// component's job (s7/iso.go).
func (t *transport) recvTPKT() ([]byte, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(t.readTimeout)); err != nil {
		return nil, ioError("set read deadline", err)
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(t.conn, header); err != nil {
		return nil, classifyIOError("read tpkt header", err)
	}
	if header[0] != isoID {
		return nil, ErrIsoInvalidHeader
	}

	length := int(binary.BigEndian.Uint16(header[2:4]))
	if length < 4 {
		return nil, ErrIsoInvalidHeader
	}

	payload := make([]byte, length-4)
	if len(payload) > 0 {
		if _, err := io.ReadFull(t.conn, payload); err != nil {
			return nil, classifyIOError("read tpkt payload", err)
		}
	}

	full := make([]byte, 0, len(header)+len(payload))
	full = append(full, header...)
	full = append(full, payload...)
	t.tracer.RX(full)

	return payload, nil
}

// classifyIOError maps a socket error to ErrConnectionClosed when the peer
// cleanly closed the connection, or to the generic ErrIO wrapper otherwise.
func classifyIOError(op string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%s: %w", op, ErrConnectionClosed)
	}
	return ioError(op, err)
}
