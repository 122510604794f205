package s7

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fixed S7/ISO-on-TCP fault taxonomy. Callers should
// match them with errors.Is rather than comparing strings.
var (
	// ErrNotConnected is returned by any operation attempted before the
	// handshake completes or after Disconnect.
	ErrNotConnected = errors.New("s7: not connected")

	// ErrTCPConnectionFailed means address resolution or the TCP connect
	// itself failed or timed out.
	ErrTCPConnectionFailed = errors.New("s7: tcp connection failed")

	// ErrConnectionClosed means the peer closed the socket while a request
	// was in flight.
	ErrConnectionClosed = errors.New("s7: connection closed by peer")

	// ErrIsoConnectionFailed means the COTP Connection Request was rejected
	// or no Connection Confirm was received.
	ErrIsoConnectionFailed = errors.New("s7: iso-on-tcp connection failed")

	// ErrIsoInvalidHeader means the TPKT/COTP byte pattern of an incoming
	// telegram did not match the fixed prefix this client expects.
	ErrIsoInvalidHeader = errors.New("s7: invalid iso header")

	// ErrIsoFragmentedPacket means the COTP End-Of-Transmission bit was
	// clear; this client does not reassemble fragmented telegrams.
	ErrIsoFragmentedPacket = errors.New("s7: fragmented iso packet")

	// ErrIsoInvalidTelegram means the declared telegram length was
	// inconsistent with the negotiated PDU size, or the telegram was too
	// short for the response it should carry. A connection that ends before
	// the declared length has arrived yields ErrConnectionClosed or ErrIO.
	ErrIsoInvalidTelegram = errors.New("s7: invalid iso telegram")

	// ErrPduNegotiationFailed means the S7 Setup Communication response was
	// malformed or negotiated a zero PDU length.
	ErrPduNegotiationFailed = errors.New("s7: pdu negotiation failed")

	// ErrIO wraps any lower-level network I/O failure. Use errors.Is against
	// this sentinel to detect the class, and errors.As (or errors.Is) to
	// inspect the underlying net/io error.
	ErrIO = errors.New("s7: io error")
)

// S7 per-item result codes
const (
	resultSuccess        byte = 0xFF
	resultInvalidAddress byte = 0x05
	resultNotFound       byte = 0x0A
)

// ProtocolError represents a non-success S7 result byte returned by the PLC
// for a Read-Var or Write-Var job item.
type ProtocolError struct {
	// Code is the raw result byte from offset 14 of the response.
	Code byte
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	switch e.Code {
	case resultNotFound:
		return "s7: resource not found in the cpu"
	case resultInvalidAddress:
		return "s7: invalid address (out of range, or an optimized DB)"
	default:
		return fmt.Sprintf("s7: unspecified error (result code 0x%02X)", e.Code)
	}
}

// Is reports whether target is one of the three sentinel classifications a
// ProtocolError can represent, so callers can use errors.Is(err,
// s7.ErrS7NotFound) without type-asserting *ProtocolError.
func (e *ProtocolError) Is(target error) bool {
	switch target {
	case ErrS7NotFound:
		return e.Code == resultNotFound
	case ErrS7InvalidAddress:
		return e.Code == resultInvalidAddress
	case ErrS7Unspecified:
		return e.Code != resultSuccess && e.Code != resultNotFound && e.Code != resultInvalidAddress
	}
	return false
}

// Classification sentinels matched via (*ProtocolError).Is. resultToError
// always returns a *ProtocolError; the only sentinel returned directly is
// ErrS7InvalidAddress, by ReadBit and WriteBit for a bit index above 7.
var (
	ErrS7NotFound       = errors.New("s7: resource not found in the cpu")
	ErrS7InvalidAddress = errors.New("s7: invalid address")
	ErrS7Unspecified    = errors.New("s7: unspecified s7 error")
)

// resultToError maps a Read-Var/Write-Var result byte to an error, or nil on
// success.
func resultToError(code byte) error {
	if code == resultSuccess {
		return nil
	}
	return &ProtocolError{Code: code}
}

// ioError wraps a lower-level network error so errors.Is(err, s7.ErrIO)
// succeeds while the original error remains inspectable via errors.As.
func ioError(op string, err error) error {
	return fmt.Errorf("s7: %s: %w", op, joinIO(err))
}

// joinIO lets the wrapped error chain satisfy errors.Is against both ErrIO
// and the underlying network error.
func joinIO(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
