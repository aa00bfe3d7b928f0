package client

import (
	"github.com/pkg/errors"

	"github.com/Zereker/bloks/protocol"
)

// ErrAlreadyConnected is returned when attaching a stream to a connected session.
var ErrAlreadyConnected = errors.New("session already connected")

// Reason classifies why a connection was lost.
type Reason int

const (
	// ReasonEndOfStream means the server closed the stream.
	ReasonEndOfStream Reason = iota + 1
	// ReasonProtocol means the server sent something that could not be decoded or handled.
	ReasonProtocol
	// ReasonTransport means reading or writing the stream failed.
	ReasonTransport
)

func (r Reason) String() string {
	switch r {
	case ReasonEndOfStream:
		return "end of stream"
	case ReasonProtocol:
		return "protocol error"
	case ReasonTransport:
		return "transport error"
	default:
		return "unknown"
	}
}

// DisconnectError is what observers receive when the connection was lost
// rather than closed locally. It unwraps to the underlying cause, so
// errors.Is(err, protocol.ErrEndOfStream) holds for a server side close.
type DisconnectError struct {
	Reason Reason
	Err    error
}

func (e *DisconnectError) Error() string {
	return "disconnected: " + e.Reason.String() + ": " + e.Err.Error()
}

func (e *DisconnectError) Unwrap() error {
	return e.Err
}

func newDisconnectError(err error) *DisconnectError {
	reason := ReasonTransport
	switch {
	case errors.Is(err, protocol.ErrEndOfStream):
		reason = ReasonEndOfStream
	case protocol.IsProtocolError(err):
		reason = ReasonProtocol
	}
	return &DisconnectError{Reason: reason, Err: err}
}

// ReasonOf returns the Reason carried by err, or 0 when err is nil or not a
// disconnect error.
func ReasonOf(err error) Reason {
	var de *DisconnectError
	if errors.As(err, &de) {
		return de.Reason
	}
	return 0
}
