package protocol

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEndOfStream is returned by Decode when the stream ends before a complete frame was read.
	ErrEndOfStream = errors.New("end of stream")
	// ErrMessageTooLarge is returned when an encoded frame would not fit the 16 bit size field.
	ErrMessageTooLarge = errors.New("message too large")
	// ErrFieldRange is returned when a field value cannot be represented on the wire.
	ErrFieldRange = errors.New("field out of range")
)

// Error reports a malformed or unknown frame. It is fatal to the connection it was read from.
type Error struct {
	Type   Type
	Reason string
}

func (e *Error) Error() string {
	if e.Type == 0 {
		return "protocol: " + e.Reason
	}
	return fmt.Sprintf("protocol: %s: %s", e.Type, e.Reason)
}

func protocolErrorf(t Type, format string, args ...any) error {
	return &Error{Type: t, Reason: fmt.Sprintf(format, args...)}
}

// IsProtocolError reports whether err is, or wraps, a *Error.
func IsProtocolError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
