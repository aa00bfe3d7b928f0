package transport

import (
	"io"

	"github.com/Zereker/bloks/protocol"
)

// Codec turns frames on a byte stream into protocol messages and back.
//
// Decode must read exactly one frame from r so that the next call starts at a
// frame boundary, however the stream happens to be fragmented.
type Codec interface {
	Decode(r io.Reader) (protocol.Message, error)
	Encode(protocol.Message) ([]byte, error)
}

// Handler receives every message a Reader decodes.
// Returning an error stops the reader with that error.
type Handler interface {
	HandleMessage(m protocol.Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(m protocol.Message) error

func (f HandlerFunc) HandleMessage(m protocol.Message) error {
	return f(m)
}
