package peer

import (
	"io"

	"github.com/Zereker/bloks/transport"
)

// Stream is the client end of an in-memory connection made by Pipe.
type Stream struct {
	*io.PipeReader // server to client
	*io.PipeWriter // client to server
}

// Close closes both directions. A pending client read fails, and the peer
// sees end of stream.
func (s *Stream) Close() error {
	rerr := s.PipeReader.Close()
	werr := s.PipeWriter.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

// Pipe connects a Peer to an in-memory client stream. Writes on either side
// block until the other side reads them.
func Pipe(opt ...transport.Option) (*Peer, *Stream) {
	fromServer, toClient := io.Pipe()
	fromClient, toServer := io.Pipe()

	p := New(fromClient, toClient, nil, opt...)
	return p, &Stream{PipeReader: fromServer, PipeWriter: toServer}
}
