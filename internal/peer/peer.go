// Package peer simulates the server end of a game connection. Tests use it to
// push server messages to a client and to inspect what the client sent.
package peer

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Zereker/bloks/protocol"
	"github.com/Zereker/bloks/transport"
)

var (
	// ErrTimeout is returned by Next when no message arrived in time.
	ErrTimeout = errors.New("peer: timeout waiting for message")
	// ErrClosed is returned by Next when the stream ended and every message was consumed.
	ErrClosed = errors.New("peer: stream closed")
)

// Peer is one simulated server side connection.
type Peer struct {
	reader *transport.Reader
	writer *transport.Writer
	w      io.Writer
	closer io.Closer

	mu       sync.Mutex
	received []protocol.Message
	next     int
	arrived  chan struct{}
}

// New starts a peer reading client messages from r and writing server messages to w.
// closer releases both; it may be nil when closing r and w is enough.
func New(r io.Reader, w io.Writer, closer io.Closer, opt ...transport.Option) *Peer {
	p := &Peer{
		w:       w,
		closer:  closer,
		arrived: make(chan struct{}, 1),
	}

	opt = append(opt, transport.OnTerminateOption(func(error) { p.notify() }))
	// NewReader only fails for a nil handler.
	p.reader, _ = transport.NewReader(r, transport.HandlerFunc(p.handle), opt...)
	p.writer = transport.NewWriter(w, opt...)
	p.reader.Start()
	return p
}

// NewConn starts a peer on an accepted network connection.
func NewConn(conn net.Conn, opt ...transport.Option) *Peer {
	return New(conn, conn, conn, opt...)
}

func (p *Peer) handle(m protocol.Message) error {
	p.mu.Lock()
	p.received = append(p.received, m)
	p.mu.Unlock()
	p.notify()
	return nil
}

func (p *Peer) notify() {
	select {
	case p.arrived <- struct{}{}:
	default:
	}
}

// Send writes messages to the client.
func (p *Peer) Send(messages ...protocol.Message) error {
	return p.writer.Write(messages...)
}

// Next returns the oldest message not yet returned by Next, waiting up to timeout.
func (p *Peer) Next(timeout time.Duration) (protocol.Message, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		p.mu.Lock()
		if p.next < len(p.received) {
			m := p.received[p.next]
			p.next++
			p.mu.Unlock()
			return m, nil
		}
		p.mu.Unlock()

		if p.reader.State().Terminated() {
			// The handler may have appended right before termination.
			p.mu.Lock()
			pending := p.next < len(p.received)
			p.mu.Unlock()
			if !pending {
				return nil, ErrClosed
			}
			continue
		}

		select {
		case <-p.arrived:
		case <-p.reader.Done():
		case <-deadline.C:
			return nil, ErrTimeout
		}
	}
}

// Received returns every message read so far.
func (p *Peer) Received() []protocol.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]protocol.Message(nil), p.received...)
}

// Reader exposes the peer's read loop, e.g. to Join it or inspect its error.
func (p *Peer) Reader() *transport.Reader {
	return p.reader
}

// CloseOutput ends the server to client direction only, so the client sees end of stream
// while the peer can still read what the client sends.
func (p *Peer) CloseOutput() error {
	switch w := p.w.(type) {
	case interface{ CloseWrite() error }:
		return w.CloseWrite()
	case io.Closer:
		return w.Close()
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// Close stops the read loop and releases the connection.
func (p *Peer) Close() error {
	err := p.reader.Stop()
	if c, ok := p.w.(io.Closer); ok {
		_ = c.Close()
	}
	if p.closer != nil {
		_ = p.closer.Close()
	}
	return err
}
