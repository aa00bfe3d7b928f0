// Package client implements the game client session: it owns the connection
// to the server, applies server messages to the local game state, notifies
// observers, and validates requests before sending them.
package client

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zereker/bloks/game"
	"github.com/Zereker/bloks/protocol"
	"github.com/Zereker/bloks/transport"
)

// connection is one attached stream. It is never reused; reconnecting builds a new one.
type connection struct {
	id     string
	closer io.Closer
	reader *transport.Reader
	writer *transport.Writer
	once   sync.Once
}

func (c *connection) close() {
	c.once.Do(func() {
		_ = c.reader.Stop()
		if c.closer != nil {
			_ = c.closer.Close()
		}
	})
}

// Session is a client's view of one game server. It starts disconnected, may
// be connected and disconnected any number of times, and keeps the same game
// state and observers throughout.
//
// Requests are safe to call from any goroutine. They never return transport
// errors: a failed write disconnects the session and observers learn about it
// through OnDisconnected.
type Session struct {
	game      *game.Game
	logger    transport.Logger
	opts      options
	observers registry
	executor  Executor
	loop      *Loop // set when the session runs its own executor

	mu   sync.Mutex
	conn *connection
}

// New creates a disconnected session around g.
func New(g *game.Game, opt ...Option) *Session {
	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)

	s := &Session{
		game:     g,
		logger:   opts.logger,
		opts:     opts,
		executor: opts.executor,
	}
	if s.executor == nil {
		s.loop = NewLoop()
		s.executor = s.loop
		go s.loop.Run(context.Background())
	}
	return s
}

// Game returns the local game state the session keeps in sync.
func (s *Session) Game() *game.Game {
	return s.game
}

// AddObserver registers o behind the observers already registered. Adding an
// observer twice has no effect.
func (s *Session) AddObserver(o Observer) {
	s.observers.add(o)
}

// RemoveObserver unregisters o. When it returns, o is not running and will not
// be called again. It may be called from inside a callback, except from o's own.
func (s *Session) RemoveObserver(o Observer) {
	s.observers.remove(o)
}

// Connected attaches an established stream pair and starts reading from r.
// closer releases the underlying connection; closing it must unblock reads on r.
func (s *Session) Connected(closer io.Closer, r io.Reader, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return ErrAlreadyConnected
	}

	c := &connection{id: uuid.NewString(), closer: closer}
	reader, err := transport.NewReader(r, transport.HandlerFunc(s.dispatch),
		transport.CustomCodecOption(s.opts.codec),
		transport.LoggerOption(s.logger),
		transport.NameOption(c.id),
		transport.OnTerminateOption(func(err error) { s.drop(c, err) }),
	)
	if err != nil {
		return err
	}
	c.reader = reader
	c.writer = transport.NewWriter(w,
		transport.CustomCodecOption(s.opts.codec),
		transport.LoggerOption(s.logger),
		transport.NameOption(c.id),
	)

	s.conn = c
	c.reader.Start()
	s.logger.Info("connected", "conn", c.id)

	s.notify(func(o Observer) {
		if co, ok := o.(ConnectObserver); ok {
			co.OnConnected(s)
		}
	})
	return nil
}

// Attach connects the session over a network connection.
func (s *Session) Attach(conn net.Conn) error {
	return s.Connected(conn, conn, conn)
}

// Dial connects to a server with transport.Dial and attaches the result.
func (s *Session) Dial(ctx context.Context, network, address string, timeout time.Duration) error {
	conn, err := transport.Dial(ctx, network, address, timeout)
	if err != nil {
		return err
	}
	if err := s.Attach(conn); err != nil {
		_ = conn.Close()
		return err
	}
	return nil
}

// IsConnected reports whether a stream is attached and its reader is still running.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && !s.conn.reader.State().Terminated()
}

// Disconnect closes the connection. Observers get OnDisconnected with a nil
// error. It does nothing when the session is not connected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	c := s.conn
	if c == nil {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	// Queued under the lock so it precedes OnConnected of a later connection.
	s.notify(func(o Observer) { o.OnDisconnected(s, nil) })
	s.mu.Unlock()

	c.close()
	s.logger.Info("disconnected", "conn", c.id)
}

// Close disconnects and, when the session runs its own executor, stops it
// after pending notifications were delivered.
func (s *Session) Close() {
	s.Disconnect()
	if s.loop != nil {
		s.loop.Close()
	}
}

// drop detaches c after its reader or writer failed. Only the caller that
// detaches c notifies, so each connection yields exactly one OnDisconnected.
func (s *Session) drop(c *connection, cause error) {
	// A nil cause means the reader was stopped from outside the session.
	var err error
	if cause != nil {
		err = newDisconnectError(cause)
	}

	s.mu.Lock()
	if s.conn != c {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.notify(func(o Observer) { o.OnDisconnected(s, err) })
	s.mu.Unlock()

	c.close()

	if cause == nil {
		s.logger.Info("disconnected", "conn", c.id)
		return
	}
	s.logger.Info("connection lost", "conn", c.id, "reason", ReasonOf(err), "error", cause.Error())
}

func (s *Session) current() *connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// send writes m on the current connection and reports whether it was sent.
// A stream failure disconnects the session; an encoding failure only drops m.
func (s *Session) send(m protocol.Message) bool {
	c := s.current()
	if c == nil {
		s.logger.Debug("not connected, dropping request", "type", m.Type())
		return false
	}

	if err := c.writer.Write(m); err != nil {
		if c.writer.Broken() != nil {
			s.drop(c, err)
		} else {
			s.logger.Warn("cannot encode request", "conn", c.id, "type", m.Type(), "error", err.Error())
		}
		return false
	}
	return true
}

// notify delivers fn to every observer on the executor.
func (s *Session) notify(fn func(Observer)) {
	s.executor.Execute(func() { s.observers.each(fn) })
}
