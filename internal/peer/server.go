package peer

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Zereker/bloks/transport"
)

var errServerClosed = errors.New("peer server closed")

// Server accepts TCP connections and turns each one into a Peer.
type Server struct {
	listener net.Listener
	logger   transport.Logger
	peers    chan *Peer

	mu     sync.Mutex
	closed bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// ServerLoggerOption sets the logger for the server and its peers.
func ServerLoggerOption(logger transport.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Listen binds a server to addr, e.g. "127.0.0.1:0".
func Listen(addr string, opts ...ServerOption) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		listener: listener,
		logger:   slog.Default(),
		peers:    make(chan *Peer, 8),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Serve accepts connections until ctx is canceled or Close is called.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("peer server started", "addr", s.listener.Addr())

	group, child := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-child.Done()
		s.shutdown()
		return nil
	})
	group.Go(func() error {
		defer s.shutdown()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				if s.isClosed() {
					return errServerClosed
				}
				s.logger.Error("accept error", "error", err.Error())
				return err
			}

			s.logger.Debug("accepted connection", "remote_addr", conn.RemoteAddr())
			if tcp, ok := conn.(*net.TCPConn); ok {
				_ = tcp.SetNoDelay(true)
			}
			p := NewConn(conn, transport.LoggerOption(s.logger), transport.NameOption(conn.RemoteAddr().String()))
			select {
			case s.peers <- p:
			case <-child.Done():
				_ = p.Close()
				return errServerClosed
			}
		}
	})

	err := group.Wait()
	s.logger.Info("peer server stopped", "addr", s.listener.Addr())
	if errors.Is(err, errServerClosed) {
		return nil
	}
	return err
}

// Peers delivers a Peer for every accepted connection.
func (s *Server) Peers() <-chan *Peer {
	return s.peers
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting connections. Peers already handed out stay open.
func (s *Server) Close() error {
	return s.shutdown()
}

func (s *Server) shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.listener.Close()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// WebSocketHandler upgrades every request to a WebSocket and delivers it as a
// Peer exchanging binary messages.
func WebSocketHandler(peers chan<- *Peer, opt ...transport.Option) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		peers <- NewConn(websocket.NetConn(context.Background(), ws, websocket.MessageBinary), opt...)
	})
}
