package transport

import (
	"context"
	"net"
	"time"

	"github.com/coder/websocket"
	"github.com/pkg/errors"
)

// wsReadLimit bounds a single WebSocket message. A Writer may batch several
// frames into one message, so this is larger than protocol.MaxFrameSize.
const wsReadLimit = 1 << 20

// DialTCP connects to addr ("host:port") and disables Nagle's algorithm, as
// requests are small and latency sensitive.
func DialTCP(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial tcp %s", addr)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}
	return conn, nil
}

// DialWebSocket opens a WebSocket to url and exposes it as a byte stream of
// binary messages. timeout bounds the handshake only.
func DialWebSocket(ctx context.Context, url string, timeout time.Duration) (net.Conn, error) {
	dialCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ws, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial websocket %s", url)
	}
	ws.SetReadLimit(wsReadLimit)

	// The stream outlives the dial context; it ends when the conn is closed.
	return websocket.NetConn(context.Background(), ws, websocket.MessageBinary), nil
}

// Networks accepted by Dial.
const (
	NetworkTCP       = "tcp"
	NetworkWebSocket = "websocket"
)

// ErrUnknownNetwork is returned by Dial for a network it does not support.
var ErrUnknownNetwork = errors.New("unknown network")

// Dial connects with DialTCP or DialWebSocket depending on network. For
// websocket, address is a ws:// or wss:// URL.
func Dial(ctx context.Context, network, address string, timeout time.Duration) (net.Conn, error) {
	switch network {
	case NetworkTCP, "":
		return DialTCP(ctx, address, timeout)
	case NetworkWebSocket:
		return DialWebSocket(ctx, address, timeout)
	default:
		return nil, errors.Wrap(ErrUnknownNetwork, network)
	}
}
