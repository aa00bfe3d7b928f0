package peer

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zereker/bloks/protocol"
	"github.com/Zereker/bloks/transport"
)

func TestPipe_Exchange(t *testing.T) {
	p, s := Pipe()
	defer p.Close()

	client := transport.NewWriter(s)
	go func() {
		_ = client.Write(protocol.RequestPlayer{Player: 1, Name: "alice"}, protocol.StartGame{})
	}()

	m, err := p.Next(time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.RequestPlayer{Player: 1, Name: "alice"}, m)

	m, err = p.Next(time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.StartGame{}, m)

	_, err = p.Next(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	go func() { _ = p.Send(protocol.GrantPlayer{Player: 1}) }()
	got, err := protocol.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, protocol.GrantPlayer{Player: 1}, got)

	assert.Len(t, p.Received(), 2)
}

func TestPipe_CloseOutput(t *testing.T) {
	p, s := Pipe()
	defer p.Close()

	require.NoError(t, p.CloseOutput())
	_, err := protocol.Decode(s)
	assert.ErrorIs(t, err, protocol.ErrEndOfStream)

	// The other direction still works.
	go func() { _ = transport.NewWriter(s).Write(protocol.RequestUndo{}) }()
	m, err := p.Next(time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.RequestUndo{}, m)
}

func TestPipe_ClientClose(t *testing.T) {
	p, s := Pipe()
	defer p.Close()

	go func() {
		_ = transport.NewWriter(s).Write(protocol.RequestUndo{})
		_ = s.Close()
	}()

	m, err := p.Next(time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.RequestUndo{}, m)

	_, err = p.Next(time.Second)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, p.Reader().Err(), protocol.ErrEndOfStream)
}

func TestServer_ServeAndClose(t *testing.T) {
	srv, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(context.Background()) }()

	conn, err := transport.DialTCP(context.Background(), srv.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	var p *Peer
	select {
	case p = <-srv.Peers():
		defer p.Close()
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for peer")
	}

	require.NoError(t, transport.NewWriter(conn).Write(protocol.Chat{Text: "hello"}))
	m, err := p.Next(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.Chat{Text: "hello"}, m)

	require.NoError(t, p.Send(protocol.CurrentPlayer{Player: 2}))
	got, err := protocol.Decode(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.CurrentPlayer{Player: 2}, got)

	require.NoError(t, srv.Close())
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
	assert.NoError(t, srv.Close())
}

func TestServer_ContextCancel(t *testing.T) {
	srv, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx) }()

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	_, err = net.DialTimeout("tcp", srv.Addr().String(), 200*time.Millisecond)
	assert.Error(t, err, "listener still accepting")
}

func TestWebSocketHandler(t *testing.T) {
	peers := make(chan *Peer, 1)
	hs := httptest.NewServer(WebSocketHandler(peers))
	defer hs.Close()

	url := "ws" + strings.TrimPrefix(hs.URL, "http")
	conn, err := transport.DialWebSocket(context.Background(), url, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	var p *Peer
	select {
	case p = <-peers:
		defer p.Close()
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for peer")
	}

	require.NoError(t, transport.NewWriter(conn).Write(protocol.RequestHint{Player: 3}))
	m, err := p.Next(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.RequestHint{Player: 3}, m)

	require.NoError(t, p.Send(protocol.StoneHint{Turn: protocol.Turn{Player: 3, Shape: 4, X: 1, Y: 2}}))
	got, err := protocol.Decode(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.StoneHint{Turn: protocol.Turn{Player: 3, Shape: 4, X: 1, Y: 2}}, got)

	require.NoError(t, p.Close())
	_, err = p.Next(5 * time.Second)
	assert.True(t, errors.Is(err, ErrClosed))
}
