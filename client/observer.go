package client

import (
	"sync"

	"github.com/Zereker/bloks/protocol"
)

// Observer is notified of session events on the session's executor.
// Implementations should return quickly; a slow observer delays every observer
// registered after it.
//
// An observer may also implement any of ConnectObserver, TurnObserver,
// StoneObserver, GameObserver and ChatObserver to receive more events.
type Observer interface {
	OnStatus(status protocol.ServerStatus)
	// OnDisconnected is called once per connection. err is nil when the
	// session was disconnected locally, otherwise a *DisconnectError.
	OnDisconnected(s *Session, err error)
}

// ConnectObserver is told when a connection has been established.
type ConnectObserver interface {
	OnConnected(s *Session)
}

// TurnObserver follows whose turn it is.
type TurnObserver interface {
	// OnPlayerToMove reports the new current player and whether this client controls it.
	OnPlayerToMove(player int, local bool)
}

// StoneObserver follows the stones on the board and the hints the server sends.
type StoneObserver interface {
	OnStoneSet(turn protocol.Turn)
	OnStoneUndone(turn protocol.Turn)
	OnHint(turn protocol.Turn)
}

// GameObserver is told when a game starts and when it ends.
type GameObserver interface {
	OnGameStarted()
	OnGameFinished()
}

// ChatObserver receives chat lines along with the sending client.
type ChatObserver interface {
	OnChat(client int, text string)
}

// NopObserver implements every observer interface with empty methods.
// Embed it to handle only some events.
type NopObserver struct{}

func (NopObserver) OnStatus(protocol.ServerStatus) {}
func (NopObserver) OnDisconnected(*Session, error) {}
func (NopObserver) OnConnected(*Session)           {}
func (NopObserver) OnPlayerToMove(int, bool)       {}
func (NopObserver) OnStoneSet(protocol.Turn)       {}
func (NopObserver) OnStoneUndone(protocol.Turn)    {}
func (NopObserver) OnHint(protocol.Turn)           {}
func (NopObserver) OnGameStarted()                 {}
func (NopObserver) OnGameFinished()                {}
func (NopObserver) OnChat(int, string)             {}

// registration guards one observer. Delivery holds mu for reading while the
// callback runs; removal takes it for writing, so once remove returns the
// observer is neither running nor called again.
type registration struct {
	observer Observer
	mu       sync.RWMutex
	removed  bool
}

// registry keeps observers in registration order. Delivery walks a snapshot
// without holding the registry lock, so a callback may add observers and
// remove observers other than the one being called.
type registry struct {
	mu      sync.Mutex
	entries []*registration
}

// add registers o unless it is already registered. Observers are compared
// with ==, so they must be comparable; pointers are.
func (r *registry) add(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.observer == o {
			return
		}
	}
	r.entries = append(r.entries, &registration{observer: o})
}

// remove unregisters o and waits for a callback to o that is already running
// on another goroutine to return.
func (r *registry) remove(o Observer) {
	var found *registration
	r.mu.Lock()
	for i, e := range r.entries {
		if e.observer == o {
			found = e
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	if found != nil {
		found.mu.Lock()
		found.removed = true
		found.mu.Unlock()
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// each calls fn for every observer registered when delivery starts, skipping
// any removed before its turn came.
func (r *registry) each(fn func(Observer)) {
	r.mu.Lock()
	snapshot := append([]*registration(nil), r.entries...)
	r.mu.Unlock()

	for _, e := range snapshot {
		e.deliver(fn)
	}
}

func (e *registration) deliver(fn func(Observer)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.removed {
		fn(e.observer)
	}
}
