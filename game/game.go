// Package game holds the client's local copy of the game state.
//
// The state is written from two places: the session's dispatch of server
// messages, and request validation on the caller's goroutine. Both go through
// the one mutex in Game.
package game

import (
	"sync"

	"github.com/Zereker/bloks/protocol"
)

// PlayerType says who controls a player slot.
type PlayerType int

const (
	PlayerComputer PlayerType = iota
	PlayerRemote
	PlayerLocal
)

func (t PlayerType) String() string {
	switch t {
	case PlayerComputer:
		return "computer"
	case PlayerRemote:
		return "remote"
	case PlayerLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Game is the local game state. The zero value is not usable; call New.
type Game struct {
	mu            sync.Mutex
	currentPlayer int
	playerTypes   [protocol.PlayerCount]PlayerType
	status        protocol.ServerStatus
	hasStatus     bool
	history       []protocol.Turn
	started       bool
	finished      bool
}

// New returns a game with no current player and every slot computer controlled.
func New() *Game {
	g := &Game{currentPlayer: protocol.NoPlayer}
	g.status.Width = protocol.DefaultWidth
	g.status.Height = protocol.DefaultHeight
	g.status.Mode = protocol.GameMode4Colors4Players
	for i := range g.status.ClientForPlayer {
		g.status.ClientForPlayer[i] = protocol.NoPlayer
	}
	return g
}

func validPlayer(p int) bool {
	return p >= 0 && p < protocol.PlayerCount
}

// CurrentPlayer returns the player to move, or protocol.NoPlayer.
func (g *Game) CurrentPlayer() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentPlayer
}

// SetCurrentPlayer sets the player to move. Out of range values mean nobody.
func (g *Game) SetCurrentPlayer(p int) {
	if !validPlayer(p) {
		p = protocol.NoPlayer
	}
	g.mu.Lock()
	g.currentPlayer = p
	g.mu.Unlock()
}

// ClaimTurn clears the current player and returns the previous one. It returns
// protocol.NoPlayer, changing nothing, when nobody was to move.
func (g *Game) ClaimTurn() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.currentPlayer
	g.currentPlayer = protocol.NoPlayer
	return p
}

// PlayerType returns who controls slot p. Out of range slots report PlayerComputer.
func (g *Game) PlayerType(p int) PlayerType {
	if !validPlayer(p) {
		return PlayerComputer
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerTypes[p]
}

// SetPlayerType assigns slot p; out of range slots are ignored.
func (g *Game) SetPlayerType(p int, t PlayerType) {
	if !validPlayer(p) {
		return
	}
	g.mu.Lock()
	g.playerTypes[p] = t
	g.mu.Unlock()
}

// IsLocal reports whether slot p is controlled by this client.
func (g *Game) IsLocal(p int) bool {
	return g.PlayerType(p) == PlayerLocal
}

// IsLocalTurn reports whether the current player is controlled by this client.
func (g *Game) IsLocalTurn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return validPlayer(g.currentPlayer) && g.playerTypes[g.currentPlayer] == PlayerLocal
}

// LocalPlayers returns the slots controlled by this client in ascending order.
func (g *Game) LocalPlayers() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []int
	for p, t := range g.playerTypes {
		if t == PlayerLocal {
			out = append(out, p)
		}
	}
	return out
}

// ApplyStatus replaces the server snapshot in one step. Slots not controlled
// locally become remote when a client owns them and computer otherwise.
func (g *Game) ApplyStatus(s protocol.ServerStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.status = s
	g.hasStatus = true
	for p, client := range s.ClientForPlayer {
		if g.playerTypes[p] == PlayerLocal {
			continue
		}
		if client == protocol.NoPlayer {
			g.playerTypes[p] = PlayerComputer
		} else {
			g.playerTypes[p] = PlayerRemote
		}
	}
}

// Status returns the last server snapshot and whether one was received.
func (g *Game) Status() (protocol.ServerStatus, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status, g.hasStatus
}

// Mode returns the game mode of the last snapshot.
func (g *Game) Mode() protocol.GameMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status.Mode
}

// Start resets the move history for a new game.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.history = nil
	g.started = true
	g.finished = false
}

// Finish marks the game over; nobody is to move afterwards.
func (g *Game) Finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.finished = true
	g.currentPlayer = protocol.NoPlayer
}

// Started reports whether a game has been started.
func (g *Game) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}

// Finished reports whether the current game is over.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finished
}

// AddTurn records a placement confirmed by the server.
func (g *Game) AddTurn(t protocol.Turn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.history = append(g.history, t)
}

// UndoTurn drops the most recent placement and reports whether there was one.
func (g *Game) UndoTurn() (protocol.Turn, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.history) == 0 {
		return protocol.Turn{}, false
	}
	t := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	return t, true
}

// History returns a copy of the confirmed placements, oldest first.
func (g *Game) History() []protocol.Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]protocol.Turn(nil), g.history...)
}

// LocalTurn returns the current player when it is controlled by this client.
func (g *Game) LocalTurn() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.currentPlayer
	if validPlayer(p) && g.playerTypes[p] == PlayerLocal {
		return p, true
	}
	return protocol.NoPlayer, false
}
