package client

import (
	"github.com/Zereker/bloks/protocol"
)

// Every request sends exactly one message or nothing. A request whose
// preconditions do not hold against the local game state is dropped silently,
// so the client never races the server with moves it already knows are invalid.

// RequestPlayer asks for player slot player under name; protocol.NoPlayer asks for any free slot.
func (s *Session) RequestPlayer(player int, name string) {
	s.send(protocol.RequestPlayer{Player: player, Name: name})
}

// RevokePlayer gives up a slot this client controls.
func (s *Session) RevokePlayer(player int) {
	if !s.game.IsLocal(player) {
		s.logger.Debug("revoke declined, player not local", "player", player)
		return
	}
	s.send(protocol.RevokePlayer{Player: player})
}

// RequestGameMode asks the server to set up a new board.
func (s *Session) RequestGameMode(width, height int, mode protocol.GameMode, stones [protocol.StoneCount]int) {
	s.send(protocol.RequestGameMode{Width: width, Height: height, Mode: mode, Stones: stones})
}

// RequestGameStart asks the server to start the game.
func (s *Session) RequestGameStart() {
	s.send(protocol.StartGame{})
}

// RequestHint asks for a suggested move for the current player, if this client controls it.
func (s *Session) RequestHint() {
	if !s.IsConnected() {
		return
	}
	player, ok := s.game.LocalTurn()
	if !ok {
		s.logger.Debug("hint declined, not our turn")
		return
	}
	s.send(protocol.RequestHint{Player: player})
}

// RequestUndo asks the server to take back the last move, if this client is to move.
func (s *Session) RequestUndo() {
	if !s.IsConnected() {
		return
	}
	if _, ok := s.game.LocalTurn(); !ok {
		s.logger.Debug("undo declined, not our turn")
		return
	}
	s.send(protocol.RequestUndo{})
}

// SendChat sends a chat line. The server fills in the sending client.
func (s *Session) SendChat(text string) {
	if !s.IsConnected() {
		return
	}
	if s.opts.chat != nil && !s.opts.chat.Allow() {
		s.logger.Debug("chat declined, rate limited")
		return
	}
	s.send(protocol.Chat{Client: 0, Text: text})
}

// SetStone submits a placement. The stone is not placed locally; instead the
// current player is cleared until the server announces the next one. It
// returns false without sending when nobody is to move.
func (s *Session) SetStone(turn protocol.Turn) bool {
	if !s.IsConnected() {
		return false
	}
	if s.game.ClaimTurn() == protocol.NoPlayer {
		s.logger.Debug("stone declined, no current player")
		return false
	}
	s.send(protocol.SetStone{Turn: turn})
	return true
}
