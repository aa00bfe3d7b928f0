package client

import (
	"github.com/Zereker/bloks/game"
	"github.com/Zereker/bloks/protocol"
)

// dispatch applies one server message. It runs on the reader goroutine, so it
// only touches game state and queues notifications; it never waits on observers.
func (s *Session) dispatch(m protocol.Message) error {
	switch m := m.(type) {
	case protocol.ServerStatus:
		s.game.ApplyStatus(m)
		s.notify(func(o Observer) { o.OnStatus(m) })

	case protocol.GrantPlayer:
		s.game.SetPlayerType(m.Player, game.PlayerLocal)

	case protocol.RevokePlayer:
		s.game.SetPlayerType(m.Player, game.PlayerComputer)

	case protocol.CurrentPlayer:
		s.game.SetCurrentPlayer(m.Player)
		local := s.game.IsLocalTurn()
		s.notify(func(o Observer) {
			if to, ok := o.(TurnObserver); ok {
				to.OnPlayerToMove(m.Player, local)
			}
		})

	case protocol.SetStone:
		s.game.AddTurn(m.Turn)
		s.notifyStone(func(so StoneObserver) { so.OnStoneSet(m.Turn) })

	case protocol.UndoStone:
		s.game.UndoTurn()
		s.notifyStone(func(so StoneObserver) { so.OnStoneUndone(m.Turn) })

	case protocol.StoneHint:
		s.notifyStone(func(so StoneObserver) { so.OnHint(m.Turn) })

	case protocol.StartGame:
		s.game.Start()
		s.notifyGame(func(g GameObserver) { g.OnGameStarted() })

	case protocol.GameFinish:
		s.game.Finish()
		s.notifyGame(func(g GameObserver) { g.OnGameFinished() })

	case protocol.Chat:
		s.notify(func(o Observer) {
			if co, ok := o.(ChatObserver); ok {
				co.OnChat(m.Client, m.Text)
			}
		})

	default:
		return &protocol.Error{Type: m.Type(), Reason: "not sent by servers"}
	}
	return nil
}

func (s *Session) notifyStone(fn func(StoneObserver)) {
	s.notify(func(o Observer) {
		if so, ok := o.(StoneObserver); ok {
			fn(so)
		}
	})
}

func (s *Session) notifyGame(fn func(GameObserver)) {
	s.notify(func(o Observer) {
		if g, ok := o.(GameObserver); ok {
			fn(g)
		}
	})
}
