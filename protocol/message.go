package protocol

import "fmt"

// Type is the frame discriminator identifying a message variant.
type Type uint8

const (
	TypeRequestPlayer Type = iota + 1
	TypeGrantPlayer
	TypeCurrentPlayer
	TypeSetStone
	TypeStartGame
	TypeGameFinish
	TypeServerStatus
	TypeChat
	TypeRequestUndo
	TypeUndoStone
	TypeRequestHint
	TypeStoneHint
	TypeRequestGameMode
	TypeRevokePlayer
)

var typeNames = map[Type]string{
	TypeRequestPlayer:   "RequestPlayer",
	TypeGrantPlayer:     "GrantPlayer",
	TypeCurrentPlayer:   "CurrentPlayer",
	TypeSetStone:        "SetStone",
	TypeStartGame:       "StartGame",
	TypeGameFinish:      "GameFinish",
	TypeServerStatus:    "ServerStatus",
	TypeChat:            "Chat",
	TypeRequestUndo:     "RequestUndo",
	TypeUndoStone:       "UndoStone",
	TypeRequestHint:     "RequestHint",
	TypeStoneHint:       "StoneHint",
	TypeRequestGameMode: "RequestGameMode",
	TypeRevokePlayer:    "RevokePlayer",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Message is a single protocol message. Every implementation is a comparable
// value type, so two messages are equal iff == reports true.
type Message interface {
	// Type returns the wire discriminator of the message.
	Type() Type
	marshal(w *fieldWriter)
}

// decoders maps each discriminator to the function reading its payload.
var decoders = map[Type]func(r *fieldReader) Message{
	TypeRequestPlayer: func(r *fieldReader) Message {
		return RequestPlayer{Player: r.int8(), Name: r.text()}
	},
	TypeGrantPlayer: func(r *fieldReader) Message {
		return GrantPlayer{Player: r.int8()}
	},
	TypeCurrentPlayer: func(r *fieldReader) Message {
		return CurrentPlayer{Player: r.int8()}
	},
	TypeSetStone: func(r *fieldReader) Message {
		return SetStone{Turn: r.turn()}
	},
	TypeStartGame: func(*fieldReader) Message {
		return StartGame{}
	},
	TypeGameFinish: func(*fieldReader) Message {
		return GameFinish{}
	},
	TypeServerStatus: func(r *fieldReader) Message {
		var s ServerStatus
		s.Player = r.uint8()
		s.Computer = r.uint8()
		s.Clients = r.uint8()
		s.Width = r.uint8()
		s.Height = r.uint8()
		s.Mode = r.mode()
		for i := range s.ClientForPlayer {
			s.ClientForPlayer[i] = r.int8()
		}
		for i := range s.ClientNames {
			s.ClientNames[i] = r.text()
		}
		for i := range s.Stones {
			s.Stones[i] = r.uint8()
		}
		return s
	},
	TypeChat: func(r *fieldReader) Message {
		return Chat{Client: r.int8(), Text: r.text()}
	},
	TypeRequestUndo: func(*fieldReader) Message {
		return RequestUndo{}
	},
	TypeUndoStone: func(r *fieldReader) Message {
		return UndoStone{Turn: r.turn()}
	},
	TypeRequestHint: func(r *fieldReader) Message {
		return RequestHint{Player: r.int8()}
	},
	TypeStoneHint: func(r *fieldReader) Message {
		return StoneHint{Turn: r.turn()}
	},
	TypeRequestGameMode: func(r *fieldReader) Message {
		var m RequestGameMode
		m.Width = r.uint8()
		m.Height = r.uint8()
		m.Mode = r.mode()
		for i := range m.Stones {
			m.Stones[i] = r.uint8()
		}
		return m
	},
	TypeRevokePlayer: func(r *fieldReader) Message {
		return RevokePlayer{Player: r.int8()}
	},
}

// RequestPlayer asks the server to hand a player slot to this client.
// Player NoPlayer lets the server pick any free slot.
type RequestPlayer struct {
	Player int
	Name   string
}

func (RequestPlayer) Type() Type { return TypeRequestPlayer }

func (m RequestPlayer) marshal(w *fieldWriter) {
	w.putInt8("player", m.Player)
	w.putText("name", m.Name)
}

// GrantPlayer tells the client it now controls Player.
type GrantPlayer struct {
	Player int
}

func (GrantPlayer) Type() Type { return TypeGrantPlayer }

func (m GrantPlayer) marshal(w *fieldWriter) { w.putInt8("player", m.Player) }

// CurrentPlayer announces whose turn it is; NoPlayer means nobody may move.
type CurrentPlayer struct {
	Player int
}

func (CurrentPlayer) Type() Type { return TypeCurrentPlayer }

func (m CurrentPlayer) marshal(w *fieldWriter) { w.putInt8("player", m.Player) }

// SetStone is a placement request from a client, or a confirmed placement from the server.
type SetStone struct {
	Turn Turn
}

func (SetStone) Type() Type { return TypeSetStone }

func (m SetStone) marshal(w *fieldWriter) { w.putTurn(m.Turn) }

// StartGame starts a new game. Clients send it to request the start; the
// server sends it when the game begins.
type StartGame struct{}

func (StartGame) Type() Type { return TypeStartGame }

func (StartGame) marshal(*fieldWriter) {}

// GameFinish tells the client that the game is over.
type GameFinish struct{}

func (GameFinish) Type() Type { return TypeGameFinish }

func (GameFinish) marshal(*fieldWriter) {}

// ServerStatus is a full snapshot of the server side game setup.
type ServerStatus struct {
	Player   int // human players connected
	Computer int // computer controlled players
	Clients  int // connected clients
	Width    int
	Height   int
	Mode     GameMode
	// ClientForPlayer maps each player slot to the controlling client, or NoPlayer.
	ClientForPlayer [PlayerCount]int
	ClientNames     [MaxClients]string
	Stones          [StoneCount]int
}

func (ServerStatus) Type() Type { return TypeServerStatus }

func (m ServerStatus) marshal(w *fieldWriter) {
	w.putUint8("player", m.Player)
	w.putUint8("computer", m.Computer)
	w.putUint8("clients", m.Clients)
	w.putUint8("width", m.Width)
	w.putUint8("height", m.Height)
	w.putMode(m.Mode)
	for _, c := range m.ClientForPlayer {
		w.putInt8("client_for_player", c)
	}
	for _, n := range m.ClientNames {
		w.putText("client_name", n)
	}
	for _, s := range m.Stones {
		w.putUint8("stones", s)
	}
}

// Chat carries a chat line. Clients send Client 0; the server fills in the sender.
type Chat struct {
	Client int
	Text   string
}

func (Chat) Type() Type { return TypeChat }

func (m Chat) marshal(w *fieldWriter) {
	w.putInt8("client", m.Client)
	w.putText("text", m.Text)
}

// RequestUndo asks the server to take back the last placement.
type RequestUndo struct{}

func (RequestUndo) Type() Type { return TypeRequestUndo }

func (RequestUndo) marshal(*fieldWriter) {}

// UndoStone tells the client that Turn was taken back.
type UndoStone struct {
	Turn Turn
}

func (UndoStone) Type() Type { return TypeUndoStone }

func (m UndoStone) marshal(w *fieldWriter) { w.putTurn(m.Turn) }

// RequestHint asks the server for a suggested move for Player.
type RequestHint struct {
	Player int
}

func (RequestHint) Type() Type { return TypeRequestHint }

func (m RequestHint) marshal(w *fieldWriter) { w.putInt8("player", m.Player) }

// StoneHint is the server's suggested move in reply to RequestHint.
type StoneHint struct {
	Turn Turn
}

func (StoneHint) Type() Type { return TypeStoneHint }

func (m StoneHint) marshal(w *fieldWriter) { w.putTurn(m.Turn) }

// RequestGameMode asks the server to change board size, mode and stone inventory.
type RequestGameMode struct {
	Width  int
	Height int
	Mode   GameMode
	Stones [StoneCount]int
}

func (RequestGameMode) Type() Type { return TypeRequestGameMode }

func (m RequestGameMode) marshal(w *fieldWriter) {
	w.putUint8("width", m.Width)
	w.putUint8("height", m.Height)
	w.putMode(m.Mode)
	for _, s := range m.Stones {
		w.putUint8("stones", s)
	}
}

// RevokePlayer gives up a player slot (client) or announces that one was taken away (server).
type RevokePlayer struct {
	Player int
}

func (RevokePlayer) Type() Type { return TypeRevokePlayer }

func (m RevokePlayer) marshal(w *fieldWriter) { w.putInt8("player", m.Player) }
