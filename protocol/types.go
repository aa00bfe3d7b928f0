package protocol

import "fmt"

// Board and inventory dimensions fixed by the wire format.
const (
	PlayerCount   = 4
	MaxClients    = 8
	StoneCount    = 21
	NoPlayer      = -1
	DefaultPort   = 59995
	DefaultWidth  = 20
	DefaultHeight = 20
)

// GameMode selects the player/color layout of a game.
type GameMode uint8

const (
	GameMode2Colors2Players GameMode = iota
	GameMode4Colors2Players
	GameMode4Colors4Players
	GameModeDuo
	GameModeJunior
)

// Valid reports whether m is a mode the server understands.
func (m GameMode) Valid() bool {
	return m <= GameModeJunior
}

func (m GameMode) String() string {
	switch m {
	case GameMode2Colors2Players:
		return "2-colors-2-players"
	case GameMode4Colors2Players:
		return "4-colors-2-players"
	case GameMode4Colors4Players:
		return "4-colors-4-players"
	case GameModeDuo:
		return "duo"
	case GameModeJunior:
		return "junior"
	default:
		return fmt.Sprintf("GameMode(%d)", uint8(m))
	}
}

// ParseGameMode is the inverse of GameMode.String.
func ParseGameMode(s string) (GameMode, bool) {
	for m := GameMode2Colors2Players; m.Valid(); m++ {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

// Orientation describes how a stone is flipped and rotated before placement.
// Rotation counts clockwise quarter turns and is in [0, 3].
type Orientation struct {
	Mirrored bool
	Rotation int
}

// Valid reports whether the rotation is in range.
func (o Orientation) Valid() bool {
	return o.Rotation >= 0 && o.Rotation < 4
}

// Turn is a single stone placement on the board.
type Turn struct {
	Player      int
	Shape       int
	Orientation Orientation
	X, Y        int
}
