package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Zereker/bloks/game"
	"github.com/Zereker/bloks/protocol"
)

// requester is the part of *client.Session the command line drives.
type requester interface {
	Game() *game.Game
	RequestPlayer(player int, name string)
	RevokePlayer(player int)
	RequestGameMode(width, height int, mode protocol.GameMode, stones [protocol.StoneCount]int)
	RequestGameStart()
	RequestHint()
	RequestUndo()
	SendChat(text string)
	SetStone(turn protocol.Turn) bool
	Disconnect()
}

var errQuit = errors.New("quit")

const usage = `commands:
  say <text>                    chat; lines not starting with a command are chat too
  player [seat]                 request a seat, any free one when omitted
  revoke <seat>                 give up a seat
  mode <mode> [width height]    request a new game; modes: %s
  start                         start the game
  set <shape> <rot> <m> <x> <y> place a stone for the current player, m is 0 or 1
  hint                          ask for a suggested move
  undo                          take back the last move
  status                        show the local game state
  quit                          disconnect and exit
`

func modeNames() string {
	var names []string
	for m := protocol.GameMode2Colors2Players; m.Valid(); m++ {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}

// execute runs one input line. It returns errQuit after a quit command, and
// an error describing bad input otherwise.
func execute(line string, r requester, name string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]

	switch fields[0] {
	case "help", "?":
		fmt.Fprintf(out, usage, modeNames())

	case "say":
		r.SendChat(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "say")))

	case "player":
		seat := protocol.NoPlayer
		if len(args) > 0 {
			var err error
			if seat, err = parseArg(args[:1], 0, protocol.PlayerCount-1); err != nil {
				return err
			}
		}
		r.RequestPlayer(seat, name)

	case "revoke":
		if len(args) != 1 {
			return errors.New("usage: revoke <seat>")
		}
		seat, err := parseArg(args, 0, protocol.PlayerCount-1)
		if err != nil {
			return err
		}
		r.RevokePlayer(seat)

	case "mode":
		return requestMode(r, args)

	case "start":
		r.RequestGameStart()

	case "set":
		return setStone(r, args)

	case "hint":
		r.RequestHint()

	case "undo":
		r.RequestUndo()

	case "status":
		printStatus(r.Game(), out)

	case "quit", "exit":
		r.Disconnect()
		return errQuit

	default:
		r.SendChat(strings.TrimSpace(line))
	}
	return nil
}

// parseArg parses a single integer argument within [lo, hi].
func parseArg(args []string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Errorf("not a number: %q", args[0])
	}
	if v < lo || v > hi {
		return 0, errors.Errorf("%d not in [%d, %d]", v, lo, hi)
	}
	return v, nil
}

func requestMode(r requester, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return errors.New("usage: mode <mode> [width height]")
	}
	mode, ok := protocol.ParseGameMode(args[0])
	if !ok {
		return errors.Errorf("unknown mode %q", args[0])
	}

	width, height := protocol.DefaultWidth, protocol.DefaultHeight
	if mode == protocol.GameModeDuo || mode == protocol.GameModeJunior {
		width, height = 14, 14
	}
	if len(args) == 3 {
		var err error
		if width, err = parseArg(args[1:2], 1, 255); err != nil {
			return err
		}
		if height, err = parseArg(args[2:3], 1, 255); err != nil {
			return err
		}
	}

	var stones [protocol.StoneCount]int
	for i := range stones {
		stones[i] = 1
	}
	r.RequestGameMode(width, height, mode, stones)
	return nil
}

func setStone(r requester, args []string) error {
	if len(args) != 5 {
		return errors.New("usage: set <shape> <rot> <m> <x> <y>")
	}
	var v [5]int
	limits := [5][2]int{{0, protocol.StoneCount - 1}, {0, 3}, {0, 1}, {0, 255}, {0, 255}}
	for i := range v {
		n, err := parseArg(args[i:i+1], limits[i][0], limits[i][1])
		if err != nil {
			return err
		}
		v[i] = n
	}

	turn := protocol.Turn{
		Player:      r.Game().CurrentPlayer(),
		Shape:       v[0],
		Orientation: protocol.Orientation{Rotation: v[1], Mirrored: v[2] == 1},
		X:           v[3],
		Y:           v[4],
	}
	if !r.Game().IsLocalTurn() || !r.SetStone(turn) {
		return errors.New("not your turn")
	}
	return nil
}

func printStatus(g *game.Game, out io.Writer) {
	status, ok := g.Status()
	if !ok {
		fmt.Fprintln(out, "no status from server yet")
		return
	}
	fmt.Fprintf(out, "mode %s, board %dx%d, %d clients\n", status.Mode, status.Width, status.Height, status.Clients)
	for p := 0; p < protocol.PlayerCount; p++ {
		marker := ""
		if p == g.CurrentPlayer() {
			marker = " (to move)"
		}
		fmt.Fprintf(out, "  player %d: %s%s\n", p, g.PlayerType(p), marker)
	}
	fmt.Fprintf(out, "  %d stones placed", len(g.History()))
	switch {
	case g.Finished():
		fmt.Fprint(out, ", game over")
	case g.Started():
		fmt.Fprint(out, ", running")
	}
	fmt.Fprintln(out)
}
