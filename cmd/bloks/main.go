// Command bloks is a line oriented client for a bloks game server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Zereker/bloks/client"
	"github.com/Zereker/bloks/game"
	"github.com/Zereker/bloks/internal/config"
	"github.com/Zereker/bloks/internal/logging"
	"github.com/Zereker/bloks/protocol"
	"github.com/Zereker/bloks/transport"
)

func main() {
	fs := pflag.NewFlagSet("bloks", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(config.ConfigPath(fs), fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("client stopped", "error", err.Error())
		os.Exit(1)
	}
}

// run connects, then serves the command line until the user quits, the
// server goes away or ctx is canceled.
func run(ctx context.Context, cfg *config.Config, logger transport.Logger, in io.Reader, out io.Writer) error {
	loop := client.NewLoop()
	opts := []client.Option{
		client.LoggerOption(logger),
		client.ExecutorOption(loop),
	}
	if cfg.Chat.Rate > 0 {
		opts = append(opts, client.ChatLimitOption(rate.Limit(cfg.Chat.Rate), cfg.Chat.Burst))
	}

	session := client.New(game.New(), opts...)
	defer session.Close()
	session.AddObserver(&printer{out: out, loop: loop})

	if err := session.Dial(ctx, cfg.Server.Network, cfg.Server.Address, cfg.Server.DialTimeout); err != nil {
		return err
	}
	session.RequestPlayer(cfg.Player.Seat, cfg.Player.Name)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go scan(in, lines)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					session.Disconnect()
					return nil
				}
				err := execute(line, session, cfg.Player.Name, out)
				if errors.Is(err, errQuit) {
					return nil
				}
				if err != nil {
					fmt.Fprintln(out, err)
				}
			}
		}
	})

	return group.Wait()
}

// scan feeds input lines to lines and closes it at end of input. It is not
// part of the errgroup: a blocked read on stdin cannot be interrupted.
func scan(in io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}

// printer shows server events and ends the event loop once the connection is gone.
type printer struct {
	out  io.Writer
	loop *client.Loop
}

func (p *printer) OnConnected(*client.Session) {
	fmt.Fprintln(p.out, "connected, type help for commands")
}

func (p *printer) OnDisconnected(_ *client.Session, err error) {
	if err != nil {
		fmt.Fprintf(p.out, "connection lost: %v\n", err)
	} else {
		fmt.Fprintln(p.out, "disconnected")
	}
	p.loop.Close()
}

func (p *printer) OnStatus(s protocol.ServerStatus) {
	fmt.Fprintf(p.out, "server: %s on %dx%d, %d clients\n", s.Mode, s.Width, s.Height, s.Clients)
}

func (p *printer) OnPlayerToMove(player int, local bool) {
	switch {
	case player == protocol.NoPlayer:
		fmt.Fprintln(p.out, "nobody to move")
	case local:
		fmt.Fprintf(p.out, "your move, player %d\n", player)
	default:
		fmt.Fprintf(p.out, "player %d to move\n", player)
	}
}

func (p *printer) OnStoneSet(t protocol.Turn) {
	fmt.Fprintf(p.out, "player %d placed shape %d at %d,%d\n", t.Player, t.Shape, t.X, t.Y)
}

func (p *printer) OnStoneUndone(t protocol.Turn) {
	fmt.Fprintf(p.out, "undo: player %d shape %d\n", t.Player, t.Shape)
}

func (p *printer) OnHint(t protocol.Turn) {
	fmt.Fprintf(p.out, "hint: shape %d rotation %d mirrored %t at %d,%d\n",
		t.Shape, t.Orientation.Rotation, t.Orientation.Mirrored, t.X, t.Y)
}

func (p *printer) OnGameStarted()  { fmt.Fprintln(p.out, "game started") }
func (p *printer) OnGameFinished() { fmt.Fprintln(p.out, "game over") }

func (p *printer) OnChat(from int, text string) {
	fmt.Fprintf(p.out, "[%d] %s\n", from, text)
}
