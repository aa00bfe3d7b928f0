// Package transport moves protocol messages over a byte stream: a Reader that
// decodes and dispatches frames on its own goroutine, a Writer safe for use
// from any goroutine, and dialers that produce the stream.
package transport

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidHandler is returned when no message handler is provided.
var ErrInvalidHandler = errors.New("invalid message handler")

// State is the lifecycle state of a Reader.
type State int32

const (
	// Idle readers have not been started.
	Idle State = iota
	Running
	// StoppedClean readers exited because Stop was called.
	StoppedClean
	// StoppedError readers exited because decoding or the handler failed; see Err.
	StoppedError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case StoppedClean:
		return "stopped"
	case StoppedError:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminated reports whether s is one of the stopped states.
func (s State) Terminated() bool {
	return s == StoppedClean || s == StoppedError
}

// Reader decodes messages from a stream on a dedicated goroutine and hands each
// one to a Handler. The handler runs on the reader goroutine, so a slow handler
// delays the next read.
//
// A blocking read cannot be interrupted by a flag alone; Stop closes the stream
// when it is an io.Closer, which makes the pending read fail.
type Reader struct {
	r       io.Reader
	handler Handler
	logger  Logger
	opts    options

	started  atomic.Bool
	stopping atomic.Bool
	state    atomic.Int32

	mu   sync.Mutex
	err  error
	done chan struct{}
}

// NewReader creates a reader for r. It does not start reading; call Start.
func NewReader(r io.Reader, handler Handler, opt ...Option) (*Reader, error) {
	if handler == nil {
		return nil, ErrInvalidHandler
	}

	opts := newOptions(opt)
	return &Reader{
		r:       r,
		handler: handler,
		logger:  opts.logger,
		opts:    opts,
		done:    make(chan struct{}),
	}, nil
}

// Start launches the read loop and returns immediately. Later calls do nothing.
func (r *Reader) Start() {
	if r.started.Swap(true) {
		return
	}
	r.state.Store(int32(Running))
	go r.readLoop()
}

// Stop asks the read loop to exit and closes the stream if it can be closed.
// It never waits for the loop, so it is safe to call from the handler itself.
// The loop then ends in StoppedClean, whatever error the closed stream produced.
func (r *Reader) Stop() error {
	if r.stopping.Swap(true) {
		return nil
	}
	r.logger.Debug("stopping reader", "name", r.opts.name)
	if c, ok := r.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Join waits up to timeout for the read loop to exit and reports whether it did.
// A reader that was never started never exits.
func (r *Reader) Join(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.done:
		return true
	case <-timer.C:
		return false
	}
}

// Done is closed once the read loop has exited and the termination callback returned.
func (r *Reader) Done() <-chan struct{} {
	return r.done
}

// Err returns the error that terminated the loop, or nil for a clean stop or a running reader.
func (r *Reader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// State returns the current lifecycle state.
func (r *Reader) State() State {
	return State(r.state.Load())
}

// readLoop decodes one message at a time until the stream fails or Stop is called.
func (r *Reader) readLoop() {
	defer close(r.done)

	for {
		message, err := r.opts.codec.Decode(r.r)
		if err != nil {
			r.terminate(err)
			return
		}

		// Nothing decoded after Stop may reach the handler.
		if r.stopping.Load() {
			r.terminate(nil)
			return
		}

		if err = r.handler.HandleMessage(message); err != nil {
			r.terminate(errors.Wrapf(err, "handle %s", message.Type()))
			return
		}
	}
}

func (r *Reader) terminate(err error) {
	if r.stopping.Load() {
		err = nil
	}

	r.mu.Lock()
	r.err = err
	r.mu.Unlock()

	if err != nil {
		r.state.Store(int32(StoppedError))
		r.logger.Debug("reader stopped with error", "name", r.opts.name, "error", err.Error())
	} else {
		r.state.Store(int32(StoppedClean))
		r.logger.Debug("reader stopped", "name", r.opts.name)
	}

	if r.opts.onTerminate != nil {
		r.opts.onTerminate(err)
	}
}
