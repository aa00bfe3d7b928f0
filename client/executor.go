package client

import (
	"context"
	"sync"
)

// Executor runs observer notifications. Execute must neither block nor run f
// before returning: the session calls it from the reader goroutine and while
// holding its own lock.
type Executor interface {
	Execute(f func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(f func())

func (e ExecutorFunc) Execute(f func()) {
	e(f)
}

// Loop is a serial executor with an unbounded queue. Whoever calls Run owns
// the goroutine notifications run on, which makes it suitable for handing
// events to a UI thread.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
}

// NewLoop returns an open Loop with an empty queue.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Execute queues f. Functions queued after Close are dropped.
func (l *Loop) Execute(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes queued functions in order on the calling goroutine. It returns
// nil once Close was called and the queue is drained, or ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		closed := l.closed
		l.mu.Unlock()

		for _, f := range batch {
			f()
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return nil
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close makes Run return after draining what is already queued.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}
