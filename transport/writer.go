package transport

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/Zereker/bloks/protocol"
)

// ErrWriterBroken is returned by Write once an earlier write to the stream failed.
var ErrWriterBroken = errors.New("writer broken by earlier failure")

// flusher is implemented by buffered streams such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Writer encodes messages onto a stream. It is safe for concurrent use; each
// call's frames reach the stream contiguously and in argument order.
type Writer struct {
	w      io.Writer
	logger Logger
	opts   options

	mu     sync.Mutex
	broken error
}

// NewWriter creates a writer for w.
func NewWriter(w io.Writer, opt ...Option) *Writer {
	opts := newOptions(opt)
	return &Writer{
		w:      w,
		logger: opts.logger,
		opts:   opts,
	}
}

// Write encodes all messages and writes them with a single call to the
// underlying stream, flushing afterwards when the stream is buffered.
//
// An encoding failure writes nothing. A stream failure leaves the stream in an
// unknown state; the writer remembers it and refuses later writes.
func (w *Writer) Write(messages ...protocol.Message) error {
	var buf []byte
	for _, m := range messages {
		data, err := w.opts.codec.Encode(m)
		if err != nil {
			return err
		}
		buf = append(buf, data...)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.broken != nil {
		return ErrWriterBroken
	}

	if _, err := w.w.Write(buf); err != nil {
		return w.fail(err)
	}
	if f, ok := w.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return w.fail(err)
		}
	}
	return nil
}

// Broken returns the stream error that broke the writer, if any.
func (w *Writer) Broken() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.broken
}

func (w *Writer) fail(err error) error {
	w.broken = err
	w.logger.Debug("write error", "name", w.opts.name, "error", err.Error())
	return errors.Wrap(err, "write frame")
}
