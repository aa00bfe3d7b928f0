package client

import (
	"golang.org/x/time/rate"

	"github.com/Zereker/bloks/protocol"
	"github.com/Zereker/bloks/transport"
)

type options struct {
	logger   transport.Logger
	executor Executor
	codec    transport.Codec
	// chat is nil when chat is not rate limited.
	chat *rate.Limiter
}

// Option configures a Session.
type Option func(*options)

func checkOptions(opts *options) {
	if opts.logger == nil {
		opts.logger = transport.DefaultLogger()
	}
	if opts.codec == nil {
		opts.codec = protocol.Codec{}
	}
}

// LoggerOption sets the logger. If not set, slog.Default() is used.
func LoggerOption(logger transport.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// ExecutorOption sets where observers are notified, typically a Loop run by
// the UI goroutine. Without it the session runs its own Loop in the background.
func ExecutorOption(e Executor) Option {
	return func(o *options) {
		o.executor = e
	}
}

// CodecOption replaces the protocol codec, e.g. to trace frames.
func CodecOption(codec transport.Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// ChatLimitOption limits outgoing chat to r lines per second with the given
// burst. Lines over the limit are dropped.
func ChatLimitOption(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.chat = rate.NewLimiter(r, burst)
	}
}
