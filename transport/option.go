package transport

import "github.com/Zereker/bloks/protocol"

// options holds the configuration shared by readers and writers.
type options struct {
	codec  Codec
	logger Logger
	name   string

	// onTerminate is called once, on the reader goroutine, when the read loop exits.
	// err is nil for a stop requested through Reader.Stop.
	onTerminate func(err error)
}

// Option configures a Reader or a Writer.
type Option func(*options)

func newOptions(opt []Option) options {
	var opts options
	for _, o := range opt {
		o(&opts)
	}
	if opts.codec == nil {
		opts.codec = protocol.Codec{}
	}
	if opts.logger == nil {
		opts.logger = DefaultLogger()
	}
	if opts.name == "" {
		opts.name = "stream"
	}
	return opts
}

// CustomCodecOption replaces the default protocol codec.
func CustomCodecOption(codec Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// LoggerOption sets the logger. If not set, slog.Default() is used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NameOption labels log lines, e.g. with a connection id.
func NameOption(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// OnTerminateOption sets the callback run when a reader's loop exits.
// It is ignored by writers.
func OnTerminateOption(cb func(err error)) Option {
	return func(o *options) {
		o.onTerminate = cb
	}
}
