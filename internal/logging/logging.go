// Package logging adapts zerolog to transport.Logger.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Zereker/bloks/transport"
)

// Logger writes key/value pairs as zerolog fields.
type Logger struct {
	zl zerolog.Logger
}

var _ transport.Logger = (*Logger)(nil)

// New creates a logger writing to out. format is "console" or "json"; level is
// any level zerolog.ParseLevel accepts.
func New(out io.Writer, level, format string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	switch format {
	case "json":
	case "console", "":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}

	return &Logger{zl: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}, nil
}

// Wrap uses an existing zerolog logger.
func Wrap(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

// With returns a logger that adds args to every line.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{zl: l.zl.With().Fields(normalize(args)).Logger()}
}

func (l *Logger) Debug(msg string, args ...any) { l.write(l.zl.Debug(), msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(l.zl.Info(), msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(l.zl.Warn(), msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(l.zl.Error(), msg, args) }

func (l *Logger) write(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	e.Fields(normalize(args)).Msg(msg)
}

// normalize turns slog style arguments into a zerolog field map. A key
// without a value is logged under "!BADKEY", as slog does.
func normalize(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			i--
			continue
		}
		fields[key] = fieldValue(args[i+1])
	}
	return fields
}

func fieldValue(v any) any {
	switch v := v.(type) {
	case error:
		return v.Error()
	case interface{ String() string }:
		return v.String()
	default:
		return v
	}
}
