package transport

import "log/slog"

// Logger is the structured logger used by readers, writers and sessions.
// *slog.Logger satisfies it; internal/logging provides a zerolog backed one.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultLogger returns slog.Default().
func DefaultLogger() Logger {
	return slog.Default()
}
