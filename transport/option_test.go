package transport

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Zereker/bloks/protocol"
)

type mockCodec struct {
	decodeFunc func(io.Reader) (protocol.Message, error)
	encodeFunc func(protocol.Message) ([]byte, error)
}

func (m *mockCodec) Decode(r io.Reader) (protocol.Message, error) {
	if m.decodeFunc != nil {
		return m.decodeFunc(r)
	}
	return protocol.Decode(r)
}

func (m *mockCodec) Encode(msg protocol.Message) ([]byte, error) {
	if m.encodeFunc != nil {
		return m.encodeFunc(msg)
	}
	return protocol.Encode(msg)
}

type mockLogger struct {
	mu    sync.Mutex
	lines []string
}

func (m *mockLogger) log(level, msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, fmt.Sprintf("%s %s %v", level, msg, args))
}

func (m *mockLogger) Debug(msg string, args ...any) { m.log("DEBUG", msg, args...) }
func (m *mockLogger) Info(msg string, args ...any)  { m.log("INFO", msg, args...) }
func (m *mockLogger) Warn(msg string, args ...any)  { m.log("WARN", msg, args...) }
func (m *mockLogger) Error(msg string, args ...any) { m.log("ERROR", msg, args...) }

func (m *mockLogger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

func TestCustomCodecOption(t *testing.T) {
	codec := &mockCodec{}
	opt := CustomCodecOption(codec)

	var opts options
	opt(&opts)

	if opts.codec != codec {
		t.Error("codec not set correctly")
	}
}

func TestLoggerOption(t *testing.T) {
	logger := &mockLogger{}
	opt := LoggerOption(logger)

	var opts options
	opt(&opts)

	if opts.logger != logger {
		t.Error("logger not set correctly")
	}
}

func TestNameOption(t *testing.T) {
	var opts options
	NameOption("conn-1")(&opts)

	if opts.name != "conn-1" {
		t.Errorf("name = %q, want conn-1", opts.name)
	}
}

func TestOnTerminateOption(t *testing.T) {
	called := false
	var opts options
	OnTerminateOption(func(error) { called = true })(&opts)

	if opts.onTerminate == nil {
		t.Fatal("onTerminate is nil")
	}
	opts.onTerminate(nil)
	if !called {
		t.Error("onTerminate callback not called")
	}
}

func TestNewOptions_Defaults(t *testing.T) {
	opts := newOptions(nil)

	if _, ok := opts.codec.(protocol.Codec); !ok {
		t.Errorf("default codec = %T, want protocol.Codec", opts.codec)
	}
	if opts.logger != slog.Default() {
		t.Error("default logger is not slog.Default()")
	}
	if opts.name != "stream" {
		t.Errorf("default name = %q, want stream", opts.name)
	}
	if opts.onTerminate != nil {
		t.Error("onTerminate set without option")
	}
}

func TestNewOptions_MultipleOptions(t *testing.T) {
	codec := &mockCodec{}
	logger := &mockLogger{}

	opts := newOptions([]Option{
		CustomCodecOption(codec),
		LoggerOption(logger),
		NameOption("peer"),
		OnTerminateOption(func(error) {}),
	})

	if opts.codec != codec {
		t.Error("codec not set")
	}
	if opts.logger != logger {
		t.Error("logger not set")
	}
	if opts.name != "peer" {
		t.Errorf("name = %q, want peer", opts.name)
	}
	if opts.onTerminate == nil {
		t.Error("onTerminate not set")
	}
}

func TestLogger_Interface(t *testing.T) {
	var _ Logger = slog.Default()
}

func TestDefaultLogger(t *testing.T) {
	logger := DefaultLogger()

	if logger == nil {
		t.Fatal("DefaultLogger returned nil")
	}
	if logger != slog.Default() {
		t.Error("DefaultLogger did not return slog.Default()")
	}
}
