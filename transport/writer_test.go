package transport

import (
	"bufio"
	"bytes"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/Zereker/bloks/protocol"
)

// failingWriter fails every write after the first n bytes.
type failingWriter struct {
	n   int
	err error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		written := w.n
		w.n = 0
		return written, w.err
	}
	w.n -= len(p)
	return len(p), nil
}

func decodeAll(t *testing.T, data []byte) []protocol.Message {
	t.Helper()
	var messages []protocol.Message
	r := bytes.NewReader(data)
	for {
		m, err := protocol.Decode(r)
		if errors.Is(err, protocol.ErrEndOfStream) {
			return messages
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		messages = append(messages, m)
	}
}

func TestWriter_WritesInOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	want := []protocol.Message{
		protocol.RequestPlayer{Player: protocol.NoPlayer, Name: "alice"},
		protocol.Chat{Text: "hello"},
		protocol.StartGame{},
	}
	if err := w.Write(want[0], want[1]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write(want[2]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got := decodeAll(t, buf.Bytes())
	if len(got) != len(want) {
		t.Fatalf("decoded %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestWriter_FlushesBufferedStream(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriterSize(&buf, 4096)
	w := NewWriter(bw)

	if err := w.Write(protocol.RequestUndo{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if bw.Buffered() != 0 {
		t.Errorf("%d bytes left in buffer", bw.Buffered())
	}
	if buf.Len() != protocol.HeaderSize {
		t.Errorf("wrote %d bytes, want %d", buf.Len(), protocol.HeaderSize)
	}
}

func TestWriter_EncodeErrorWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	err := w.Write(protocol.StartGame{}, protocol.GrantPlayer{Player: 1000})
	if !errors.Is(err, protocol.ErrFieldRange) {
		t.Errorf("Write error = %v, want field range error", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes after encode failure", buf.Len())
	}
	if w.Broken() != nil {
		t.Errorf("encode failure broke the writer: %v", w.Broken())
	}

	if err := w.Write(protocol.StartGame{}); err != nil {
		t.Errorf("Write after encode failure: %v", err)
	}
}

func TestWriter_StreamFailureBreaksWriter(t *testing.T) {
	streamErr := errors.New("broken pipe")
	logger := &mockLogger{}
	w := NewWriter(&failingWriter{n: 3, err: streamErr}, LoggerOption(logger))

	err := w.Write(protocol.StartGame{})
	if !errors.Is(err, streamErr) {
		t.Errorf("Write error = %v, want stream error", err)
	}
	if w.Broken() != streamErr {
		t.Errorf("Broken() = %v, want stream error", w.Broken())
	}
	if logger.count() == 0 {
		t.Error("write failure not logged")
	}

	if err := w.Write(protocol.StartGame{}); err != ErrWriterBroken {
		t.Errorf("second Write error = %v, want ErrWriterBroken", err)
	}
}

func TestWriter_CustomCodec(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, CustomCodecOption(&mockCodec{
		encodeFunc: func(protocol.Message) ([]byte, error) { return []byte("x"), nil },
	}))

	if err := w.Write(protocol.StartGame{}, protocol.GameFinish{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.String() != "xx" {
		t.Errorf("wrote %q, want %q", buf.String(), "xx")
	}
}

func TestWriter_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(client int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if err := w.Write(protocol.Chat{Client: client, Text: "concurrent"}); err != nil {
					t.Errorf("Write failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	got := decodeAll(t, buf.Bytes())
	if len(got) != writers*perWriter {
		t.Fatalf("decoded %d messages, want %d", len(got), writers*perWriter)
	}
	counts := make(map[int]int)
	for _, m := range got {
		counts[m.(protocol.Chat).Client]++
	}
	for i := 0; i < writers; i++ {
		if counts[i] != perWriter {
			t.Errorf("client %d: %d messages, want %d", i, counts[i], perWriter)
		}
	}
}
