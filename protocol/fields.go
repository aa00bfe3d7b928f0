package protocol

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// fieldWriter appends big-endian fields to a frame payload.
// The first failure sticks; later puts are ignored.
type fieldWriter struct {
	buf []byte
	err error
}

func (w *fieldWriter) fail(format string, args ...any) {
	if w.err == nil {
		w.err = errors.Wrapf(ErrFieldRange, format, args...)
	}
}

func (w *fieldWriter) putInt8(name string, v int) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		w.fail("%s=%d", name, v)
		return
	}
	w.buf = append(w.buf, byte(int8(v)))
}

func (w *fieldWriter) putUint8(name string, v int) {
	if v < 0 || v > math.MaxUint8 {
		w.fail("%s=%d", name, v)
		return
	}
	w.buf = append(w.buf, byte(v))
}

func (w *fieldWriter) putBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

func (w *fieldWriter) putText(name, s string) {
	if len(s) > math.MaxUint16 {
		w.fail("%s length=%d", name, len(s))
		return
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *fieldWriter) putMode(m GameMode) {
	if !m.Valid() {
		w.fail("mode=%d", m)
		return
	}
	w.buf = append(w.buf, byte(m))
}

func (w *fieldWriter) putTurn(t Turn) {
	if !t.Orientation.Valid() {
		w.fail("rotation=%d", t.Orientation.Rotation)
		return
	}
	w.putInt8("player", t.Player)
	w.putUint8("shape", t.Shape)
	w.putBool(t.Orientation.Mirrored)
	w.putUint8("rotation", t.Orientation.Rotation)
	w.putUint8("x", t.X)
	w.putUint8("y", t.Y)
}

// fieldReader consumes fields from a frame payload. Running past the end of the
// payload, or finding an invalid enum value, records a protocol error.
type fieldReader struct {
	t   Type
	buf []byte
	off int
	err error
}

func (r *fieldReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = protocolErrorf(r.t, format, args...)
	}
}

func (r *fieldReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.off < n {
		r.fail("payload truncated at offset %d", r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *fieldReader) int8() int {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return int(int8(b[0]))
}

func (r *fieldReader) uint8() int {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return int(b[0])
}

func (r *fieldReader) bool() bool {
	switch r.uint8() {
	case 0:
		return false
	case 1:
		return true
	default:
		r.fail("invalid bool at offset %d", r.off-1)
		return false
	}
}

func (r *fieldReader) text() string {
	b := r.next(2)
	if b == nil {
		return ""
	}
	return string(r.next(int(binary.BigEndian.Uint16(b))))
}

func (r *fieldReader) mode() GameMode {
	m := GameMode(r.uint8())
	if r.err == nil && !m.Valid() {
		r.fail("unknown game mode %d", m)
	}
	return m
}

func (r *fieldReader) turn() Turn {
	var t Turn
	t.Player = r.int8()
	t.Shape = r.uint8()
	t.Orientation.Mirrored = r.bool()
	t.Orientation.Rotation = r.uint8()
	if r.err == nil && !t.Orientation.Valid() {
		r.fail("invalid rotation %d", t.Orientation.Rotation)
	}
	t.X = r.uint8()
	t.Y = r.uint8()
	return t
}

// finish checks that the whole payload was consumed.
func (r *fieldReader) finish() error {
	if r.err == nil && r.off != len(r.buf) {
		r.fail("%d trailing bytes", len(r.buf)-r.off)
	}
	return r.err
}
