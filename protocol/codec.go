// Package protocol implements the binary message protocol spoken between a
// game client and the game server.
//
// Every message travels in a frame made of a 5 byte header followed by the
// variant's payload:
//
//	check1 | size (uint16, big-endian) | type | check2 | payload
//
// size counts the whole frame including the header. The two check bytes are
// derived from size and type and let the decoder reject garbage early.
package protocol

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// HeaderSize is the length of the frame header in bytes.
const HeaderSize = 5

// MaxFrameSize is the largest frame the 16 bit size field can describe.
const MaxFrameSize = math.MaxUint16

func checksums(size int, t Type) (byte, byte) {
	check1 := byte((size & 0x55) ^ int(t))
	check2 := (check1 ^ 0xD6) + byte(t)
	return check1, check2
}

// Encode serializes m into a single frame.
func Encode(m Message) ([]byte, error) {
	w := fieldWriter{buf: make([]byte, HeaderSize, 64)}
	m.marshal(&w)
	if w.err != nil {
		return nil, errors.Wrapf(w.err, "encode %s", m.Type())
	}

	size := len(w.buf)
	if size > MaxFrameSize {
		return nil, errors.Wrapf(ErrMessageTooLarge, "encode %s: %d bytes", m.Type(), size)
	}

	check1, check2 := checksums(size, m.Type())
	w.buf[0] = check1
	binary.BigEndian.PutUint16(w.buf[1:3], uint16(size))
	w.buf[3] = byte(m.Type())
	w.buf[4] = check2
	return w.buf, nil
}

// Decode blocks until one complete frame has been read from r and returns the
// decoded message.
//
// A stream that ends before or inside a frame yields ErrEndOfStream. Malformed
// frames yield a *Error. Any other read failure is returned wrapped.
func Decode(r io.Reader) (Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, readError(err)
	}

	size := int(binary.BigEndian.Uint16(header[1:3]))
	t := Type(header[3])
	check1, check2 := checksums(size, t)
	if header[0] != check1 || header[4] != check2 {
		return nil, protocolErrorf(0, "header checksum mismatch")
	}
	if size < HeaderSize {
		return nil, protocolErrorf(t, "frame size %d below header size", size)
	}

	decode, ok := decoders[t]
	if !ok {
		return nil, protocolErrorf(0, "unknown message type %d", uint8(t))
	}

	payload := make([]byte, size-HeaderSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, readError(err)
	}

	fr := fieldReader{t: t, buf: payload}
	m := decode(&fr)
	if err := fr.finish(); err != nil {
		return nil, err
	}
	return m, nil
}

func readError(err error) error {
	// Stream adapters such as websocket.NetConn wrap the EOF they return.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrEndOfStream
	}
	return errors.Wrap(err, "read frame")
}

// Codec adapts Encode and Decode to the transport's codec interface.
type Codec struct{}

func (Codec) Decode(r io.Reader) (Message, error) { return Decode(r) }

func (Codec) Encode(m Message) ([]byte, error) { return Encode(m) }
