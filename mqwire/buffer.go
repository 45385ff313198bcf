// SPDX-License-Identifier: GPL-3.0-or-later

package mqwire

import (
	"encoding/binary"
	"fmt"
)

// All numeric fields are little-endian, matching MQENC_NATIVE on the
// platforms this client runs on. Both sides of the call surface share this
// codec, so the choice is part of the wire contract.
var byteOrder = binary.LittleEndian

// EncodeFixedString left-justifies the bytes of s into a field of the given
// width, padding the remainder with ASCII spaces. Values longer than the
// field are silently truncated; callers validate length where it matters
// (queue names, channel names).
func EncodeFixedString(s string, width int) []byte {
	out := make([]byte, width)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}

// DecodeFixedString trims trailing spaces and NUL bytes from a fixed-width
// field. All-space or all-NUL input decodes to the empty string.
func DecodeFixedString(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}
	return string(b[:end])
}

// Writer appends fixed-width fields to a byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with the given initial capacity hint.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Int32(v int32) {
	w.buf = byteOrder.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) FixedString(s string, width int) {
	w.buf = append(w.buf, EncodeFixedString(s, width)...)
}

func (w *Writer) Bytes24(b []byte) {
	field := make([]byte, MsgIDLength)
	copy(field, b)
	w.buf = append(w.buf, field...)
}

func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) Zeros(n int) {
	w.buf = append(w.buf, make([]byte, n)...)
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Buf returns the accumulated buffer.
func (w *Writer) Buf() []byte { return w.buf }

// Reader walks a byte buffer with bounds checking. Every read that would run
// past the end returns an error instead of panicking; malformed declared
// lengths are hard errors, never a silent stop.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Offset reports the current read position.
func (r *Reader) Offset() int { return r.off }

func (r *Reader) Int32() (int32, error) {
	if r.Remaining() < 4 {
		return 0, fmt.Errorf("mqwire: int32 read at offset %d exceeds buffer of %d bytes", r.off, len(r.buf))
	}
	v := int32(byteOrder.Uint32(r.buf[r.off:]))
	r.off += 4
	return v, nil
}

func (r *Reader) FixedString(width int) (string, error) {
	b, err := r.Bytes(width)
	if err != nil {
		return "", err
	}
	return DecodeFixedString(b), nil
}

func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("mqwire: %d byte read at offset %d exceeds buffer of %d bytes", n, r.off, len(r.buf))
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+n])
	r.off += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || r.Remaining() < n {
		return fmt.Errorf("mqwire: skip of %d at offset %d exceeds buffer of %d bytes", n, r.off, len(r.buf))
	}
	r.off += n
	return nil
}

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return fmt.Errorf("mqwire: seek to %d outside buffer of %d bytes", off, len(r.buf))
	}
	r.off = off
	return nil
}

// putInt32At patches a previously written int32 field in place.
func putInt32At(buf []byte, off int, v int32) {
	byteOrder.PutUint32(buf[off:], uint32(v))
}

// int32At reads an int32 field at a fixed offset without moving a cursor.
func int32At(buf []byte, off int) int32 {
	return int32(byteOrder.Uint32(buf[off:]))
}
