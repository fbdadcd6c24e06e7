package message

import (
	"bytes"
	"errors"
)

// ErrTooLarge is returned by Append when a limited buffer would grow past its limit
var ErrTooLarge = errors.New("message exceeds size limit")

// Buffer accumulates the byte chunks received on one connection.
// Content is the concatenation of every appended chunk in arrival order.
type Buffer struct {
	data       []byte
	limit      int
	overflowed bool
}

// NewBuffer creates an empty buffer. A limit <= 0 means unbounded.
func NewBuffer(limit int) *Buffer {
	return &Buffer{limit: limit}
}

// Append adds chunk to the end of the buffer.
// Once a limited buffer overflows it stops accepting data and never
// compares equal to anything.
func (b *Buffer) Append(chunk []byte) error {
	if b.overflowed {
		return ErrTooLarge
	}
	if len(chunk) == 0 {
		return nil
	}
	if b.limit > 0 && len(b.data)+len(chunk) > b.limit {
		b.overflowed = true
		b.data = nil
		return ErrTooLarge
	}
	b.data = append(b.data, chunk...)
	return nil
}

// Len returns the number of accumulated bytes
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the accumulated content. The slice must not be modified.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Overflowed reports whether the limit was exceeded
func (b *Buffer) Overflowed() bool {
	return b.overflowed
}

// Equal reports whether the content is byte-for-byte identical to literal
func (b *Buffer) Equal(literal []byte) bool {
	if b.overflowed || len(b.data) != len(literal) {
		return false
	}
	return bytes.Equal(b.data, literal)
}

// Reset drops the accumulated content and clears the overflow flag
func (b *Buffer) Reset() {
	b.data = nil
	b.overflowed = false
}
