package message

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuffer_AppendConcatenatesInOrder(t *testing.T) {
	tests := []struct {
		name   string
		chunks [][]byte
		want   []byte
	}{
		{
			name:   "no chunks",
			chunks: nil,
			want:   nil,
		},
		{
			name:   "single chunk",
			chunks: [][]byte{[]byte("Power")},
			want:   []byte("Power"),
		},
		{
			name:   "split chunks",
			chunks: [][]byte{[]byte("Pow"), []byte("er")},
			want:   []byte("Power"),
		},
		{
			name:   "zero-length chunks interleaved",
			chunks: [][]byte{{}, []byte("P"), nil, []byte("ow"), {}, []byte("er"), {}},
			want:   []byte("Power"),
		},
		{
			name:   "one byte at a time",
			chunks: [][]byte{{'a'}, {'b'}, {'c'}, {'d'}},
			want:   []byte("abcd"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(0)
			total := 0
			for _, c := range tt.chunks {
				if err := b.Append(c); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
				total += len(c)
			}
			if b.Len() != total {
				t.Errorf("Len() = %d, want %d", b.Len(), total)
			}
			if !bytes.Equal(b.Bytes(), tt.want) {
				t.Errorf("Bytes() = %q, want %q", b.Bytes(), tt.want)
			}
		})
	}
}

func TestBuffer_LargeChunk(t *testing.T) {
	b := NewBuffer(0)
	big := bytes.Repeat([]byte{0xAB}, 1<<20)
	if err := b.Append(big); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := b.Append([]byte{0x01}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if b.Len() != len(big)+1 {
		t.Errorf("Len() = %d, want %d", b.Len(), len(big)+1)
	}
	if b.Bytes()[b.Len()-1] != 0x01 {
		t.Error("last byte should be the second chunk")
	}
}

func TestBuffer_Equal(t *testing.T) {
	literal := []byte("Power")

	tests := []struct {
		content string
		want    bool
	}{
		{"Power", true},
		{"Power ", false},
		{"power", false},
		{"POWER", false},
		{"", false},
		{"PowerPower", false},
		{"Powe", false},
		{"Power!", false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			b := NewBuffer(0)
			b.Append([]byte(tt.content))
			if got := b.Equal(literal); got != tt.want {
				t.Errorf("Equal(%q) on %q = %v, want %v", literal, tt.content, got, tt.want)
			}
		})
	}
}

func TestBuffer_EmptyEqualsEmptyLiteral(t *testing.T) {
	b := NewBuffer(0)
	if !b.Equal(nil) {
		t.Error("empty buffer should equal empty literal")
	}
}

func TestBuffer_Limit(t *testing.T) {
	b := NewBuffer(5)

	if err := b.Append([]byte("Pow")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := b.Append([]byte("er")); err != nil {
		t.Fatalf("Append() at exact limit error = %v", err)
	}
	if !b.Equal([]byte("Power")) {
		t.Error("buffer at exact limit should still compare equal")
	}

	err := b.Append([]byte("!"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Append() past limit error = %v, want ErrTooLarge", err)
	}
	if !b.Overflowed() {
		t.Error("Overflowed() = false after exceeding limit")
	}
	if b.Equal([]byte("Power")) {
		t.Error("overflowed buffer must never compare equal")
	}
	if err := b.Append(nil); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Append() after overflow error = %v, want ErrTooLarge", err)
	}

	b.Reset()
	if b.Overflowed() || b.Len() != 0 {
		t.Error("Reset() should clear content and overflow flag")
	}
}
