package source

import (
	"math"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/checked"
)

// Buffer is a growable in-memory Sink. Writes past the current end extend
// the buffer, zero-filling any gap. A Buffer is also a Source over what has
// been written so far.
type Buffer struct {
	data []byte
}

// NewBuffer creates a Buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Bytes returns the written bytes.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes written.
func (b *Buffer) Len() uint64 {
	return uint64(len(b.data))
}

// Reset truncates the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}

// WriteSliceAt writes p at *pos.
func (b *Buffer) WriteSliceAt(pos *uint64, p []byte) error {
	end, ok := checked.Add(*pos, uint64(len(p)))
	if !ok {
		return errors.PositionOverflow(errors.PhaseEncode, *pos, uint64(len(p)))
	}
	if end > math.MaxInt {
		return errors.IntegerConversion(errors.PhaseEncode, end, "int")
	}
	if int(end) > len(b.data) {
		b.grow(int(end))
	}
	copy(b.data[*pos:end], p)
	*pos = end
	return nil
}

func (b *Buffer) grow(n int) {
	if n <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:n]
		clear(b.data[old:])
		return
	}
	b.data = append(b.data, make([]byte, n-len(b.data))...)
}

// ReadSliceAt reads back written bytes as a borrowed view. The view is
// invalidated by later writes that grow the buffer.
func (b *Buffer) ReadSliceAt(pos *uint64, n uint64) (binpos.Bytes, error) {
	return Memory(b.data).ReadSliceAt(pos, n)
}

// ReadNullTerminatedAt reads back a null-terminated string.
func (b *Buffer) ReadNullTerminatedAt(pos *uint64) (binpos.Bytes, error) {
	return Memory(b.data).ReadNullTerminatedAt(pos)
}
