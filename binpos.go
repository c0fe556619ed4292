package binpos

import "unsafe"

// Source is a fixed, logically immutable byte provider addressed by explicit
// positions. The position is owned by the caller and passed by pointer, so a
// single Source can serve any number of concurrent decodes, each with its own
// position.
//
// Implementations must leave *pos untouched when they return an error and
// advance it by exactly the bytes consumed on success.
type Source interface {
	// ReadSliceAt returns the n bytes at *pos and advances *pos by n.
	ReadSliceAt(pos *uint64, n uint64) (Bytes, error)
	// ReadNullTerminatedAt returns the UTF-8 text between *pos and the next
	// zero byte and advances *pos one past the terminator.
	ReadNullTerminatedAt(pos *uint64) (Bytes, error)
	// Len returns the total length of the source in bytes.
	Len() uint64
}

// Sink is a positioned write target.
type Sink interface {
	// WriteSliceAt writes b at *pos and advances *pos by len(b).
	WriteSliceAt(pos *uint64, b []byte) error
	// Len returns the current length of the written data.
	Len() uint64
}

// Bytes is either a zero-copy view borrowed from a source or an owned copy.
// Both variants read the same way; only code that keeps data past the
// lifetime of the source needs to call Own.
type Bytes struct {
	data  []byte
	owned bool
}

// Borrowed wraps a view into memory owned by a source.
func Borrowed(b []byte) Bytes {
	return Bytes{data: b}
}

// Owned wraps a buffer that belongs to the caller.
func Owned(b []byte) Bytes {
	return Bytes{data: b, owned: true}
}

// Bytes returns the underlying slice. Callers must not modify a borrowed
// slice.
func (b Bytes) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes.
func (b Bytes) Len() int {
	return len(b.data)
}

// IsOwned reports whether the data is an owned copy.
func (b Bytes) IsOwned() bool {
	return b.owned
}

// Slice returns b[i:j] with the same ownership.
func (b Bytes) Slice(i, j int) Bytes {
	return Bytes{data: b.data[i:j:j], owned: b.owned}
}

// Own returns an owned copy, or b itself when it is already owned.
func (b Bytes) Own() Bytes {
	if b.owned {
		return b
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return Owned(cp)
}

// String returns the data as a string, copying it.
func (b Bytes) String() string {
	return string(b.data)
}

// UnsafeString returns the data as a string without copying. For borrowed
// data the string is only valid while the source is alive and unmodified.
func (b Bytes) UnsafeString() string {
	if len(b.data) == 0 {
		return ""
	}
	return unsafe.String(&b.data[0], len(b.data))
}
