// Package endian provides byte order strategies for fixed-width integers,
// including the 24-bit widths that encoding/binary lacks.
//
// A ByteOrder is passed explicitly to every read and write; there is no
// process-wide default.
package endian

import "encoding/binary"

// ByteOrder converts between byte slices and unsigned integers of 16, 24,
// 32 and 64 bits. Accessors panic if the slice is too short, like
// encoding/binary; codec callers always pass exact-length slices.
type ByteOrder interface {
	Uint16([]byte) uint16
	Uint24([]byte) uint32
	Uint32([]byte) uint32
	Uint64([]byte) uint64
	PutUint16([]byte, uint16)
	PutUint24([]byte, uint32)
	PutUint32([]byte, uint32)
	PutUint64([]byte, uint64)
	String() string
}

var (
	// LittleEndian stores the least significant byte first.
	LittleEndian ByteOrder = littleEndian{}
	// BigEndian stores the most significant byte first.
	BigEndian ByteOrder = bigEndian{}
)

// MaxUint24 is the largest value a 24-bit field can hold.
const MaxUint24 = 1<<24 - 1

type littleEndian struct{}

func (littleEndian) Uint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func (littleEndian) Uint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func (littleEndian) Uint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func (littleEndian) Uint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func (littleEndian) PutUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func (littleEndian) PutUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func (littleEndian) PutUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

func (littleEndian) PutUint24(b []byte, v uint32) {
	_ = b[2]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func (littleEndian) String() string { return "LittleEndian" }

type bigEndian struct{}

func (bigEndian) Uint16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func (bigEndian) Uint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func (bigEndian) Uint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

func (bigEndian) Uint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[2]) | uint32(b[1])<<8 | uint32(b[0])<<16
}

func (bigEndian) PutUint16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }
func (bigEndian) PutUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func (bigEndian) PutUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

func (bigEndian) PutUint24(b []byte, v uint32) {
	_ = b[2]
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func (bigEndian) String() string { return "BigEndian" }
