package codec

import (
	"math"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/endian"
	"github.com/wippyai/binpos/errors"
)

func read(src binpos.Source, pos *uint64, n uint64) ([]byte, error) {
	b, err := src.ReadSliceAt(pos, n)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// ReadU8 reads one byte.
func ReadU8(src binpos.Source, pos *uint64) (uint8, error) {
	b, err := read(src, pos, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a 16-bit unsigned integer.
func ReadU16(src binpos.Source, pos *uint64, order endian.ByteOrder) (uint16, error) {
	b, err := read(src, pos, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

// ReadU24 reads a 24-bit unsigned integer.
func ReadU24(src binpos.Source, pos *uint64, order endian.ByteOrder) (uint32, error) {
	b, err := read(src, pos, 3)
	if err != nil {
		return 0, err
	}
	return order.Uint24(b), nil
}

// ReadU32 reads a 32-bit unsigned integer.
func ReadU32(src binpos.Source, pos *uint64, order endian.ByteOrder) (uint32, error) {
	b, err := read(src, pos, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// ReadU64 reads a 64-bit unsigned integer.
func ReadU64(src binpos.Source, pos *uint64, order endian.ByteOrder) (uint64, error) {
	b, err := read(src, pos, 8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

// ReadI8 reads a signed byte.
func ReadI8(src binpos.Source, pos *uint64) (int8, error) {
	v, err := ReadU8(src, pos)
	return int8(v), err
}

// ReadI16 reads a 16-bit two's complement integer.
func ReadI16(src binpos.Source, pos *uint64, order endian.ByteOrder) (int16, error) {
	v, err := ReadU16(src, pos, order)
	return int16(v), err
}

// ReadI24 reads a 24-bit two's complement integer, sign-extended to 32 bits.
func ReadI24(src binpos.Source, pos *uint64, order endian.ByteOrder) (int32, error) {
	v, err := ReadU24(src, pos, order)
	return int32(v<<8) >> 8, err
}

// ReadI32 reads a 32-bit two's complement integer.
func ReadI32(src binpos.Source, pos *uint64, order endian.ByteOrder) (int32, error) {
	v, err := ReadU32(src, pos, order)
	return int32(v), err
}

// ReadI64 reads a 64-bit two's complement integer.
func ReadI64(src binpos.Source, pos *uint64, order endian.ByteOrder) (int64, error) {
	v, err := ReadU64(src, pos, order)
	return int64(v), err
}

// ReadF32 reads an IEEE 754 single.
func ReadF32(src binpos.Source, pos *uint64, order endian.ByteOrder) (float32, error) {
	v, err := ReadU32(src, pos, order)
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE 754 double.
func ReadF64(src binpos.Source, pos *uint64, order endian.ByteOrder) (float64, error) {
	v, err := ReadU64(src, pos, order)
	return math.Float64frombits(v), err
}

// ReadBool reads a byte that must be 0 or 1.
func ReadBool(src binpos.Source, pos *uint64) (bool, error) {
	start := *pos
	v, err := ReadU8(src, pos)
	if err != nil {
		return false, err
	}
	if err := assert.Le(v, 1, "bool at offset %d", start).Err(); err != nil {
		*pos = start
		return false, err
	}
	return v == 1, nil
}

// ReadFixed fills dst with the next len(dst) bytes.
func ReadFixed(src binpos.Source, pos *uint64, dst []byte) error {
	b, err := read(src, pos, uint64(len(dst)))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ReadUint reads an unsigned integer of 8, 16, 24, 32 or 64 bits.
func ReadUint(src binpos.Source, pos *uint64, order endian.ByteOrder, bits int) (uint64, error) {
	switch bits {
	case 8:
		v, err := ReadU8(src, pos)
		return uint64(v), err
	case 16:
		v, err := ReadU16(src, pos, order)
		return uint64(v), err
	case 24:
		v, err := ReadU24(src, pos, order)
		return uint64(v), err
	case 32:
		v, err := ReadU32(src, pos, order)
		return uint64(v), err
	case 64:
		return ReadU64(src, pos, order)
	}
	return 0, errors.Custom(errors.PhaseDecode, "unsupported integer width %d", bits)
}
