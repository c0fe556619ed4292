package codec

import (
	"math"
	"strconv"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/endian"
	"github.com/wippyai/binpos/errors"
)

// WriteU8 writes one byte.
func WriteU8(dst binpos.Sink, pos *uint64, v uint8) error {
	return dst.WriteSliceAt(pos, []byte{v})
}

// WriteU16 writes a 16-bit unsigned integer.
func WriteU16(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v uint16) error {
	var b [2]byte
	order.PutUint16(b[:], v)
	return dst.WriteSliceAt(pos, b[:])
}

// WriteU24 writes the low 24 bits of v. Values above endian.MaxUint24 fail
// with integer_conversion.
func WriteU24(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v uint32) error {
	if v > endian.MaxUint24 {
		return errors.IntegerConversion(errors.PhaseEncode, v, "u24")
	}
	var b [3]byte
	order.PutUint24(b[:], v)
	return dst.WriteSliceAt(pos, b[:])
}

// WriteU32 writes a 32-bit unsigned integer.
func WriteU32(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v uint32) error {
	var b [4]byte
	order.PutUint32(b[:], v)
	return dst.WriteSliceAt(pos, b[:])
}

// WriteU64 writes a 64-bit unsigned integer.
func WriteU64(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v uint64) error {
	var b [8]byte
	order.PutUint64(b[:], v)
	return dst.WriteSliceAt(pos, b[:])
}

// WriteI8 writes a signed byte.
func WriteI8(dst binpos.Sink, pos *uint64, v int8) error {
	return WriteU8(dst, pos, uint8(v))
}

// WriteI16 writes a two's-complement int16.
func WriteI16(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v int16) error {
	return WriteU16(dst, pos, order, uint16(v))
}

// WriteI24 writes a 24-bit two's complement integer.
func WriteI24(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v int32) error {
	if v < -1<<23 || v > 1<<23-1 {
		return errors.IntegerConversion(errors.PhaseEncode, v, "i24")
	}
	return WriteU24(dst, pos, order, uint32(v)&endian.MaxUint24)
}

// WriteI32 writes a two's-complement int32.
func WriteI32(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v int32) error {
	return WriteU32(dst, pos, order, uint32(v))
}

// WriteI64 writes a two's-complement int64.
func WriteI64(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v int64) error {
	return WriteU64(dst, pos, order, uint64(v))
}

// WriteF32 writes the IEEE 754 bits of v.
func WriteF32(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v float32) error {
	return WriteU32(dst, pos, order, math.Float32bits(v))
}

// WriteF64 writes the IEEE 754 bits of v.
func WriteF64(dst binpos.Sink, pos *uint64, order endian.ByteOrder, v float64) error {
	return WriteU64(dst, pos, order, math.Float64bits(v))
}

// WriteBool writes 1 or 0.
func WriteBool(dst binpos.Sink, pos *uint64, v bool) error {
	if v {
		return WriteU8(dst, pos, 1)
	}
	return WriteU8(dst, pos, 0)
}

// WriteFixed writes b as is.
func WriteFixed(dst binpos.Sink, pos *uint64, b []byte) error {
	return dst.WriteSliceAt(pos, b)
}

// WriteUint writes v as an unsigned integer of the given width, failing with
// integer_conversion when it does not fit.
func WriteUint(dst binpos.Sink, pos *uint64, order endian.ByteOrder, bits int, v uint64) error {
	if bits < 64 && bits > 0 && v>>uint(bits) != 0 {
		return errors.IntegerConversion(errors.PhaseEncode, v, "u"+strconv.Itoa(bits))
	}
	switch bits {
	case 8:
		return WriteU8(dst, pos, uint8(v))
	case 16:
		return WriteU16(dst, pos, order, uint16(v))
	case 24:
		return WriteU24(dst, pos, order, uint32(v))
	case 32:
		return WriteU32(dst, pos, order, uint32(v))
	case 64:
		return WriteU64(dst, pos, order, v)
	}
	return errors.Custom(errors.PhaseEncode, "unsupported integer width %d", bits)
}
