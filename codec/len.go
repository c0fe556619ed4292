package codec

import (
	"math"
	"strconv"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/endian"
	"github.com/wippyai/binpos/errors"
)

// Len is the integer type used as the count in front of a variable-length
// payload.
type Len interface {
	// Size returns the encoded width in bytes, or 0 for variable-width types.
	Size() int
	// Max returns the largest count the type can carry.
	Max() uint64
	ReadLen(src binpos.Source, pos *uint64) (uint64, error)
	// WriteLen fails with integer_conversion when n exceeds Max.
	WriteLen(dst binpos.Sink, pos *uint64, n uint64) error
}

// Len8 is a single-byte count.
var Len8 Len = fixedLen{bits: 8, order: endian.LittleEndian}

// Len16 is a 16-bit count in the given byte order.
func Len16(order endian.ByteOrder) Len { return fixedLen{bits: 16, order: order} }

// Len24 is a 24-bit count in the given byte order.
func Len24(order endian.ByteOrder) Len { return fixedLen{bits: 24, order: order} }

// Len32 is a 32-bit count in the given byte order.
func Len32(order endian.ByteOrder) Len { return fixedLen{bits: 32, order: order} }

// Len64 is a 64-bit count in the given byte order.
func Len64(order endian.ByteOrder) Len { return fixedLen{bits: 64, order: order} }

type fixedLen struct {
	bits  int
	order endian.ByteOrder
}

func (l fixedLen) Size() int { return l.bits / 8 }

func (l fixedLen) Max() uint64 {
	if l.bits >= 64 {
		return math.MaxUint64
	}
	return uint64(1)<<uint(l.bits) - 1
}

func (l fixedLen) ReadLen(src binpos.Source, pos *uint64) (uint64, error) {
	return ReadUint(src, pos, l.order, l.bits)
}

func (l fixedLen) WriteLen(dst binpos.Sink, pos *uint64, n uint64) error {
	if n > l.Max() {
		return errors.IntegerConversion(errors.PhaseEncode, n, l.String())
	}
	return WriteUint(dst, pos, l.order, l.bits, n)
}

func (l fixedLen) String() string {
	return "len" + strconv.Itoa(l.bits)
}

// LenULEB128 is an unsigned LEB128 count, as used by WebAssembly and
// protobuf-style formats. Encodings longer than ten bytes, or whose tenth
// byte carries bits beyond 64, fail with integer_conversion.
var LenULEB128 Len = uleb128{}

const maxULEB128Len = 10

type uleb128 struct{}

func (uleb128) Size() int   { return 0 }
func (uleb128) Max() uint64 { return math.MaxUint64 }

func (uleb128) ReadLen(src binpos.Source, pos *uint64) (uint64, error) {
	start := *pos
	cur := start
	var result uint64
	var shift uint
	for i := 0; i < maxULEB128Len; i++ {
		b, err := ReadU8(src, &cur)
		if err != nil {
			return 0, err
		}
		if i == maxULEB128Len-1 && b > 1 {
			break
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			*pos = cur
			return result, nil
		}
		shift += 7
	}
	return 0, errors.New(errors.PhaseDecode, errors.KindIntegerConversion).
		Pos(start).
		Detail("uleb128 at offset %d exceeds 64 bits", start).
		Build()
}

func (uleb128) WriteLen(dst binpos.Sink, pos *uint64, n uint64) error {
	var buf [maxULEB128Len]byte
	i := 0
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		buf[i] = b
		i++
		if n == 0 {
			break
		}
	}
	return dst.WriteSliceAt(pos, buf[:i])
}

func (uleb128) String() string { return "uleb128" }

// HostSize converts a decoded count to int, failing with integer_conversion
// when it does not fit.
func HostSize(n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, errors.IntegerConversion(errors.PhaseDecode, n, "int")
	}
	return int(n), nil
}
