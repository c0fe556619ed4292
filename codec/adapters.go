package codec

import (
	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/endian"
)

// Adapters that let primitives serve as sequence elements.

// DecodeU8 is a DecodeFunc for single bytes.
func DecodeU8(src binpos.Source, pos *uint64, _ NoCtx) (uint8, error) {
	return ReadU8(src, pos)
}

// DecodeU16 returns a DecodeFunc for uint16 values in order.
func DecodeU16(order endian.ByteOrder) DecodeFunc[uint16, NoCtx] {
	return func(src binpos.Source, pos *uint64, _ NoCtx) (uint16, error) {
		return ReadU16(src, pos, order)
	}
}

// DecodeU32 returns a DecodeFunc for uint32 values in order.
func DecodeU32(order endian.ByteOrder) DecodeFunc[uint32, NoCtx] {
	return func(src binpos.Source, pos *uint64, _ NoCtx) (uint32, error) {
		return ReadU32(src, pos, order)
	}
}

// DecodeU64 returns a DecodeFunc for uint64 values in order.
func DecodeU64(order endian.ByteOrder) DecodeFunc[uint64, NoCtx] {
	return func(src binpos.Source, pos *uint64, _ NoCtx) (uint64, error) {
		return ReadU64(src, pos, order)
	}
}

// DecodeLenString decodes length-prefixed strings, copying each one so the
// elements outlive the source.
func DecodeLenString(l Len) DecodeFunc[string, NoCtx] {
	return func(src binpos.Source, pos *uint64, _ NoCtx) (string, error) {
		s, err := ReadLenString(src, pos, l)
		if err != nil {
			return "", err
		}
		return s.String(), nil
	}
}

// EncodeU8 is an EncodeFunc for single bytes.
func EncodeU8(dst binpos.Sink, pos *uint64, v uint8, _ NoCtx) error {
	return WriteU8(dst, pos, v)
}

// EncodeU16 returns an EncodeFunc for uint16 values in order.
func EncodeU16(order endian.ByteOrder) EncodeFunc[uint16, NoCtx] {
	return func(dst binpos.Sink, pos *uint64, v uint16, _ NoCtx) error {
		return WriteU16(dst, pos, order, v)
	}
}

// EncodeU32 returns an EncodeFunc for uint32 values in order.
func EncodeU32(order endian.ByteOrder) EncodeFunc[uint32, NoCtx] {
	return func(dst binpos.Sink, pos *uint64, v uint32, _ NoCtx) error {
		return WriteU32(dst, pos, order, v)
	}
}

// EncodeU64 returns an EncodeFunc for uint64 values in order.
func EncodeU64(order endian.ByteOrder) EncodeFunc[uint64, NoCtx] {
	return func(dst binpos.Sink, pos *uint64, v uint64, _ NoCtx) error {
		return WriteU64(dst, pos, order, v)
	}
}

// EncodeLenString returns an EncodeFunc writing strings prefixed by l.
func EncodeLenString(l Len) EncodeFunc[string, NoCtx] {
	return func(dst binpos.Sink, pos *uint64, v string, _ NoCtx) error {
		return WriteLenString(dst, pos, l, v)
	}
}
