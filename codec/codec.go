package codec

import (
	"bytes"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/source"
)

// NoCtx is the context of types that decode from the stream alone.
type NoCtx struct{}

// Deserializer is implemented by pointer types that decode themselves from a
// source. C carries parameters the stream does not contain, such as a
// repeat count or byte order.
//
// On failure *pos must equal its value at entry. Composite decoders take a
// snapshot once at entry and restore it (RestoreOnError) so fields decoded
// before the failing one do not leak their advance.
type Deserializer[C any] interface {
	DeserializeAt(src binpos.Source, pos *uint64, ctx C) error
}

// Serializer is implemented by types that encode themselves. Its only
// expected failures are integer conversions and explicit invariant checks.
type Serializer[C any] interface {
	SerializeAt(dst binpos.Sink, pos *uint64, ctx C) error
}

// DecodeFunc decodes one value of T.
type DecodeFunc[T, C any] func(src binpos.Source, pos *uint64, ctx C) (T, error)

// EncodeFunc encodes one value of T.
type EncodeFunc[T, C any] func(dst binpos.Sink, pos *uint64, v T, ctx C) error

// Deserialize decodes a T at *pos. The position is restored on failure even
// when the type's own decoder forgets to.
func Deserialize[T, C any, PT interface {
	*T
	Deserializer[C]
}](src binpos.Source, pos *uint64, ctx C) (T, error) {
	start := *pos
	var v T
	if err := PT(&v).DeserializeAt(src, pos, ctx); err != nil {
		*pos = start
		var zero T
		return zero, err
	}
	return v, nil
}

// DeserializeDefault decodes a T that needs no context.
func DeserializeDefault[T any, PT interface {
	*T
	Deserializer[NoCtx]
}](src binpos.Source, pos *uint64) (T, error) {
	return Deserialize[T, NoCtx, PT](src, pos, NoCtx{})
}

// Unmarshal decodes a T from b, which must be consumed entirely.
func Unmarshal[T, C any, PT interface {
	*T
	Deserializer[C]
}](b []byte, ctx C) (T, error) {
	var pos uint64
	v, err := Deserialize[T, C, PT](source.Memory(b), &pos, ctx)
	if err != nil {
		return v, err
	}
	if rest := uint64(len(b)) - pos; rest != 0 {
		var zero T
		return zero, errors.New(errors.PhaseDecode, errors.KindCustom).
			Pos(pos).
			Detail("%d trailing bytes", rest).
			Build()
	}
	return v, nil
}

// Serialize encodes v at *pos, restoring the position on failure. Bytes
// already handed to dst before the failure are not retracted.
func Serialize[C any](v Serializer[C], dst binpos.Sink, pos *uint64, ctx C) (err error) {
	defer RestoreOnError(pos, *pos, &err)
	return v.SerializeAt(dst, pos, ctx)
}

// SerializeDefault encodes a value that needs no context.
func SerializeDefault(v Serializer[NoCtx], dst binpos.Sink, pos *uint64) error {
	return Serialize(v, dst, pos, NoCtx{})
}

// Marshal encodes v into a new byte slice.
func Marshal[C any](v Serializer[C], ctx C) ([]byte, error) {
	buf := source.NewBuffer(64)
	var pos uint64
	if err := Serialize(v, buf, &pos, ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Elem returns a DecodeFunc for a Deserializer type, for use with sequences.
func Elem[T, C any, PT interface {
	*T
	Deserializer[C]
}]() DecodeFunc[T, C] {
	return Deserialize[T, C, PT]
}

// ElemEncoder returns an EncodeFunc for a Serializer type.
func ElemEncoder[T Serializer[C], C any]() EncodeFunc[T, C] {
	return func(dst binpos.Sink, pos *uint64, v T, ctx C) error {
		return Serialize[C](v, dst, pos, ctx)
	}
}

// RestoreOnError resets *pos to snapshot when *err is non-nil. Use it
// deferred at the top of a composite decoder:
//
//	defer codec.RestoreOnError(pos, *pos, &err)
func RestoreOnError(pos *uint64, snapshot uint64, err *error) {
	if *err != nil {
		*pos = snapshot
	}
}

// Atomic runs fn and restores *pos if it fails.
func Atomic(pos *uint64, fn func() error) error {
	start := *pos
	if err := fn(); err != nil {
		*pos = start
		return err
	}
	return nil
}

// Magic is a zero-sized marker that decodes by matching the expected bytes
// passed as its context and encodes by writing them.
type Magic struct{}

// DeserializeAt reads len(expected) bytes and checks them.
func (*Magic) DeserializeAt(src binpos.Source, pos *uint64, expected []byte) error {
	start := *pos
	got, err := src.ReadSliceAt(pos, uint64(len(expected)))
	if err != nil {
		return err
	}
	if !bytes.Equal(got.Bytes(), expected) {
		*pos = start
		return assert.Eq(got.String(), string(expected), "magic at offset %d", start).Err()
	}
	return nil
}

// SerializeAt writes expected.
func (Magic) SerializeAt(dst binpos.Sink, pos *uint64, expected []byte) error {
	return dst.WriteSliceAt(pos, expected)
}
