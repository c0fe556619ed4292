package codec

import (
	"strings"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/textutil"
)

// All reads in this file are atomic: on any failure *pos is restored to its
// value at entry.

// ReadSliceN reads n raw bytes.
func ReadSliceN(src binpos.Source, pos *uint64, n uint64) (binpos.Bytes, error) {
	if _, err := HostSize(n); err != nil {
		return binpos.Bytes{}, err
	}
	return src.ReadSliceAt(pos, n)
}

// ReadStringN reads n bytes that must be valid UTF-8.
func ReadStringN(src binpos.Source, pos *uint64, n uint64) (binpos.Bytes, error) {
	start := *pos
	b, err := ReadSliceN(src, pos, n)
	if err != nil {
		return binpos.Bytes{}, err
	}
	if bad := textutil.Validate(b.Bytes()); bad != nil {
		*pos = start
		return binpos.Bytes{}, errors.InvalidUTF8(errors.PhaseDecode, start, n, bad)
	}
	return b, nil
}

// ReadStringNLossy reads n bytes, replacing each invalid UTF-8 byte with
// U+FFFD. A repaired string is returned as an owned copy.
func ReadStringNLossy(src binpos.Source, pos *uint64, n uint64) (binpos.Bytes, error) {
	b, err := ReadSliceN(src, pos, n)
	if err != nil {
		return binpos.Bytes{}, err
	}
	if fixed, repaired := textutil.Repair(b.Bytes()); repaired {
		return binpos.Owned(fixed), nil
	}
	return b, nil
}

// ReadLenSlice reads a count of type l followed by that many bytes.
func ReadLenSlice(src binpos.Source, pos *uint64, l Len) (b binpos.Bytes, err error) {
	defer RestoreOnError(pos, *pos, &err)
	n, err := l.ReadLen(src, pos)
	if err != nil {
		return binpos.Bytes{}, err
	}
	return ReadSliceN(src, pos, n)
}

// ReadLenString reads a count of type l followed by that many bytes of
// UTF-8 text.
func ReadLenString(src binpos.Source, pos *uint64, l Len) (s binpos.Bytes, err error) {
	defer RestoreOnError(pos, *pos, &err)
	n, err := l.ReadLen(src, pos)
	if err != nil {
		return binpos.Bytes{}, err
	}
	return ReadStringN(src, pos, n)
}

// ReadLenStringLossy is ReadLenString with invalid bytes replaced.
func ReadLenStringLossy(src binpos.Source, pos *uint64, l Len) (s binpos.Bytes, err error) {
	defer RestoreOnError(pos, *pos, &err)
	n, err := l.ReadLen(src, pos)
	if err != nil {
		return binpos.Bytes{}, err
	}
	return ReadStringNLossy(src, pos, n)
}

// ReadNullTerminatedString reads UTF-8 text up to the next zero byte.
func ReadNullTerminatedString(src binpos.Source, pos *uint64) (binpos.Bytes, error) {
	return src.ReadNullTerminatedAt(pos)
}

// ReadLenCollection reads a count of type l and returns a lazy sequence of
// that many elements starting right after it. *pos is advanced past the
// count only; use the sequence's Position once it is drained.
func ReadLenCollection[T, C any](src binpos.Source, pos *uint64, l Len, ctx C, decode DecodeFunc[T, C]) (*Sequence[T, C], error) {
	n, err := l.ReadLen(src, pos)
	if err != nil {
		return nil, err
	}
	return NewSequence(src, *pos, n, ctx, decode), nil
}

// ReadLenVec reads a count of type l and decodes every element, advancing
// *pos past the last one.
func ReadLenVec[T, C any](src binpos.Source, pos *uint64, l Len, ctx C, decode DecodeFunc[T, C]) (out []T, err error) {
	defer RestoreOnError(pos, *pos, &err)
	seq, err := ReadLenCollection(src, pos, l, ctx, decode)
	if err != nil {
		return nil, err
	}
	out, err = seq.Collect()
	if err != nil {
		return nil, err
	}
	*pos = seq.Position()
	return out, nil
}

// WriteLenSlice writes len(b) as type l followed by b.
func WriteLenSlice(dst binpos.Sink, pos *uint64, l Len, b []byte) (err error) {
	defer RestoreOnError(pos, *pos, &err)
	if err := l.WriteLen(dst, pos, uint64(len(b))); err != nil {
		return err
	}
	return dst.WriteSliceAt(pos, b)
}

// WriteLenString writes len(s) as type l followed by s.
func WriteLenString(dst binpos.Sink, pos *uint64, l Len, s string) error {
	return WriteLenSlice(dst, pos, l, []byte(s))
}

// WriteNullTerminatedString writes s followed by a zero byte. s must not
// contain a zero byte itself.
func WriteNullTerminatedString(dst binpos.Sink, pos *uint64, s string) error {
	if err := assert.Lt(strings.IndexByte(s, 0), 0, "interior zero byte in %q", s).Err(); err != nil {
		return err
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return dst.WriteSliceAt(pos, b)
}

// WriteLenCollection writes len(items) as type l followed by each element.
func WriteLenCollection[T, C any](dst binpos.Sink, pos *uint64, l Len, items []T, ctx C, encode EncodeFunc[T, C]) (err error) {
	defer RestoreOnError(pos, *pos, &err)
	if err := l.WriteLen(dst, pos, uint64(len(items))); err != nil {
		return err
	}
	for i, item := range items {
		if err := encode(dst, pos, item, ctx); err != nil {
			return errors.WithContextf(err, "element %d", i)
		}
	}
	return nil
}
