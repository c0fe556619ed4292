package codec

import (
	"iter"

	"go.uber.org/zap"

	"github.com/wippyai/binpos"
)

// maxPrealloc caps how many elements Collect reserves up front. The declared
// count comes from the input and may be corrupt.
const maxPrealloc = 1024

// Sequence lazily decodes a known number of elements from consecutive
// positions. Each successful Next advances the cursor and decrements the
// remaining count. The first failure leaves both untouched and ends the
// sequence: later calls report exhaustion and Err keeps the failure.
//
// A Sequence is not safe for concurrent use.
type Sequence[T, C any] struct {
	src       binpos.Source
	ctx       C
	decode    DecodeFunc[T, C]
	err       error
	pos       uint64
	remaining uint64
}

// NewSequence returns a sequence of count elements starting at start.
func NewSequence[T, C any](src binpos.Source, start, count uint64, ctx C, decode DecodeFunc[T, C]) *Sequence[T, C] {
	return &Sequence[T, C]{
		src:       src,
		ctx:       ctx,
		decode:    decode,
		pos:       start,
		remaining: count,
	}
}

// Next decodes the next element. It returns (v, true, nil) on success,
// (zero, false, nil) once the sequence is exhausted or has failed, and
// (zero, false, err) exactly once, for the failing element.
func (s *Sequence[T, C]) Next() (T, bool, error) {
	var zero T
	if s.err != nil || s.remaining == 0 {
		return zero, false, nil
	}
	cur := s.pos
	v, err := s.decode(s.src, &cur, s.ctx)
	if err != nil {
		s.err = err
		Logger().Debug("sequence element failed",
			zap.Uint64("pos", s.pos),
			zap.Uint64("remaining", s.remaining),
			zap.Error(err),
		)
		return zero, false, err
	}
	s.pos = cur
	s.remaining--
	return v, true, nil
}

// All returns an iterator over the remaining elements. A failure is yielded
// once with the zero value, then iteration stops.
func (s *Sequence[T, C]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := s.Next()
			if err != nil {
				yield(v, err)
				return
			}
			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}

// Collect decodes every remaining element.
func (s *Sequence[T, C]) Collect() ([]T, error) {
	out := make([]T, 0, s.preallocHint())
	for v, err := range s.All() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	if s.err != nil {
		return out, s.err
	}
	return out, nil
}

// preallocHint bounds the initial capacity by the bytes left in the source
// and by maxPrealloc; a zero-sized element could otherwise claim any count.
func (s *Sequence[T, C]) preallocHint() int {
	n := min(s.remaining, maxPrealloc)
	if l := s.src.Len(); s.pos >= l {
		n = 0
	} else {
		n = min(n, l-s.pos)
	}
	return int(n)
}

// Position returns the offset of the next element.
func (s *Sequence[T, C]) Position() uint64 {
	return s.pos
}

// Remaining returns how many elements are left to decode.
func (s *Sequence[T, C]) Remaining() uint64 {
	return s.remaining
}

// Err returns the failure that ended the sequence, if any.
func (s *Sequence[T, C]) Err() error {
	return s.err
}

// Done reports whether Next will produce no more elements.
func (s *Sequence[T, C]) Done() bool {
	return s.err != nil || s.remaining == 0
}
