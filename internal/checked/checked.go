// Package checked holds overflow-checked position arithmetic shared by the
// sources and codecs.
package checked

import (
	"math/bits"

	"github.com/wippyai/binpos/errors"
)

// Add returns pos+delta and whether the sum fit in 64 bits.
func Add(pos, delta uint64) (uint64, bool) {
	sum, carry := bits.Add64(pos, delta, 0)
	return sum, carry == 0
}

// Span validates that [pos, pos+n) lies inside a source of length avail and
// returns the end offset. Overflow is reported before truncation: a span
// that wraps the 64-bit space points at a corrupt length, not a short source.
func Span(phase errors.Phase, pos, n, avail uint64) (uint64, *errors.Error) {
	end, ok := Add(pos, n)
	if !ok {
		return 0, errors.PositionOverflow(phase, pos, n)
	}
	if end > avail {
		return 0, errors.SourceTooSmall(phase, pos, n, remaining(pos, avail))
	}
	return end, nil
}

// remaining returns the bytes left after pos, or 0 when pos is past avail.
func remaining(pos, avail uint64) uint64 {
	if pos >= avail {
		return 0
	}
	return avail - pos
}
