package source

import (
	"bytes"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/textutil"
)

// DefaultScanChunk is the read size used when searching an I/O-backed
// source for a null terminator.
const DefaultScanChunk = 256

// ScanNullTerminated implements ReadNullTerminatedAt for any source by
// reading fixed-size chunks until a zero byte is found, so the remainder of
// the source is never read in one piece. A terminator found in the first
// chunk yields that chunk's view (borrowed when the source borrows); a
// string spanning chunks is returned as an owned copy.
func ScanNullTerminated(src binpos.Source, pos *uint64, chunk int) (binpos.Bytes, error) {
	if chunk <= 0 {
		chunk = DefaultScanChunk
	}
	start := *pos
	size := src.Len()
	if start > size {
		return binpos.Bytes{}, errors.SourceTooSmall(errors.PhaseDecode, start, 1, 0)
	}

	var acc []byte
	for cur := start; cur < size; {
		n := min(uint64(chunk), size-cur)
		at := cur
		b, err := src.ReadSliceAt(&at, n)
		if err != nil {
			return binpos.Bytes{}, err
		}
		data := b.Bytes()
		if idx := bytes.IndexByte(data, 0); idx >= 0 {
			if acc == nil {
				return finishNullTerminated(pos, start, b.Slice(0, idx))
			}
			acc = append(acc, data[:idx]...)
			return finishNullTerminated(pos, start, binpos.Owned(acc))
		}
		acc = append(acc, data...)
		cur += n
	}
	return binpos.Bytes{}, errors.NoNullTerminator(errors.PhaseDecode, start)
}

// finishNullTerminated validates the span found at start and advances pos
// past the terminator.
func finishNullTerminated(pos *uint64, start uint64, span binpos.Bytes) (binpos.Bytes, error) {
	if bad := textutil.Validate(span.Bytes()); bad != nil {
		return binpos.Bytes{}, errors.InvalidUTF8(errors.PhaseDecode, start, uint64(span.Len()), bad)
	}
	*pos = start + uint64(span.Len()) + 1
	return span, nil
}
