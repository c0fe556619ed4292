package source

import (
	"bytes"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/checked"
)

// Memory is a Source over a byte slice. Reads return views into the slice.
type Memory []byte

// Len returns the length of the slice.
func (m Memory) Len() uint64 {
	return uint64(len(m))
}

// ReadSliceAt returns a borrowed view of m[*pos:*pos+n].
func (m Memory) ReadSliceAt(pos *uint64, n uint64) (binpos.Bytes, error) {
	end, err := checked.Span(errors.PhaseDecode, *pos, n, m.Len())
	if err != nil {
		return binpos.Bytes{}, err
	}
	b := m[*pos:end:end]
	*pos = end
	return binpos.Borrowed(b), nil
}

// ReadNullTerminatedAt returns a borrowed view of the text up to the next
// zero byte.
func (m Memory) ReadNullTerminatedAt(pos *uint64) (binpos.Bytes, error) {
	start := *pos
	if start > m.Len() {
		return binpos.Bytes{}, errors.SourceTooSmall(errors.PhaseDecode, start, 1, 0)
	}
	rest := m[start:]
	idx := bytes.IndexByte(rest, 0)
	if idx < 0 {
		return binpos.Bytes{}, errors.NoNullTerminator(errors.PhaseDecode, start)
	}
	return finishNullTerminated(pos, start, binpos.Borrowed(rest[:idx:idx]))
}
