package source

import (
	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/checked"
)

// Window exposes the range [base, base+size) of another source as a source
// of its own, with positions relative to base.
type Window struct {
	src  binpos.Source
	base uint64
	size uint64
}

// NewWindow returns a window over src. The range must lie inside src.
func NewWindow(src binpos.Source, base, size uint64) (*Window, error) {
	if _, err := checked.Span(errors.PhaseDecode, base, size, src.Len()); err != nil {
		return nil, err
	}
	return &Window{src: src, base: base, size: size}, nil
}

// Base returns the offset of the window inside its parent.
func (w *Window) Base() uint64 {
	return w.base
}

// Len returns the size of the window.
func (w *Window) Len() uint64 {
	return w.size
}

// ReadSliceAt reads n bytes at window-relative *pos.
func (w *Window) ReadSliceAt(pos *uint64, n uint64) (binpos.Bytes, error) {
	end, err := checked.Span(errors.PhaseDecode, *pos, n, w.size)
	if err != nil {
		return binpos.Bytes{}, err
	}
	abs := w.base + *pos
	b, rerr := w.src.ReadSliceAt(&abs, n)
	if rerr != nil {
		return binpos.Bytes{}, rerr
	}
	*pos = end
	return b, nil
}

// ReadNullTerminatedAt scans for a terminator without leaving the window.
func (w *Window) ReadNullTerminatedAt(pos *uint64) (binpos.Bytes, error) {
	return ScanNullTerminated(w, pos, DefaultScanChunk)
}
