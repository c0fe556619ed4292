package source

import (
	"bytes"
	"math"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/checked"
)

// WasmMemory adapts WebAssembly linear memory to Source and Sink. Reads are
// views into the guest memory and are invalidated when the guest grows its
// memory, so copy anything that must outlive the next guest call.
type WasmMemory struct {
	mem api.Memory
}

// NewWasmMemory wraps mem.
func NewWasmMemory(mem api.Memory) *WasmMemory {
	return &WasmMemory{mem: mem}
}

// Len returns the current size of the memory in bytes.
func (w *WasmMemory) Len() uint64 {
	return uint64(w.mem.Size())
}

// ReadSliceAt returns a view of n bytes of guest memory at *pos.
func (w *WasmMemory) ReadSliceAt(pos *uint64, n uint64) (binpos.Bytes, error) {
	size := w.Len()
	end, err := checked.Span(errors.PhaseDecode, *pos, n, size)
	if err != nil {
		return binpos.Bytes{}, err
	}
	b, ok := w.read(*pos, n)
	if !ok {
		return binpos.Bytes{}, errors.SourceTooSmall(errors.PhaseDecode, *pos, n, size-*pos)
	}
	*pos = end
	return binpos.Borrowed(b), nil
}

// ReadNullTerminatedAt returns a view of the text up to the next zero byte.
func (w *WasmMemory) ReadNullTerminatedAt(pos *uint64) (binpos.Bytes, error) {
	start := *pos
	size := w.Len()
	if start > size {
		return binpos.Bytes{}, errors.SourceTooSmall(errors.PhaseDecode, start, 1, 0)
	}
	rest, ok := w.read(start, size-start)
	if !ok {
		return binpos.Bytes{}, errors.SourceTooSmall(errors.PhaseDecode, start, 1, 0)
	}
	idx := bytes.IndexByte(rest, 0)
	if idx < 0 {
		return binpos.Bytes{}, errors.NoNullTerminator(errors.PhaseDecode, start)
	}
	return finishNullTerminated(pos, start, binpos.Borrowed(rest[:idx:idx]))
}

// WriteSliceAt copies b into guest memory at *pos. Memory is never grown;
// writes past the end fail with source_too_small.
func (w *WasmMemory) WriteSliceAt(pos *uint64, b []byte) error {
	size := w.Len()
	end, err := checked.Span(errors.PhaseEncode, *pos, uint64(len(b)), size)
	if err != nil {
		return err
	}
	if len(b) > 0 && !w.mem.Write(uint32(*pos), b) {
		return errors.SourceTooSmall(errors.PhaseEncode, *pos, uint64(len(b)), size-*pos)
	}
	*pos = end
	return nil
}

func (w *WasmMemory) read(pos, n uint64) ([]byte, bool) {
	if pos > math.MaxUint32 || n > math.MaxUint32 {
		return nil, false
	}
	if n == 0 {
		return []byte{}, true
	}
	return w.mem.Read(uint32(pos), uint32(n))
}
