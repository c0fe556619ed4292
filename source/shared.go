package source

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
)

// Shared is a reference-counted handle to a source. Each handle returned by
// Share or Clone must be closed once; the underlying source is closed when
// the last handle is released. Handles may be used from different
// goroutines, so a data block discovered late in a decode can keep the
// source alive after the decoder that found it returns.
type Shared struct {
	state    *sharedState
	released atomic.Bool
}

type sharedState struct {
	src      binpos.Source
	closer   io.Closer
	closeErr error
	refs     atomic.Int64
	once     sync.Once
}

// Share returns the first handle to src. If src implements io.Closer it is
// closed when the last handle is released.
func Share(src binpos.Source) *Shared {
	st := &sharedState{src: src}
	if c, ok := src.(io.Closer); ok {
		st.closer = c
	}
	st.refs.Store(1)
	return &Shared{state: st}
}

// Clone returns a new handle to the same source.
func (s *Shared) Clone() (*Shared, error) {
	if s.released.Load() {
		return nil, errReleased()
	}
	s.state.refs.Add(1)
	return &Shared{state: s.state}, nil
}

// Refs returns the number of live handles.
func (s *Shared) Refs() int64 {
	return s.state.refs.Load()
}

// Close releases this handle. Closing a handle twice is a no-op.
func (s *Shared) Close() error {
	if !s.released.CompareAndSwap(false, true) {
		return nil
	}
	if s.state.refs.Add(-1) > 0 {
		return nil
	}
	s.state.once.Do(func() {
		if s.state.closer != nil {
			s.state.closeErr = s.state.closer.Close()
		}
	})
	return s.state.closeErr
}

// Len returns the length of the shared source.
func (s *Shared) Len() uint64 {
	return s.state.src.Len()
}

// ReadSliceAt reads through to the shared source.
func (s *Shared) ReadSliceAt(pos *uint64, n uint64) (binpos.Bytes, error) {
	if s.released.Load() {
		return binpos.Bytes{}, errReleased()
	}
	return s.state.src.ReadSliceAt(pos, n)
}

// ReadNullTerminatedAt reads through to the shared source.
func (s *Shared) ReadNullTerminatedAt(pos *uint64) (binpos.Bytes, error) {
	if s.released.Load() {
		return binpos.Bytes{}, errReleased()
	}
	return s.state.src.ReadNullTerminatedAt(pos)
}

func errReleased() *errors.Error {
	return errors.Custom(errors.PhaseIO, "shared source handle already released")
}
