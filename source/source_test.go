package source

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
)

// sources returns every Source implementation holding data.
func sources(t *testing.T, data []byte) map[string]binpos.Source {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	file, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	small := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	small.ScanChunk = 2

	mapped, err := OpenMapped(path)
	require.NoError(t, err)
	t.Cleanup(func() { mapped.Close() })

	padded := append([]byte{0xEE, 0xEE}, data...)
	padded = append(padded, 0xEE)
	win, err := NewWindow(Memory(padded), 2, uint64(len(data)))
	require.NoError(t, err)

	buf := NewBuffer(0)
	var wpos uint64
	require.NoError(t, buf.WriteSliceAt(&wpos, data))

	shared := Share(Memory(data))
	t.Cleanup(func() { shared.Close() })

	return map[string]binpos.Source{
		"memory":      Memory(data),
		"file":        file,
		"file-chunk2": small,
		"mapped":      mapped,
		"window":      win,
		"buffer":      buf,
		"shared":      shared,
	}
}

func TestReadSliceAt(t *testing.T) {
	for name, src := range sources(t, []byte("abcdef")) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, uint64(6), src.Len())

			var pos uint64 = 1
			b, err := src.ReadSliceAt(&pos, 3)
			require.NoError(t, err)
			assert.Equal(t, "bcd", b.String())
			assert.Equal(t, uint64(4), pos)

			b, err = src.ReadSliceAt(&pos, 0)
			require.NoError(t, err)
			assert.Equal(t, 0, b.Len())
			assert.Equal(t, uint64(4), pos)

			_, err = src.ReadSliceAt(&pos, 3)
			require.Error(t, err)
			assert.Equal(t, errors.KindSourceTooSmall, errors.KindOf(err))
			assert.Equal(t, uint64(4), pos, "position must not move on failure")
		})
	}
}

func TestReadSliceAtTruncated(t *testing.T) {
	for name, src := range sources(t, []byte{1, 2, 3}) {
		t.Run(name, func(t *testing.T) {
			var pos uint64
			_, err := src.ReadSliceAt(&pos, 8)
			require.Error(t, err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindSourceTooSmall, e.Kind)
			assert.Equal(t, uint64(8), e.Needed)
			assert.Equal(t, uint64(3), e.Available)
			assert.Equal(t, uint64(0), pos)
		})
	}
}

func TestReadSliceAtOverflow(t *testing.T) {
	for name, src := range sources(t, []byte("0123456789")) {
		t.Run(name, func(t *testing.T) {
			pos := uint64(math.MaxUint64 - 2)
			_, err := src.ReadSliceAt(&pos, 10)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrPositionOverflow)
			assert.Equal(t, uint64(math.MaxUint64-2), pos)
		})
	}
}

func TestReadNullTerminatedAt(t *testing.T) {
	for name, src := range sources(t, []byte("ab\x00hello\x00tail")) {
		t.Run(name, func(t *testing.T) {
			var pos uint64
			s, err := src.ReadNullTerminatedAt(&pos)
			require.NoError(t, err)
			assert.Equal(t, "ab", s.String())
			assert.Equal(t, uint64(3), pos)

			s, err = src.ReadNullTerminatedAt(&pos)
			require.NoError(t, err)
			assert.Equal(t, "hello", s.String())
			assert.Equal(t, uint64(9), pos)

			_, err = src.ReadNullTerminatedAt(&pos)
			require.Error(t, err)
			assert.Equal(t, errors.KindNoNullTerminator, errors.KindOf(err))
			assert.Equal(t, uint64(9), pos)
		})
	}
}

func TestReadNullTerminatedMissing(t *testing.T) {
	for name, src := range sources(t, []byte("abc")) {
		t.Run(name, func(t *testing.T) {
			var pos uint64
			_, err := src.ReadNullTerminatedAt(&pos)
			assert.ErrorIs(t, err, errors.ErrNoNullTerminator)
			assert.Equal(t, uint64(0), pos)
		})
	}
}

func TestReadNullTerminatedInvalidUTF8(t *testing.T) {
	for name, src := range sources(t, []byte{'o', 'k', 0xC3, 0x00}) {
		t.Run(name, func(t *testing.T) {
			var pos uint64
			_, err := src.ReadNullTerminatedAt(&pos)
			require.Error(t, err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindInvalidUTF8, e.Kind)
			assert.Equal(t, uint64(0), e.Pos)
			assert.Equal(t, uint64(3), e.Length)

			var cause *errors.UTF8Error
			require.ErrorAs(t, err, &cause)
			assert.Equal(t, 2, cause.ValidUpTo)
			assert.Equal(t, uint64(0), pos)
		})
	}
}

func TestOwnership(t *testing.T) {
	data := []byte("abc\x00")

	b, err := Memory(data).ReadSliceAt(new(uint64), 2)
	require.NoError(t, err)
	assert.False(t, b.IsOwned())

	f := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	b, err = f.ReadSliceAt(new(uint64), 2)
	require.NoError(t, err)
	assert.True(t, b.IsOwned())

	f.ScanChunk = 1
	s, err := f.ReadNullTerminatedAt(new(uint64))
	require.NoError(t, err)
	assert.True(t, s.IsOwned())
	assert.Equal(t, "abc", s.String())
}

type failingReaderAt struct{}

func (failingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestFileIOFailure(t *testing.T) {
	f := NewReaderAt(failingReaderAt{}, 16)
	var pos uint64 = 4
	_, err := f.ReadSliceAt(&pos, 4)
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindIO, e.Kind)
	assert.Equal(t, uint64(4), e.Pos)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, uint64(4), pos)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, errors.ErrIO)
}

func TestWindowBounds(t *testing.T) {
	_, err := NewWindow(Memory("abc"), 2, 5)
	assert.ErrorIs(t, err, errors.ErrSourceTooSmall)

	w, err := NewWindow(Memory("xxab\x00cd"), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), w.Base())

	var pos uint64
	_, err = w.ReadNullTerminatedAt(&pos)
	assert.ErrorIs(t, err, errors.ErrNoNullTerminator, "terminator outside the window must not be seen")
}

type closeCounter struct {
	Memory
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestSharedRefCount(t *testing.T) {
	inner := &closeCounter{Memory: Memory("payload")}
	first := Share(inner)
	second, err := first.Clone()
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Refs())

	require.NoError(t, first.Close())
	require.NoError(t, first.Close())
	assert.Equal(t, 0, inner.closed)
	assert.Equal(t, int64(1), second.Refs())

	_, err = first.ReadSliceAt(new(uint64), 1)
	assert.ErrorIs(t, err, errors.ErrCustom)
	_, err = first.Clone()
	assert.Error(t, err)

	b, err := second.ReadSliceAt(new(uint64), 7)
	require.NoError(t, err)
	assert.Equal(t, "payload", b.String())

	require.NoError(t, second.Close())
	assert.Equal(t, 1, inner.closed)
}

func TestBufferWrites(t *testing.T) {
	buf := NewBuffer(2)
	pos := uint64(3)
	require.NoError(t, buf.WriteSliceAt(&pos, []byte{9, 9}))
	assert.Equal(t, []byte{0, 0, 0, 9, 9}, buf.Bytes())
	assert.Equal(t, uint64(5), pos)

	pos = 1
	require.NoError(t, buf.WriteSliceAt(&pos, []byte{7}))
	assert.Equal(t, []byte{0, 7, 0, 9, 9}, buf.Bytes())

	pos = math.MaxUint64
	err := buf.WriteSliceAt(&pos, []byte{1})
	assert.ErrorIs(t, err, errors.ErrPositionOverflow)
	assert.Equal(t, uint64(math.MaxUint64), pos)

	buf.Reset()
	assert.Equal(t, uint64(0), buf.Len())
	pos = 2
	require.NoError(t, buf.WriteSliceAt(&pos, []byte{5}))
	assert.Equal(t, []byte{0, 0, 5}, buf.Bytes(), "gap after reset must be zeroed")
}

// memoryModule is a WebAssembly module exporting one page of memory as "mem".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x07, 0x01, 0x03, 'm', 'e', 'm', 0x02, 0x00,
}

func newGuestMemory(t *testing.T) api.Memory {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Instantiate(ctx, memoryModule)
	require.NoError(t, err)
	mem := mod.ExportedMemory("mem")
	require.NotNil(t, mem)
	return mem
}

func TestWasmMemory(t *testing.T) {
	mem := newGuestMemory(t)
	require.True(t, mem.Write(100, []byte("guest\x00")))

	src := NewWasmMemory(mem)
	assert.Equal(t, uint64(65536), src.Len())

	pos := uint64(100)
	s, err := src.ReadNullTerminatedAt(&pos)
	require.NoError(t, err)
	assert.Equal(t, "guest", s.String())
	assert.False(t, s.IsOwned())
	assert.Equal(t, uint64(106), pos)

	wpos := uint64(200)
	require.NoError(t, src.WriteSliceAt(&wpos, []byte{1, 2, 3}))
	got, ok := mem.Read(200, 3)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)

	pos = 65534
	_, err = src.ReadSliceAt(&pos, 4)
	assert.ErrorIs(t, err, errors.ErrSourceTooSmall)
	assert.Equal(t, uint64(65534), pos)

	wpos = 65535
	err = src.WriteSliceAt(&wpos, []byte{1, 2})
	assert.ErrorIs(t, err, errors.ErrSourceTooSmall)
	assert.Equal(t, uint64(65535), wpos)
}

func TestConcurrentReaders(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	shared := Share(Memory(data))
	defer shared.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			h, err := shared.Clone()
			if err != nil {
				t.Error(err)
				return
			}
			defer h.Close()
			pos := start
			for pos+16 <= h.Len() {
				b, err := h.ReadSliceAt(&pos, 16)
				if err != nil {
					t.Error(err)
					return
				}
				if b.Bytes()[0] != byte(pos-16) {
					t.Errorf("read at %d returned %d", pos-16, b.Bytes()[0])
					return
				}
			}
		}(uint64(g))
	}
	wg.Wait()
}
