package source

import (
	"io"
	"os"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/checked"
)

// File is a Source over an io.ReaderAt of known size. Every read allocates
// an owned buffer; no view survives the underlying read call.
type File struct {
	r      io.ReaderAt
	closer io.Closer
	size   uint64

	// ScanChunk is the read size used by ReadNullTerminatedAt. Zero means
	// DefaultScanChunk.
	ScanChunk int
}

// Open opens the named file for positioned reads. The caller must Close it.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(0, err)
	}
	src, err := NewFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewFile wraps an open file. The size is taken once; later growth of the
// file is not observed. Closing the returned File does not close f.
func NewFile(f *os.File) (*File, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, errors.IO(0, err)
	}
	return NewReaderAt(f, st.Size()), nil
}

// NewReaderAt wraps any io.ReaderAt holding size bytes.
func NewReaderAt(r io.ReaderAt, size int64) *File {
	if size < 0 {
		size = 0
	}
	return &File{r: r, size: uint64(size)}
}

// Len returns the size of the file.
func (f *File) Len() uint64 {
	return f.size
}

// ReadSliceAt reads n bytes at *pos into a new buffer.
func (f *File) ReadSliceAt(pos *uint64, n uint64) (binpos.Bytes, error) {
	end, err := checked.Span(errors.PhaseDecode, *pos, n, f.size)
	if err != nil {
		return binpos.Bytes{}, err
	}
	buf := make([]byte, n)
	if n > 0 {
		read, rerr := f.r.ReadAt(buf, int64(*pos))
		if read < len(buf) {
			if rerr == nil {
				rerr = io.ErrUnexpectedEOF
			}
			return binpos.Bytes{}, errors.IO(*pos, rerr)
		}
	}
	*pos = end
	return binpos.Owned(buf), nil
}

// ReadNullTerminatedAt scans forward in ScanChunk-sized reads.
func (f *File) ReadNullTerminatedAt(pos *uint64) (binpos.Bytes, error) {
	return ScanNullTerminated(f, pos, f.ScanChunk)
}

// Close closes the file when the File was created by Open.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}
