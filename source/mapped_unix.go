//go:build unix

package source

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/wippyai/binpos/errors"
)

// Mapped is a read-only memory map of a file. Reads return views into the
// mapping, which become invalid after Close.
type Mapped struct {
	Memory
	mapping []byte
}

// OpenMapped maps the named file read-only.
func OpenMapped(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(0, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.IO(0, err)
	}
	size := st.Size()
	if size == 0 {
		return &Mapped{Memory: Memory{}}, nil
	}
	if int64(int(size)) != size {
		return nil, errors.IntegerConversion(errors.PhaseIO, size, "int")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.IO(0, err)
	}
	return &Mapped{Memory: Memory(data), mapping: data}, nil
}

// Close unmaps the file.
func (m *Mapped) Close() error {
	if m.mapping == nil {
		return nil
	}
	err := unix.Munmap(m.mapping)
	m.mapping = nil
	m.Memory = nil
	if err != nil {
		return errors.IO(0, err)
	}
	return nil
}
