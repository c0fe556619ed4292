//go:build !unix

package source

import (
	"os"

	"github.com/wippyai/binpos/errors"
)

// Mapped holds a whole file in memory on platforms without mmap support.
type Mapped struct {
	Memory
}

// OpenMapped reads the named file into memory.
func OpenMapped(path string) (*Mapped, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(0, err)
	}
	return &Mapped{Memory: Memory(data)}, nil
}

// Close releases the data.
func (m *Mapped) Close() error {
	m.Memory = nil
	return nil
}
