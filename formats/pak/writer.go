package pak

import (
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/codec"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/source"
)

// Writer builds an archive in memory.
type Writer struct {
	entries []Entry
	data    [][]byte
	names   map[string]struct{}
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{names: make(map[string]struct{})}
}

// Add appends a named payload. data is retained until Bytes is called.
func (w *Writer) Add(name string, data []byte) error {
	_, dup := w.names[name]
	res := assert.True(!dup, "duplicate entry %q", name).
		And(assert.Le(len(name), 0xFF, "name length")).
		And(assert.Le(uint64(len(data)), uint64(0xFFFFFFFF), "payload size"))
	if err := res.Err(); err != nil {
		return err
	}
	w.names[name] = struct{}{}
	w.entries = append(w.entries, Entry{Name: name, Size: uint32(len(data))})
	w.data = append(w.data, data)
	return nil
}

// Bytes encodes the archive.
func (w *Writer) Bytes() ([]byte, error) {
	if uint64(len(w.entries)) > 0xFFFFFFFF {
		return nil, errors.IntegerConversion(errors.PhaseEncode, len(w.entries), "u32")
	}

	offset := uint64(HeaderSize)
	for _, e := range w.entries {
		offset += e.encodedSize()
	}
	for i := range w.entries {
		w.entries[i].Offset = offset
		offset += uint64(w.entries[i].Size)
	}

	buf := source.NewBuffer(int(offset))
	var pos uint64
	h := Header{Version: Version1, Count: uint32(len(w.entries))}
	if err := codec.SerializeDefault(h, buf, &pos); err != nil {
		return nil, err
	}
	for _, e := range w.entries {
		if err := codec.SerializeDefault(e, buf, &pos); err != nil {
			return nil, err
		}
	}
	for _, d := range w.data {
		if err := codec.WriteFixed(buf, &pos, d); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
