// Package pak reads and writes PAK1 archives: a small header, a table of
// named entries, then the entry payloads. All integers are little-endian.
//
//	"PAK1" | version u16 | count u32 | count x (name len8 | offset u64 | size u32) | data
//
// Offsets are absolute. An open Archive hands out members as windows over a
// reference-counted handle, so members stay readable after the Archive
// itself is closed.
package pak

import (
	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/codec"
	"github.com/wippyai/binpos/endian"
	"github.com/wippyai/binpos/errors"
)

// Version1 is the only version written and accepted.
const Version1 uint16 = 1

// HeaderSize is the encoded size of Header.
const HeaderSize = 10

var (
	magic = []byte("PAK1")
	order = endian.LittleEndian
)

// Header is the archive header.
type Header struct {
	Version uint16
	Count   uint32
}

// DeserializeAt decodes and validates a header.
func (h *Header) DeserializeAt(src binpos.Source, pos *uint64, _ codec.NoCtx) (err error) {
	defer codec.RestoreOnError(pos, *pos, &err)
	if _, err = codec.Deserialize[codec.Magic](src, pos, magic); err != nil {
		return err
	}
	if h.Version, err = codec.ReadU16(src, pos, order); err != nil {
		return err
	}
	if err = assert.Eq(h.Version, Version1, "pak version").Err(); err != nil {
		return err
	}
	h.Count, err = codec.ReadU32(src, pos, order)
	return err
}

// SerializeAt encodes a header.
func (h Header) SerializeAt(dst binpos.Sink, pos *uint64, _ codec.NoCtx) error {
	if err := codec.Serialize(codec.Magic{}, dst, pos, magic); err != nil {
		return err
	}
	if err := codec.WriteU16(dst, pos, order, h.Version); err != nil {
		return err
	}
	return codec.WriteU32(dst, pos, order, h.Count)
}

// Entry is one row of the entry table.
type Entry struct {
	Name   string
	Offset uint64
	Size   uint32
}

// DeserializeAt decodes an entry.
func (e *Entry) DeserializeAt(src binpos.Source, pos *uint64, _ codec.NoCtx) (err error) {
	defer codec.RestoreOnError(pos, *pos, &err)
	name, err := codec.ReadLenString(src, pos, codec.Len8)
	if err != nil {
		return errors.WithContext(err, "entry name")
	}
	e.Name = name.String()
	if e.Offset, err = codec.ReadU64(src, pos, order); err != nil {
		return err
	}
	e.Size, err = codec.ReadU32(src, pos, order)
	return err
}

// SerializeAt encodes an entry.
func (e Entry) SerializeAt(dst binpos.Sink, pos *uint64, _ codec.NoCtx) error {
	if err := codec.WriteLenString(dst, pos, codec.Len8, e.Name); err != nil {
		return errors.WithContextf(err, "entry name %q", e.Name)
	}
	if err := codec.WriteU64(dst, pos, order, e.Offset); err != nil {
		return err
	}
	return codec.WriteU32(dst, pos, order, e.Size)
}

// encodedSize returns the size of the entry in the table.
func (e Entry) encodedSize() uint64 {
	return 1 + uint64(len(e.Name)) + 8 + 4
}
