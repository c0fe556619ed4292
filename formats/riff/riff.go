// Package riff reads and writes RIFF containers (WAVE, AVI, WebP) on top of
// the codec package. RIFF files are little-endian; RIFX files use the same
// layout in big-endian.
package riff

import (
	"go.uber.org/zap"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/codec"
	"github.com/wippyai/binpos/endian"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/source"
)

// FourCC is a four-character chunk or form identifier.
type FourCC [4]byte

// String returns the identifier as text.
func (f FourCC) String() string {
	return string(f[:])
}

// ID returns s as a FourCC, padding with spaces.
func ID(s string) FourCC {
	f := FourCC{' ', ' ', ' ', ' '}
	copy(f[:], s)
	return f
}

var (
	IDRIFF = ID("RIFF")
	IDRIFX = ID("RIFX")
	IDFmt  = ID("fmt ")
	IDData = ID("data")
)

// HeaderSize is the size of the file header.
const HeaderSize = 12

// Header is the 12-byte file header.
type Header struct {
	ID   FourCC
	Size uint32
	Form FourCC
}

// Order returns the byte order selected by the header ID.
func (h *Header) Order() endian.ByteOrder {
	if h.ID == IDRIFX {
		return endian.BigEndian
	}
	return endian.LittleEndian
}

// DeserializeAt decodes a header.
func (h *Header) DeserializeAt(src binpos.Source, pos *uint64, _ codec.NoCtx) (err error) {
	defer codec.RestoreOnError(pos, *pos, &err)
	start := *pos
	if err = codec.ReadFixed(src, pos, h.ID[:]); err != nil {
		return err
	}
	if err = assert.OneOf(h.ID, []FourCC{IDRIFF, IDRIFX}, "file id at offset %d", start).Err(); err != nil {
		return err
	}
	if h.Size, err = codec.ReadU32(src, pos, h.Order()); err != nil {
		return err
	}
	if err = assert.Ge(h.Size, 4, "riff size").Err(); err != nil {
		return err
	}
	return codec.ReadFixed(src, pos, h.Form[:])
}

// SerializeAt encodes a header.
func (h Header) SerializeAt(dst binpos.Sink, pos *uint64, _ codec.NoCtx) error {
	if err := codec.WriteFixed(dst, pos, h.ID[:]); err != nil {
		return err
	}
	if err := codec.WriteU32(dst, pos, h.Order(), h.Size); err != nil {
		return err
	}
	return codec.WriteFixed(dst, pos, h.Form[:])
}

// Chunk is one chunk of the body. Data borrows from the source when the
// source supports it.
type Chunk struct {
	Data binpos.Bytes
	ID   FourCC
	Size uint32
}

// DeserializeAt decodes a chunk and skips the pad byte after an odd-sized
// payload. A missing final pad byte is tolerated.
func (c *Chunk) DeserializeAt(src binpos.Source, pos *uint64, order endian.ByteOrder) (err error) {
	defer codec.RestoreOnError(pos, *pos, &err)
	if err = codec.ReadFixed(src, pos, c.ID[:]); err != nil {
		return err
	}
	if c.Size, err = codec.ReadU32(src, pos, order); err != nil {
		return err
	}
	if c.Data, err = codec.ReadSliceN(src, pos, uint64(c.Size)); err != nil {
		return errors.WithContextf(err, "chunk %q payload", c.ID.String())
	}
	if c.Size%2 == 1 && *pos < src.Len() {
		*pos++
	}
	return nil
}

// SerializeAt encodes a chunk with its pad byte. Size is taken from Data.
func (c Chunk) SerializeAt(dst binpos.Sink, pos *uint64, order endian.ByteOrder) error {
	n := uint64(c.Data.Len())
	if n > 0xFFFFFFFF {
		return errors.IntegerConversion(errors.PhaseEncode, n, "u32")
	}
	if err := codec.WriteFixed(dst, pos, c.ID[:]); err != nil {
		return err
	}
	if err := codec.WriteU32(dst, pos, order, uint32(n)); err != nil {
		return err
	}
	if err := codec.WriteFixed(dst, pos, c.Data.Bytes()); err != nil {
		return err
	}
	if n%2 == 1 {
		return codec.WriteU8(dst, pos, 0)
	}
	return nil
}

// encodedSize returns the size of the chunk on disk including its pad byte.
func (c Chunk) encodedSize() uint64 {
	n := uint64(c.Data.Len())
	return 8 + n + n%2
}

// ReadChunks decodes chunks until the source ends. Fewer than four bytes
// left where a chunk ID would start means the body is finished; any other
// failure is corruption and is returned with the chunks read so far.
func ReadChunks(src binpos.Source, pos *uint64, order endian.ByteOrder) ([]Chunk, error) {
	var chunks []Chunk
	for {
		c, err := codec.Deserialize[Chunk](src, pos, order)
		if err == nil {
			chunks = append(chunks, c)
			continue
		}
		peek := *pos
		if _, perr := src.ReadSliceAt(&peek, 4); errors.IsKind(perr, errors.KindSourceTooSmall) {
			if n := src.Len() - min(*pos, src.Len()); n > 0 {
				Logger().Debug("ignoring trailing bytes after last chunk",
					zap.Uint64("pos", *pos),
					zap.Uint64("bytes", n))
			}
			return chunks, nil
		}
		return chunks, errors.WithContextf(err, "chunk %d at offset %d", len(chunks), *pos)
	}
}

// File is a decoded RIFF file.
type File struct {
	Header Header
	Chunks []Chunk
}

// Decode reads a whole RIFF file. Chunks are read from a window limited to
// the size declared in the header. A header claiming more bytes than the
// source holds is an error unless lax is set, in which case the window is
// clamped and a warning is logged.
func Decode(src binpos.Source, lax bool) (*File, error) {
	var pos uint64
	h, err := codec.DeserializeDefault[Header](src, &pos)
	if err != nil {
		return nil, errors.WithContext(err, "riff header")
	}

	body := uint64(h.Size) - 4
	avail := src.Len() - pos
	if err := assert.Le(body, avail, "declared riff body").Lax(lax).Err(); err != nil {
		return nil, err
	}
	body = min(body, avail)

	win, err := source.NewWindow(src, pos, body)
	if err != nil {
		return nil, err
	}
	var bodyPos uint64
	chunks, err := ReadChunks(win, &bodyPos, h.Order())
	if err != nil {
		return nil, err
	}
	return &File{Header: h, Chunks: chunks}, nil
}

// Find returns the first chunk with the given ID.
func (f *File) Find(id FourCC) (Chunk, bool) {
	for _, c := range f.Chunks {
		if c.ID == id {
			return c, true
		}
	}
	return Chunk{}, false
}

// Fmt decodes the WAVE "fmt " chunk.
func (f *File) Fmt() (Fmt, error) {
	c, ok := f.Find(IDFmt)
	if !ok {
		return Fmt{}, errors.Custom(errors.PhaseDecode, "no %q chunk", IDFmt.String())
	}
	var pos uint64
	return codec.Deserialize[Fmt](source.Memory(c.Data.Bytes()), &pos, f.Header.Order())
}

// Encode writes f, computing the header size from the chunks.
func Encode(f *File) ([]byte, error) {
	size := uint64(4)
	for _, c := range f.Chunks {
		size += c.encodedSize()
	}
	if size > 0xFFFFFFFF {
		return nil, errors.IntegerConversion(errors.PhaseEncode, size, "u32")
	}
	h := f.Header
	if h.ID != IDRIFX {
		h.ID = IDRIFF
	}
	h.Size = uint32(size)

	buf := source.NewBuffer(int(size) + 8)
	var pos uint64
	if err := codec.SerializeDefault(h, buf, &pos); err != nil {
		return nil, err
	}
	for i, c := range f.Chunks {
		if err := codec.Serialize(c, buf, &pos, h.Order()); err != nil {
			return nil, errors.WithContextf(err, "chunk %d", i)
		}
	}
	return buf.Bytes(), nil
}
