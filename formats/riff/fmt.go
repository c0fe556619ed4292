package riff

import (
	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/codec"
	"github.com/wippyai/binpos/endian"
	"github.com/wippyai/binpos/errors"
)

// WAVE sample formats.
const (
	FormatPCM        uint16 = 0x0001
	FormatIEEEFloat  uint16 = 0x0003
	FormatExtensible uint16 = 0xFFFE
)

// FmtSize is the size of the fields decoded by Fmt. Longer chunks carry an
// extension that is ignored.
const FmtSize = 16

// Fmt is the body of a WAVE "fmt " chunk.
type Fmt struct {
	SampleRate    uint32
	ByteRate      uint32
	AudioFormat   uint16
	Channels      uint16
	BlockAlign    uint16
	BitsPerSample uint16
}

// DeserializeAt decodes and validates the fields.
func (f *Fmt) DeserializeAt(src binpos.Source, pos *uint64, order endian.ByteOrder) (err error) {
	defer codec.RestoreOnError(pos, *pos, &err)
	if f.AudioFormat, err = codec.ReadU16(src, pos, order); err != nil {
		return err
	}
	if f.Channels, err = codec.ReadU16(src, pos, order); err != nil {
		return err
	}
	if f.SampleRate, err = codec.ReadU32(src, pos, order); err != nil {
		return err
	}
	if f.ByteRate, err = codec.ReadU32(src, pos, order); err != nil {
		return err
	}
	if f.BlockAlign, err = codec.ReadU16(src, pos, order); err != nil {
		return err
	}
	if f.BitsPerSample, err = codec.ReadU16(src, pos, order); err != nil {
		return err
	}
	return errors.WithContext(f.Validate().Err(), "fmt chunk")
}

// Validate checks the relations between fields.
func (f *Fmt) Validate() assert.Result {
	align := uint32(f.Channels) * uint32(f.BitsPerSample) / 8
	return assert.OneOf(f.AudioFormat, []uint16{FormatPCM, FormatIEEEFloat, FormatExtensible}, "audio format").
		And(assert.Ge(f.Channels, 1, "channels")).
		And(assert.Eq(uint32(f.BlockAlign), align, "block align")).
		And(assert.Eq(uint64(f.ByteRate), uint64(f.SampleRate)*uint64(f.BlockAlign), "byte rate"))
}

// SerializeAt encodes the fields.
func (f Fmt) SerializeAt(dst binpos.Sink, pos *uint64, order endian.ByteOrder) error {
	if err := f.Validate().Err(); err != nil {
		return err
	}
	if err := codec.WriteU16(dst, pos, order, f.AudioFormat); err != nil {
		return err
	}
	if err := codec.WriteU16(dst, pos, order, f.Channels); err != nil {
		return err
	}
	if err := codec.WriteU32(dst, pos, order, f.SampleRate); err != nil {
		return err
	}
	if err := codec.WriteU32(dst, pos, order, f.ByteRate); err != nil {
		return err
	}
	if err := codec.WriteU16(dst, pos, order, f.BlockAlign); err != nil {
		return err
	}
	return codec.WriteU16(dst, pos, order, f.BitsPerSample)
}

// Bytes encodes f as a chunk payload.
func (f Fmt) Bytes(order endian.ByteOrder) ([]byte, error) {
	return codec.Marshal(f, order)
}
