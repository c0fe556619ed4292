package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/codec"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/formats/pak"
	"github.com/wippyai/binpos/formats/riff"
)

type report struct {
	title    string
	format   string
	sections []section
}

type section struct {
	heading string
	rows    []row
}

type row struct {
	key   string
	value string
}

func (s *section) add(key string, format string, args ...any) {
	s.rows = append(s.rows, row{key: key, value: fmt.Sprintf(format, args...)})
}

func detectFormat(src binpos.Source) string {
	var pos uint64
	b, err := src.ReadSliceAt(&pos, 4)
	if err != nil {
		return "hex"
	}
	switch {
	case bytes.Equal(b.Bytes(), riff.IDRIFF[:]), bytes.Equal(b.Bytes(), riff.IDRIFX[:]):
		return "riff"
	case string(b.Bytes()) == "PAK1":
		return "pak"
	}
	return "hex"
}

func describe(src binpos.Source, format string, opts options) (*report, error) {
	switch format {
	case "riff":
		return describeRIFF(src, opts.lax)
	case "pak":
		return describePAK(src)
	case "hex":
		return describeHex(src, opts.offset, opts.length)
	}
	return nil, errors.Custom(errors.PhaseDecode, "unknown format %q", format)
}

func describeRIFF(src binpos.Source, lax bool) (*report, error) {
	f, err := riff.Decode(src, lax)
	if err != nil {
		return nil, err
	}
	rep := &report{format: "riff"}

	hdr := section{heading: "Header"}
	hdr.add("id", "%s", f.Header.ID)
	hdr.add("form", "%s", f.Header.Form)
	hdr.add("size", "%d", f.Header.Size)
	hdr.add("order", "%s", f.Header.Order())
	rep.sections = append(rep.sections, hdr)

	chunks := section{heading: fmt.Sprintf("Chunks (%d)", len(f.Chunks))}
	for _, c := range f.Chunks {
		chunks.add(c.ID.String(), "%d bytes", c.Size)
	}
	rep.sections = append(rep.sections, chunks)

	if f.Header.Form == riff.ID("WAVE") {
		wf, err := f.Fmt()
		if err != nil {
			return nil, err
		}
		s := section{heading: "Format"}
		s.add("audio format", "%#04x", wf.AudioFormat)
		s.add("channels", "%d", wf.Channels)
		s.add("sample rate", "%d Hz", wf.SampleRate)
		s.add("byte rate", "%d", wf.ByteRate)
		s.add("block align", "%d", wf.BlockAlign)
		s.add("bits per sample", "%d", wf.BitsPerSample)
		rep.sections = append(rep.sections, s)
	}
	return rep, nil
}

func describePAK(src binpos.Source) (*report, error) {
	// hide io.Closer: the caller owns src
	a, err := pak.Open(struct{ binpos.Source }{src})
	if err != nil {
		return nil, err
	}
	defer a.Close()

	rep := &report{format: "pak"}
	hdr := section{heading: "Header"}
	hdr.add("version", "%d", a.Header.Version)
	hdr.add("entries", "%d", a.Header.Count)
	rep.sections = append(rep.sections, hdr)

	entries := section{heading: "Entries"}
	for _, e := range a.Entries {
		entries.add(e.Name, "%d bytes at %#x", e.Size, e.Offset)
	}
	rep.sections = append(rep.sections, entries)
	return rep, nil
}

func describeHex(src binpos.Source, offset, length uint64) (*report, error) {
	if offset > src.Len() {
		return nil, errors.SourceTooSmall(errors.PhaseDecode, offset, 1, 0)
	}
	length = min(length, src.Len()-offset)
	pos := offset
	b, err := codec.ReadSliceN(src, &pos, length)
	if err != nil {
		return nil, err
	}

	rep := &report{format: "hex"}
	s := section{heading: fmt.Sprintf("Bytes %#x-%#x of %d", offset, offset+length, src.Len())}
	for _, line := range strings.Split(strings.TrimRight(hex.Dump(b.Bytes()), "\n"), "\n") {
		if line == "" {
			continue
		}
		s.rows = append(s.rows, row{value: line})
	}
	rep.sections = append(rep.sections, s)
	return rep, nil
}

func (r *report) render(styled bool) string {
	style := func(st styleFunc, s string) string {
		if styled {
			return st(s)
		}
		return s
	}

	var b strings.Builder
	b.WriteString(style(titleStyle.Render, r.format))
	b.WriteString(" ")
	b.WriteString(r.title)
	b.WriteString("\n")

	for _, s := range r.sections {
		b.WriteString("\n")
		b.WriteString(style(headingStyle.Render, s.heading))
		b.WriteString("\n")
		width := 0
		for _, kv := range s.rows {
			width = max(width, len(kv.key))
		}
		for _, kv := range s.rows {
			b.WriteString("  ")
			if kv.key != "" {
				b.WriteString(style(keyStyle.Render, fmt.Sprintf("%-*s", width, kv.key)))
				b.WriteString("  ")
			}
			b.WriteString(style(valueStyle.Render, kv.value))
			b.WriteString("\n")
		}
	}
	return b.String()
}
