package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/endian"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/formats/pak"
	"github.com/wippyai/binpos/formats/riff"
	"github.com/wippyai/binpos/source"
)

func sampleWAVE(t *testing.T) []byte {
	t.Helper()
	body, err := riff.Fmt{
		AudioFormat:   riff.FormatPCM,
		Channels:      1,
		SampleRate:    8000,
		ByteRate:      8000,
		BlockAlign:    1,
		BitsPerSample: 8,
	}.Bytes(endian.LittleEndian)
	require.NoError(t, err)

	b, err := riff.Encode(&riff.File{
		Header: riff.Header{ID: riff.IDRIFF, Form: riff.ID("WAVE")},
		Chunks: []riff.Chunk{
			{ID: riff.IDFmt, Data: binpos.Owned(body)},
			{ID: riff.IDData, Data: binpos.Owned([]byte{0x80, 0x81})},
		},
	})
	require.NoError(t, err)
	return b
}

func samplePAK(t *testing.T) []byte {
	t.Helper()
	w := pak.NewWriter()
	require.NoError(t, w.Add("a.txt", []byte("alpha")))
	require.NoError(t, w.Add("b.bin", []byte{1, 2}))
	b, err := w.Bytes()
	require.NoError(t, err)
	return b
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "riff", detectFormat(source.Memory(sampleWAVE(t))))
	assert.Equal(t, "pak", detectFormat(source.Memory(samplePAK(t))))
	assert.Equal(t, "hex", detectFormat(source.Memory("plain text")))
	assert.Equal(t, "hex", detectFormat(source.Memory("ab")))
}

func TestDescribeRIFF(t *testing.T) {
	rep, err := describe(source.Memory(sampleWAVE(t)), "riff", options{})
	require.NoError(t, err)
	out := rep.render(false)

	assert.Contains(t, out, "Chunks (2)")
	assert.Contains(t, out, "sample rate")
	assert.Contains(t, out, "8000 Hz")
	assert.Contains(t, out, "LittleEndian")
}

func TestDescribePAK(t *testing.T) {
	rep, err := describe(source.Memory(samplePAK(t)), "pak", options{})
	require.NoError(t, err)
	rep.title = "sample.pak"
	out := rep.render(false)

	assert.True(t, strings.HasPrefix(out, "pak sample.pak\n"))
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "5 bytes at")
}

func TestDescribeHex(t *testing.T) {
	rep, err := describe(source.Memory("0123456789abcdefXYZ"), "hex", options{offset: 16, length: 100})
	require.NoError(t, err)
	require.Len(t, rep.sections, 1)
	require.Len(t, rep.sections[0].rows, 1)
	assert.Contains(t, rep.sections[0].rows[0].value, "58 59 5a")
	assert.Contains(t, rep.sections[0].heading, "0x10-0x13")

	_, err = describe(source.Memory("abc"), "hex", options{offset: 10})
	assert.ErrorIs(t, err, errors.ErrSourceTooSmall)
}

func TestDescribeUnknown(t *testing.T) {
	_, err := describe(source.Memory("abc"), "zip", options{})
	assert.ErrorIs(t, err, errors.ErrCustom)
}

func TestDescribeCorruptRIFF(t *testing.T) {
	b := sampleWAVE(t)
	b[len(b)-6] = 0xFF // data chunk size

	_, err := describe(source.Memory(b), "riff", options{})
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestRealMainExitCodes(t *testing.T) {
	prev := errors.CaptureStacks()
	t.Cleanup(func() {
		errors.SetCaptureStacks(prev)
		installLoggers(zap.NewNop())
	})

	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, os.WriteFile(path, sampleWAVE(t), 0o600))

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"ok", []string{"-file", path}, 0, ""},
		{"no file", nil, 1, "Usage: binpos"},
		{"missing file", []string{"-file", filepath.Join(t.TempDir(), "absent")}, 1, "Error: open"},
		{"bad log level", []string{"-file", path, "-log-level", "loud"}, 1, "Error:"},
		{"bad flag", []string{"-nope"}, 2, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr strings.Builder
			assert.Equal(t, tt.code, realMain(tt.args, &stderr))
			if tt.stderr != "" {
				assert.Contains(t, stderr.String(), tt.stderr)
			}
		})
	}
}
