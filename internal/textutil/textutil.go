// Package textutil validates and repairs UTF-8 spans read from sources.
package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/binpos/errors"
)

// Validate returns nil when b is valid UTF-8, otherwise a description of
// the first bad sequence.
func Validate(b []byte) *errors.UTF8Error {
	if utf8.Valid(b) {
		return nil
	}
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(b[i:]) && startsSequence(b[i:]) {
				return &errors.UTF8Error{ValidUpTo: i}
			}
			return &errors.UTF8Error{ValidUpTo: i, ErrorLen: 1}
		}
		i += size
	}
	return nil
}

// startsSequence reports whether the truncated tail b could still become a
// valid encoding with more bytes.
func startsSequence(b []byte) bool {
	c := b[0]
	if c < 0xC2 || c > 0xF4 {
		return false
	}
	for _, cont := range b[1:] {
		if cont&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

// Repair replaces every invalid byte with U+FFFD. The second result is false
// when b was already valid, in which case b itself is returned.
func Repair(b []byte) ([]byte, bool) {
	if utf8.Valid(b) {
		return b, false
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return []byte(strings.ToValidUTF8(string(b), string(utf8.RuneError))), true
	}
	return out, true
}
