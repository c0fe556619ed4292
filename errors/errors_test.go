package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "source too small",
			err:      SourceTooSmall(PhaseDecode, 0, 8, 3),
			contains: []string{"[decode]", "source_too_small", "offset 0", "need 8", "3 available"},
		},
		{
			name:     "position overflow",
			err:      PositionOverflow(PhaseDecode, 1<<64-3, 10),
			contains: []string{"position_overflow", "18446744073709551613", "by 10"},
		},
		{
			name:     "invalid utf8 with cause",
			err:      InvalidUTF8(PhaseDecode, 4, 1, &UTF8Error{ValidUpTo: 0}),
			contains: []string{"invalid_utf8", "offset 4", "1 byte span", "caused by", "incomplete utf-8"},
		},
		{
			name:     "no terminator",
			err:      NoNullTerminator(PhaseDecode, 7),
			contains: []string{"no_null_terminator", "offset 7"},
		},
		{
			name:     "io",
			err:      IO(12, io.ErrUnexpectedEOF),
			contains: []string{"[io]", "io_failure", "offset 12", "unexpected EOF"},
		},
		{
			name:     "assertion",
			err:      Assertion("riff.go:42", "left == right (3 vs 4)"),
			contains: []string{"[validate]", "assertion_failure", "riff.go:42", "3 vs 4"},
		},
		{
			name:     "custom",
			err:      Custom(PhaseEncode, "table has %d slots", 9),
			contains: []string{"[encode]", "custom", "table has 9 slots"},
		},
		{
			name:     "integer conversion",
			err:      IntegerConversion(PhaseEncode, 300, "u8"),
			contains: []string{"integer_conversion", "300", "u8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := IO(0, cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := SourceTooSmall(PhaseDecode, 0, 4, 2)

	if !errors.Is(err, ErrSourceTooSmall) {
		t.Error("errors.Is should match kind sentinel")
	}
	if errors.Is(err, ErrPositionOverflow) {
		t.Error("errors.Is should not match a different kind")
	}
	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindSourceTooSmall}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindSourceTooSmall}) {
		t.Error("Is should not match a different phase")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindSourceTooSmall).
		Pos(16).
		Needed(8).
		Available(3).
		Value(42).
		Cause(cause).
		Detail("header of %s", "chunk").
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindSourceTooSmall {
		t.Errorf("Kind = %v, want %v", err.Kind, KindSourceTooSmall)
	}
	if err.Pos != 16 || err.Needed != 8 || err.Available != 3 {
		t.Errorf("Pos/Needed/Available = %d/%d/%d", err.Pos, err.Needed, err.Available)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "header of chunk" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestWithContext(t *testing.T) {
	base := NoNullTerminator(PhaseDecode, 3)
	err := WithContext(base, "reading name")
	err = WithContextf(err, "entry %d", 2)

	if got := err.Error(); got != "entry 2: reading name: [decode] no_null_terminator at offset 3" {
		t.Errorf("Error() = %q", got)
	}
	if KindOf(err) != KindNoNullTerminator {
		t.Errorf("KindOf = %q, want %q", KindOf(err), KindNoNullTerminator)
	}
	if !IsKind(err, KindNoNullTerminator) {
		t.Error("IsKind should see through context")
	}
	if !errors.Is(err, ErrNoNullTerminator) {
		t.Error("errors.Is should see through context")
	}
	if Root(err) != error(base) {
		t.Errorf("Root = %v, want base", Root(err))
	}
	notes := Notes(err)
	if len(notes) != 2 || notes[0] != "entry 2" || notes[1] != "reading name" {
		t.Errorf("Notes = %v", notes)
	}
	if len(Chain(err)) != 3 {
		t.Errorf("Chain length = %d, want 3", len(Chain(err)))
	}

	var e *Error
	if !errors.As(err, &e) || e.Kind != KindContext || e.Phase != PhaseDecode {
		t.Errorf("outer layer = %+v", e)
	}
}

func TestWithContextNil(t *testing.T) {
	if WithContext(nil, "x") != nil {
		t.Error("WithContext(nil) should be nil")
	}
	called := false
	if WithContextFn(nil, func() string { called = true; return "x" }) != nil {
		t.Error("WithContextFn(nil) should be nil")
	}
	if called {
		t.Error("WithContextFn must not evaluate the note for a nil error")
	}
	var e *Error
	if e.WithContext("x") != nil {
		t.Error("(*Error)(nil).WithContext should be nil")
	}
}

func TestMethodContext(t *testing.T) {
	err := Custom(PhaseDecode, "bad").WithContextFn(func() string { return "outer" })
	if err.Kind != KindContext || err.Detail != "outer" {
		t.Errorf("unexpected wrapper %+v", err)
	}
	if KindOf(err) != KindCustom {
		t.Errorf("KindOf = %q", KindOf(err))
	}
}

func TestKindOfForeign(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Error("foreign errors have no kind")
	}
	wrapped := fmt.Errorf("outer: %w", SourceTooSmall(PhaseDecode, 0, 1, 0))
	if KindOf(wrapped) != KindSourceTooSmall {
		t.Errorf("KindOf through fmt wrap = %q", KindOf(wrapped))
	}
	if KindOf(nil) != "" {
		t.Error("KindOf(nil) should be empty")
	}
}

func TestStackCapture(t *testing.T) {
	prev := CaptureStacks()
	defer SetCaptureStacks(prev)

	SetCaptureStacks(false)
	if st := Custom(PhaseDecode, "x").StackTrace(); st != nil {
		t.Errorf("expected no stack, got %d frames", len(st))
	}

	SetCaptureStacks(true)
	err := Custom(PhaseDecode, "x")
	st := err.StackTrace()
	if len(st) == 0 {
		t.Fatal("expected captured stack")
	}
	verbose := fmt.Sprintf("%+v", WithContext(err, "note"))
	if !strings.Contains(verbose, "caused by: [decode] custom: x") {
		t.Errorf("verbose format missing chain: %s", verbose)
	}
	if !strings.Contains(verbose, "TestStackCapture") {
		t.Errorf("verbose format missing stack: %s", verbose)
	}
}

func TestUTF8Error(t *testing.T) {
	e := &UTF8Error{ValidUpTo: 2, ErrorLen: 1}
	if !strings.Contains(e.Error(), "index 2") {
		t.Errorf("Error() = %q", e.Error())
	}
}
