// Package errors provides structured error types for binpos.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Structural kinds are source_too_small, position_overflow and
// integer_conversion; content kinds are invalid_utf8, no_null_terminator and
// assertion_failure; io_failure reports the environment and custom is the
// escape hatch. Kind context annotates another error with a note.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindSourceTooSmall).
//		Pos(16).
//		Needed(8).
//		Available(3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SourceTooSmall(errors.PhaseDecode, 16, 8, 3)
//	err := errors.NoNullTerminator(errors.PhaseDecode, pos)
//
// Errors are never mutated once built. Callers add meaning while they
// propagate by wrapping:
//
//	if err != nil {
//		return errors.WithContextf(err, "entry %d name", i)
//	}
//
// Matching by kind skips context layers:
//
//	errors.KindOf(err) == errors.KindSourceTooSmall
//	stderrors.Is(err, errors.ErrSourceTooSmall)
//
// Stack capture is opt-in via SetCaptureStacks or BINPOS_BACKTRACE=1; %+v
// prints every layer with its stack.
package errors
