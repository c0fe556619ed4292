// Package assert provides recoverable invariant checks for format decoders.
//
// A check returns a Result instead of panicking. A failed Result carries an
// assertion_failure error recording the caller's file:line, both operands
// and an optional formatted message:
//
//	if err := assert.Eq(h.Version, 2, "pak version").Err(); err != nil {
//		return err
//	}
//
// Results combine with And and Or, and Lax downgrades a failure to a
// logged warning for readers that tolerate sloppy writers.
package assert

import (
	"cmp"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/binpos/errors"
)

// Result is the outcome of a check. The zero value is a success.
type Result struct {
	err *errors.Error
}

// Eq checks left == right.
func Eq[T comparable](left, right T, msgAndArgs ...any) Result {
	if left == right {
		return Result{}
	}
	return failure(fmt.Sprintf("%v == %v", left, right), []any{left, right}, msgAndArgs)
}

// Ne checks left != right.
func Ne[T comparable](left, right T, msgAndArgs ...any) Result {
	if left != right {
		return Result{}
	}
	return failure(fmt.Sprintf("%v != %v", left, right), []any{left, right}, msgAndArgs)
}

// Le checks left <= right.
func Le[T cmp.Ordered](left, right T, msgAndArgs ...any) Result {
	if cmp.Compare(left, right) <= 0 {
		return Result{}
	}
	return failure(fmt.Sprintf("%v <= %v", left, right), []any{left, right}, msgAndArgs)
}

// Ge checks left >= right.
func Ge[T cmp.Ordered](left, right T, msgAndArgs ...any) Result {
	if cmp.Compare(left, right) >= 0 {
		return Result{}
	}
	return failure(fmt.Sprintf("%v >= %v", left, right), []any{left, right}, msgAndArgs)
}

// Lt checks left < right.
func Lt[T cmp.Ordered](left, right T, msgAndArgs ...any) Result {
	if cmp.Compare(left, right) < 0 {
		return Result{}
	}
	return failure(fmt.Sprintf("%v < %v", left, right), []any{left, right}, msgAndArgs)
}

// Gt checks left > right.
func Gt[T cmp.Ordered](left, right T, msgAndArgs ...any) Result {
	if cmp.Compare(left, right) > 0 {
		return Result{}
	}
	return failure(fmt.Sprintf("%v > %v", left, right), []any{left, right}, msgAndArgs)
}

// OneOf checks that v is a member of set.
func OneOf[T comparable](v T, set []T, msgAndArgs ...any) Result {
	if slices.Contains(set, v) {
		return Result{}
	}
	return failure(fmt.Sprintf("%v in %v", v, set), []any{v, set}, msgAndArgs)
}

// NoneOf checks that v is not a member of set.
func NoneOf[T comparable](v T, set []T, msgAndArgs ...any) Result {
	if !slices.Contains(set, v) {
		return Result{}
	}
	return failure(fmt.Sprintf("%v not in %v", v, set), []any{v, set}, msgAndArgs)
}

// True checks an arbitrary condition.
func True(cond bool, msgAndArgs ...any) Result {
	if cond {
		return Result{}
	}
	return failure("condition", nil, msgAndArgs)
}

// OK reports whether the check passed.
func (r Result) OK() bool {
	return r.err == nil
}

// Err returns the failure as an error, or nil.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Failure returns the structured failure, or nil.
func (r Result) Failure() *errors.Error {
	return r.err
}

// And succeeds only when both r and other succeed. When both fail the
// result carries both failures as its cause.
func (r Result) And(other Result) Result {
	switch {
	case r.err == nil:
		return other
	case other.err == nil:
		return r
	}
	return Result{err: combine(r.err.Location, "both checks failed", r.err, other.err)}
}

// Or succeeds when either r or other succeeds.
func (r Result) Or(other Result) Result {
	if r.err == nil || other.err == nil {
		return Result{}
	}
	return Result{err: combine(r.err.Location, "neither check held", r.err, other.err)}
}

// Lax turns a failure into a logged warning when lax is true.
func (r Result) Lax(lax bool) Result {
	if !lax || r.err == nil {
		return r
	}
	Logger().Warn("assertion relaxed",
		zap.String("location", r.err.Location),
		zap.String("check", r.err.Detail),
	)
	return Result{}
}

// Context wraps a failure with a note.
func (r Result) Context(note string) Result {
	if r.err == nil {
		return r
	}
	return Result{err: r.err.WithContext(note)}
}

func combine(location, description string, first, second *errors.Error) *errors.Error {
	return errors.New(errors.PhaseValidate, errors.KindAssertion).
		Location(location).
		Detail("%s", description).
		Cause(multierr.Combine(first, second)).
		Build()
}

func failure(check string, operands []any, msgAndArgs []any) Result {
	desc := check
	if msg := message(msgAndArgs); msg != "" {
		desc += ": " + msg
	}
	err := errors.New(errors.PhaseValidate, errors.KindAssertion).
		Location(caller(3)).
		Detail("%s", desc).
		Value(operands).
		Build()
	return Result{err: err}
}

// caller returns file:line skip frames above itself.
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

func message(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	format, ok := msgAndArgs[0].(string)
	if !ok {
		return fmt.Sprint(msgAndArgs...)
	}
	if len(msgAndArgs) == 1 {
		return format
	}
	return fmt.Sprintf(format, msgAndArgs[1:]...)
}
