package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // bytes to value
	PhaseEncode   Phase = "encode"   // value to bytes
	PhaseValidate Phase = "validate" // format invariants
	PhaseIO       Phase = "io"       // underlying source access
)

// Kind categorizes the error
type Kind string

const (
	KindSourceTooSmall    Kind = "source_too_small"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindNoNullTerminator  Kind = "no_null_terminator"
	KindIO                Kind = "io_failure"
	KindPositionOverflow  Kind = "position_overflow"
	KindIntegerConversion Kind = "integer_conversion"
	KindAssertion         Kind = "assertion_failure"
	KindCustom            Kind = "custom"
	KindContext           Kind = "context"
)

// Sentinels for errors.Is. Only Kind is compared.
var (
	ErrSourceTooSmall    = &Error{Kind: KindSourceTooSmall}
	ErrInvalidUTF8       = &Error{Kind: KindInvalidUTF8}
	ErrNoNullTerminator  = &Error{Kind: KindNoNullTerminator}
	ErrIO                = &Error{Kind: KindIO}
	ErrPositionOverflow  = &Error{Kind: KindPositionOverflow}
	ErrIntegerConversion = &Error{Kind: KindIntegerConversion}
	ErrAssertion         = &Error{Kind: KindAssertion}
	ErrCustom            = &Error{Kind: KindCustom}
)

// Error is the structured error type used throughout binpos.
//
// Which numeric fields are meaningful depends on Kind:
//
//	source_too_small    Pos, Needed, Available
//	position_overflow   Pos, Delta
//	invalid_utf8        Pos, Length, Cause (*UTF8Error)
//	no_null_terminator  Pos
//	io_failure          Pos, Cause
//	assertion_failure   Location, Detail, Value (operands)
//	context             Detail (the note), Cause (the wrapped error)
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Detail    string
	Location  string
	Pos       uint64
	Needed    uint64
	Available uint64
	Delta     uint64
	Length    uint64
	stack     stackTrace
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.message()
	if e.Cause == nil {
		return msg
	}
	if e.Kind == KindContext {
		return msg + ": " + e.Cause.Error()
	}
	return msg + " (caused by: " + e.Cause.Error() + ")"
}

func (e *Error) message() string {
	if e.Kind == KindContext {
		return e.Detail
	}

	var b strings.Builder
	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	switch e.Kind {
	case KindSourceTooSmall:
		fmt.Fprintf(&b, " at offset %d: need %d bytes, %d available", e.Pos, e.Needed, e.Available)
	case KindPositionOverflow:
		fmt.Fprintf(&b, " at offset %d: advancing by %d overflows", e.Pos, e.Delta)
	case KindInvalidUTF8:
		fmt.Fprintf(&b, " at offset %d: %d byte span", e.Pos, e.Length)
	case KindNoNullTerminator, KindIO:
		b.WriteString(" at offset ")
		b.WriteString(strconv.FormatUint(e.Pos, 10))
	case KindAssertion:
		if e.Location != "" {
			b.WriteString(" at ")
			b.WriteString(e.Location)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must match; a target
// with a Phase additionally requires the same phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// StackTrace returns the frames captured at construction, or nil when stack
// capture was disabled.
func (e *Error) StackTrace() []string {
	return e.stack.frames()
}

// Format implements fmt.Formatter. %+v prints every layer of the chain on
// its own line, followed by its stack when one was captured.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, e.message())
			e.stack.writeTo(s)
			if e.Cause != nil {
				io.WriteString(s, "\ncaused by: ")
				fmt.Fprintf(s, "%+v", e.Cause)
			}
			return
		}
		io.WriteString(s, e.Error())
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// WithContext wraps e with a note describing what was being done.
func (e *Error) WithContext(note string) *Error {
	if e == nil {
		return nil
	}
	return &Error{Phase: e.Phase, Kind: KindContext, Detail: note, Cause: e}
}

// WithContextf is WithContext with a formatted note.
func (e *Error) WithContextf(format string, args ...any) *Error {
	if e == nil {
		return nil
	}
	return e.WithContext(fmt.Sprintf(format, args...))
}

// WithContextFn wraps e with a note produced lazily by fn.
func (e *Error) WithContextFn(fn func() string) *Error {
	if e == nil {
		return nil
	}
	return e.WithContext(fn())
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Pos sets the byte offset the error refers to
func (b *Builder) Pos(pos uint64) *Builder {
	b.err.Pos = pos
	return b
}

// Needed sets the number of bytes the operation required
func (b *Builder) Needed(n uint64) *Builder {
	b.err.Needed = n
	return b
}

// Available sets the number of bytes the source could provide
func (b *Builder) Available(n uint64) *Builder {
	b.err.Available = n
	return b
}

// Delta sets the attempted position advance
func (b *Builder) Delta(n uint64) *Builder {
	b.err.Delta = n
	return b
}

// Length sets the length of the offending span
func (b *Builder) Length(n uint64) *Builder {
	b.err.Length = n
	return b
}

// Location sets the source location of an assertion
func (b *Builder) Location(loc string) *Builder {
	b.err.Location = loc
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	e := b.err
	e.stack = callers()
	return &e
}

// Convenience constructors for common error patterns

// SourceTooSmall reports a read of needed bytes at pos that runs past the
// end of a source holding available bytes.
func SourceTooSmall(phase Phase, pos, needed, available uint64) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindSourceTooSmall,
		Pos:       pos,
		Needed:    needed,
		Available: available,
		stack:     callers(),
	}
}

// PositionOverflow reports that pos+delta does not fit in 64 bits. This
// usually means a corrupt length field.
func PositionOverflow(phase Phase, pos, delta uint64) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindPositionOverflow,
		Pos:   pos,
		Delta: delta,
		stack: callers(),
	}
}

// InvalidUTF8 reports that the length bytes at pos are not valid UTF-8.
func InvalidUTF8(phase Phase, pos, length uint64, cause *UTF8Error) *Error {
	e := &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Pos:    pos,
		Length: length,
		stack:  callers(),
	}
	if cause != nil {
		e.Cause = cause
	}
	return e
}

// NoNullTerminator reports that no zero byte follows pos.
func NoNullTerminator(phase Phase, pos uint64) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindNoNullTerminator,
		Pos:   pos,
		stack: callers(),
	}
}

// IO wraps a failure of the underlying reader or writer at pos.
func IO(pos uint64, cause error) *Error {
	return &Error{
		Phase: PhaseIO,
		Kind:  KindIO,
		Pos:   pos,
		Cause: cause,
		stack: callers(),
	}
}

// IntegerConversion reports that value does not fit target.
func IntegerConversion(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIntegerConversion,
		Value:  value,
		Detail: fmt.Sprintf("value %v does not fit %s", value, target),
		stack:  callers(),
	}
}

// Assertion creates a failed-assertion error.
func Assertion(location, description string) *Error {
	return &Error{
		Phase:    PhaseValidate,
		Kind:     KindAssertion,
		Location: location,
		Detail:   description,
		stack:    callers(),
	}
}

// Custom creates an error carrying only a message.
func Custom(phase Phase, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindCustom,
		Detail: msg,
		stack:  callers(),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		stack:  callers(),
	}
}

// Chaining helpers for arbitrary errors

// WithContext wraps err with note. A nil err stays nil.
func WithContext(err error, note string) error {
	if err == nil {
		return nil
	}
	return &Error{Phase: phaseOf(err), Kind: KindContext, Detail: note, Cause: err}
}

// WithContextf is WithContext with a formatted note.
func WithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return WithContext(err, fmt.Sprintf(format, args...))
}

// WithContextFn wraps err with a note produced by fn. fn only runs when err
// is non-nil.
func WithContextFn(err error, fn func() string) error {
	if err == nil {
		return nil
	}
	return WithContext(err, fn())
}

// KindOf returns the kind of err after peeling Context layers, or "" when
// err is not a structured error.
func KindOf(err error) Kind {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return ""
		}
		if e.Kind != KindContext {
			return e.Kind
		}
		err = e.Cause
	}
	return ""
}

// IsKind reports whether KindOf(err) is kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Root returns the innermost error of a single-cause chain.
func Root(err error) error {
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// Chain returns err followed by each wrapped cause, outermost first.
func Chain(err error) []error {
	var out []error
	for err != nil {
		out = append(out, err)
		err = stderrors.Unwrap(err)
	}
	return out
}

// Notes returns the context notes attached to err, outermost first.
func Notes(err error) []string {
	var notes []string
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) || e.Kind != KindContext {
			break
		}
		notes = append(notes, e.Detail)
		err = e.Cause
	}
	return notes
}

func phaseOf(err error) Phase {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Phase
	}
	return ""
}

// UTF8Error describes where a byte span stopped being valid UTF-8.
type UTF8Error struct {
	// ValidUpTo is the length of the valid prefix.
	ValidUpTo int
	// ErrorLen is the length of the invalid sequence, or 0 when the span
	// ended in the middle of an otherwise valid sequence.
	ErrorLen int
}

// Error describes where the invalid sequence starts.
func (e *UTF8Error) Error() string {
	if e.ErrorLen == 0 {
		return fmt.Sprintf("incomplete utf-8 byte sequence from index %d", e.ValidUpTo)
	}
	return fmt.Sprintf("invalid utf-8 sequence of %d bytes from index %d", e.ErrorLen, e.ValidUpTo)
}
