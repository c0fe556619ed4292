package errors

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	pkgerrors "github.com/pkg/errors"
)

// EnvBacktrace enables stack capture at process start when set to a true
// value ("1", "true").
const EnvBacktrace = "BINPOS_BACKTRACE"

var captureStacks atomic.Bool

var errStackMarker = pkgerrors.New("stack")

func init() {
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvBacktrace))); err == nil {
		captureStacks.Store(v)
	}
}

// SetCaptureStacks turns stack capture on or off for errors constructed
// afterwards. Capture costs a runtime.Callers walk per error, which adds up
// when decoding many small fields, so it is off by default.
func SetCaptureStacks(on bool) {
	captureStacks.Store(on)
}

// CaptureStacks reports whether new errors record their construction stack.
func CaptureStacks() bool {
	return captureStacks.Load()
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

type stackTrace pkgerrors.StackTrace

func callers() stackTrace {
	if !captureStacks.Load() {
		return nil
	}
	st := pkgerrors.WithStack(errStackMarker).(stackTracer).StackTrace()
	// drop callers itself so the first frame is the constructor
	if len(st) > 1 {
		st = st[1:]
	}
	return stackTrace(st)
}

func (s stackTrace) frames() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = fmt.Sprintf("%+v", f)
	}
	return out
}

func (s stackTrace) writeTo(w io.Writer) {
	if len(s) == 0 {
		return
	}
	fmt.Fprintf(w, "%+v", pkgerrors.StackTrace(s))
}
