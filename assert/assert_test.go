package assert

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/binpos/errors"
)

func TestChecks(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		ok   bool
	}{
		{"eq pass", Eq(3, 3), true},
		{"eq fail", Eq(3, 4), false},
		{"ne pass", Ne("a", "b"), true},
		{"ne fail", Ne("a", "a"), false},
		{"le pass equal", Le(4, 4), true},
		{"le fail", Le(5, 4), false},
		{"ge pass", Ge(uint16(9), 2), true},
		{"ge fail", Ge(1.5, 2.0), false},
		{"lt pass", Lt(1, 2), true},
		{"lt fail equal", Lt(2, 2), false},
		{"gt pass", Gt(3, 2), true},
		{"gt fail", Gt(2, 3), false},
		{"one of pass", OneOf(uint16(3), []uint16{1, 3}), true},
		{"one of fail", OneOf(uint16(2), []uint16{1, 3}), false},
		{"none of pass", NoneOf("x", []string{"a", "b"}), true},
		{"none of fail", NoneOf("a", []string{"a", "b"}), false},
		{"true pass", True(true), true},
		{"true fail", True(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.ok, tt.res.OK())
			if tt.ok {
				require.NoError(t, tt.res.Err())
				require.Nil(t, tt.res.Failure())
				return
			}
			require.ErrorIs(t, tt.res.Err(), errors.ErrAssertion)
			require.Equal(t, errors.PhaseValidate, tt.res.Failure().Phase)
		})
	}
}

func TestFailureDetails(t *testing.T) {
	res := Eq(3, 4, "field %s at offset %d", "size", 12)
	f := res.Failure()
	require.NotNil(t, f)

	require.True(t, strings.HasPrefix(f.Location, "assert_test.go:"), f.Location)
	require.Equal(t, "3 == 4: field size at offset 12", f.Detail)
	require.Equal(t, []any{3, 4}, f.Value)
	require.Contains(t, res.Err().Error(), "assertion_failure at assert_test.go:")
}

func TestMessageWithoutArgs(t *testing.T) {
	res := True(false, "chunk must be aligned")
	require.Equal(t, "condition: chunk must be aligned", res.Failure().Detail)
}

func TestAndSingleCause(t *testing.T) {
	res := Eq(3, 3).And(Eq(4, 5))
	f := res.Failure()
	require.NotNil(t, f)
	require.Nil(t, f.Cause)
	require.Equal(t, "4 == 5", f.Detail)
}

func TestAndDualCause(t *testing.T) {
	res := Eq(3, 4).And(Eq(5, 6))
	f := res.Failure()
	require.NotNil(t, f)
	require.Equal(t, errors.KindAssertion, f.Kind)

	causes := multierr.Errors(f.Cause)
	require.Len(t, causes, 2)
	require.Contains(t, causes[0].Error(), "3 == 4")
	require.Contains(t, causes[1].Error(), "5 == 6")

	msg := res.Err().Error()
	require.Contains(t, msg, "3 == 4")
	require.Contains(t, msg, "5 == 6")
}

func TestAndBothPass(t *testing.T) {
	require.True(t, Eq(1, 1).And(Le(1, 2)).OK())
}

func TestOr(t *testing.T) {
	require.True(t, Eq(1, 2).Or(Eq(2, 2)).OK())
	require.True(t, Eq(2, 2).Or(Eq(1, 2)).OK())

	res := Eq(1, 2).Or(Eq(3, 4))
	require.False(t, res.OK())
	require.Len(t, multierr.Errors(res.Failure().Cause), 2)
}

func TestLax(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	require.False(t, Eq(1, 2).Lax(false).OK())
	require.Equal(t, 0, logs.Len())

	require.True(t, Eq(1, 2).Lax(true).OK())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "assertion relaxed", entry.Message)
	require.Equal(t, "1 == 2", entry.ContextMap()["check"])

	require.True(t, Eq(1, 1).Lax(true).OK())
	require.Equal(t, 1, logs.Len())
}

func TestContext(t *testing.T) {
	res := Eq(1, 2).Context("riff header")
	err := res.Err()
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "riff header: "))
	require.Equal(t, errors.KindAssertion, errors.KindOf(err))

	var inner *errors.Error
	require.True(t, stderrors.As(err, &inner))
	require.Equal(t, errors.KindContext, inner.Kind)

	require.True(t, Eq(1, 1).Context("unused").OK())
}
