package infra

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{
			initPC,
			"%s",
			"err_stack_test.go",
		},
		{
			initPC,
			"%n",
			"init",
		},
		{
			Frame(0),
			"%s",
			"unknownFile",
		},
		{
			Frame(0),
			"%n",
			"unknownFunc",
		},
		{
			Frame(0),
			"%d",
			"0",
		},
		{
			Frame(0),
			"%+v",
			"unknownFunc\n\tunknownFile:0",
		},
	}

	for _, tc := range testcases {
		frameRes := fmt.Sprintf(tc.format, tc.Frame)
		require.Equal(t, tc.want, frameRes)
	}

	verbose := fmt.Sprintf("%v", initPC)
	require.True(t, strings.HasPrefix(verbose, "err_stack_test.go:"))
	full := fmt.Sprintf("%+s", initPC)
	require.True(t, strings.HasPrefix(full, "github.com/benz9527/xrbt/lib/infra.init\n\t"))
	require.True(t, strings.HasSuffix(full, "err_stack_test.go"))
}

var errCause = errors.New("cause")

func TestWrapErrorStackWithMessage(t *testing.T) {
	require.Nil(t, WrapErrorStackWithMessage(nil, "ignored"))

	err := WrapErrorStackWithMessage(errCause, "wrapped")
	require.Error(t, err)
	require.ErrorIs(t, err, errCause)
	require.Equal(t, "wrapped: cause", err.Error())
	require.Equal(t, "wrapped: cause", fmt.Sprintf("%v", err))

	var es *ErrorStack
	require.True(t, errors.As(err, &es))
	require.NotEmpty(t, es.Stack())
	require.Equal(t, "TestWrapErrorStackWithMessage", fmt.Sprintf("%n", es.Stack()[0]))

	verbose := fmt.Sprintf("%+v", err)
	require.True(t, strings.HasPrefix(verbose, "wrapped: cause\n"))
	require.Contains(t, verbose, "err_stack_test.go")
}

func TestNewErrorStack(t *testing.T) {
	err := NewErrorStack("standalone")
	require.Equal(t, "standalone", err.Error())
	require.Nil(t, errors.Unwrap(err))
	require.Equal(t, `"standalone"`, fmt.Sprintf("%q", err))
}
