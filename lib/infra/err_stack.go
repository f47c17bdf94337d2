package infra

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"
)

// References:
// https://github.com/pkg/errors/blob/master/stack.go

const maxStackDepth = 32

// Frame is a program counter captured by runtime.Callers.
type Frame uintptr

// location resolves the function name, the source file and the line.
func (frame Frame) location() (name, file string, line int) {
	pc := uintptr(frame) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknownFunc", "unknownFile", 0
	}
	file, line = fn.FileLine(pc)
	return fn.Name(), file, line
}

// Format characters:
// %s - source file
// %d - source line
// %n - function name
// %v - verbose, equivalent to %s:%d
// %+s - function name and full path separated by \n\t
// %+v - equivalent to %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	name, file, line := frame.location()
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s\n\t%s", name, file)
			return
		}
		_, _ = io.WriteString(s, path.Base(file))
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(line))
	case 'n':
		// Strip the package path, keep the receiver and the function.
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		_, _ = io.WriteString(s, name[strings.Index(name, ".")+1:])
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

type Stack []Frame

func (stack Stack) Format(s fmt.State, verb rune) {
	if verb != 'v' || !s.Flag('+') {
		return
	}
	for _, frame := range stack {
		_, _ = io.WriteString(s, "\n")
		frame.Format(s, verb)
	}
}

func callers(skip int) Stack {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	stack := make(Stack, n)
	for i := 0; i < n; i++ {
		stack[i] = Frame(pcs[i])
	}
	return stack
}

// ErrorStack carries a message, an optional cause and the call stack
// captured where it was created.
type ErrorStack struct {
	cause error
	msg   string
	stack Stack
}

func (es *ErrorStack) Error() string {
	if es.cause == nil {
		return es.msg
	}
	if len(es.msg) == 0 {
		return es.cause.Error()
	}
	return es.msg + ": " + es.cause.Error()
}

func (es *ErrorStack) Unwrap() error {
	return es.cause
}

func (es *ErrorStack) Stack() Stack {
	return es.stack
}

// %s and %v print the error message only.
// %+v appends the captured frames, one per line.
func (es *ErrorStack) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, es.Error())
		if s.Flag('+') {
			es.stack.Format(s, verb)
		}
	case 's':
		_, _ = io.WriteString(s, es.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", es.Error())
	}
}

func NewErrorStack(msg string) error {
	return &ErrorStack{
		msg:   msg,
		stack: callers(3),
	}
}

func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ErrorStack{
		cause: err,
		msg:   msg,
		stack: callers(3),
	}
}
