// Error wrapper remembering where it was created.
//
// `Wrap(err)` returns a new error wrapping `err` which knows the file, line
// and function it was made in. Chained wraps read as a call stack when the
// message is split at "<-".
package errors

import (
	"fmt"
	"runtime"
)

type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *ErrWithCaller) Error() string {
	note := ""
	if e.note != "" {
		note = fmt.Sprintf(" (%s)", e.note)
	}
	return fmt.Sprintf(`@ %s "%s" l%d%s <- %s`, e.funcname, e.file, e.line, note, e.err.Error())
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

func Wrap(err error) error {
	return wrap("", err)
}

// WrapWithNote is Wrap with a short remark kept in the message.
func WrapWithNote(note string, err error) error {
	return wrap(note, err)
}

func wrap(note string, err error) error {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "?"
		line = -1
	}

	funcname := "(unknown func)"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &ErrWithCaller{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}
