package starlarkeval

import (
	"bytes"
	"fmt"
	"io"

	"go.starlark.net/starlark"
)

type Interpreter struct {
	// Predeclared names visible to every file
	predeclared starlark.StringDict
	// Global state of the last executed file
	globals starlark.StringDict
	// Thread context
	thread *starlark.Thread
	// Last eval error
	evalErr *starlark.EvalError
	// reporter
	reporter Reporter
}

// Reporter receives the output of print().  It is implemented by
// (*testing.T).Logf.
type Reporter func(format string, args ...interface{})

func NewInterpreter(name string, reporter Reporter) *Interpreter {
	return &Interpreter{
		reporter: reporter,
		thread: &starlark.Thread{
			Name: name,
			Print: func(_ *starlark.Thread, msg string) {
				reporter("%s", msg)
			},
		},
		predeclared: starlark.StringDict{},
		globals:     starlark.StringDict{},
	}
}

// Predeclare makes the value visible under name to executed files.
func (i *Interpreter) Predeclare(name string, value starlark.Value) {
	i.predeclared[name] = value
}

// Builtin predeclares a Go function under name.
func (i *Interpreter) Builtin(name string, fn func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)) {
	i.Predeclare(name, starlark.NewBuiltin(name, fn))
}

func (i *Interpreter) GetGlobal(name string) starlark.Value {
	return i.globals[name]
}

// EvalError returns the last evaluation error, if any.
func (i *Interpreter) EvalError() *starlark.EvalError {
	return i.evalErr
}

func (i *Interpreter) Exec(filename string, src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	globals, err := starlark.ExecFile(i.thread, filename, bytes.NewReader(data), i.predeclared)
	i.globals = globals
	if evalErr, ok := err.(*starlark.EvalError); ok {
		i.evalErr = evalErr
		return fmt.Errorf("%s", evalErr.Backtrace())
	}
	return err
}

// StringList converts a starlark list (or tuple) of strings.
func StringList(v starlark.Value) ([]string, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("got %s, want list of strings", v.Type())
	}
	values := make([]string, 0)
	it := iterable.Iterate()
	defer it.Done()
	var x starlark.Value
	for it.Next(&x) {
		s, ok := starlark.AsString(x)
		if !ok {
			return nil, fmt.Errorf("got %s in list, want string", x.Type())
		}
		values = append(values, s)
	}
	return values, nil
}
