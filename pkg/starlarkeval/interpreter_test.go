package starlarkeval

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestInterpreterExec(t *testing.T) {
	var printed []string
	interpreter := NewInterpreter("test", func(format string, args ...interface{}) {
		printed = append(printed, fmt.Sprintf(format, args...))
	})
	interpreter.Predeclare("greeting", starlark.String("hello"))
	interpreter.Builtin("twice", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var s string
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "s", &s); err != nil {
			return nil, err
		}
		return starlark.String(s + s), nil
	})

	err := interpreter.Exec("test.star", strings.NewReader(`
x = twice(greeting)
print(x)
names = ["a", "b"]
`))
	require.NoError(t, err)
	require.Equal(t, []string{"hellohello"}, printed)
	require.Equal(t, starlark.String("hellohello"), interpreter.GetGlobal("x"))

	names, err := StringList(interpreter.GetGlobal("names"))
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestInterpreterEvalError(t *testing.T) {
	interpreter := NewInterpreter("test", t.Logf)
	err := interpreter.Exec("test.star", strings.NewReader(`fail("boom")`))
	require.ErrorContains(t, err, "boom")
	require.NotNil(t, interpreter.EvalError())
}

func TestStringList(t *testing.T) {
	for name, tc := range map[string]struct {
		value   starlark.Value
		want    []string
		wantErr string
	}{
		"nil":   {value: nil},
		"none":  {value: starlark.None},
		"list":  {value: starlark.NewList([]starlark.Value{starlark.String("a")}), want: []string{"a"}},
		"tuple": {value: starlark.Tuple{starlark.String("a"), starlark.String("b")}, want: []string{"a", "b"}},
		"empty": {value: starlark.NewList(nil), want: []string{}},
		"not a list": {
			value:   starlark.MakeInt(1),
			wantErr: "got int, want list of strings",
		},
		"not strings": {
			value:   starlark.NewList([]starlark.Value{starlark.MakeInt(1)}),
			wantErr: "got int in list, want string",
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := StringList(tc.value)
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}
