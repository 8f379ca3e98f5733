package debugs

import (
	"github.com/reusee/dynval/functors"
	"github.com/reusee/dynval/values"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
}

// Builtins returns the functors and constructors available to snippets.
func Builtins() starlark.StringDict {
	return starlark.StringDict{
		"add":       binary(functors.Add),
		"sub":       binary(functors.Sub),
		"mul":       binary(functors.Mul),
		"div":       binary(functors.Div),
		"dot":       binary(functors.Dot),
		"neg":       unary(functors.Neg),
		"sum":       unary(functors.Sum),
		"diff":      unary(functors.Diff),
		"transpose": unary(functors.Transposed),
		"view":      starlark.NewBuiltin("view", view),
		"tensor":    starlark.NewBuiltin("tensor", tensor),
	}
}

func unary(f functors.Unary) *starlark.Builtin {
	return starlark.NewBuiltin(f.Name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
			return nil, err
		}
		in, err := FromStarlark(x)
		if err != nil {
			return nil, err
		}
		defer in.Release()
		return call(f.Call(in))
	})
}

func binary(f functors.Binary) *starlark.Builtin {
	return starlark.NewBuiltin(f.Name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x, y starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &y); err != nil {
			return nil, err
		}
		a, err := FromStarlark(x)
		if err != nil {
			return nil, err
		}
		defer a.Release()
		c, err := FromStarlark(y)
		if err != nil {
			return nil, err
		}
		defer c.Release()
		return call(f.Call(a, c))
	})
}

// view(x, shape, offset=0) windows the storage of x.
func view(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, shape starlark.Value
	var offset int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &x, "shape", &shape, "offset?", &offset); err != nil {
		return nil, err
	}
	target, err := FromStarlark(x)
	if err != nil {
		return nil, err
	}
	defer target.Release()
	dims, err := FromStarlark(shape)
	if err != nil {
		return nil, err
	}
	defer dims.Release()
	return call(target.ViewOf(dims, offset))
}

// tensor(kind, *dims) allocates a zeroed row-major tensor.
func tensor(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, errorf(values.ErrType, b.Name(), "unexpected keyword arguments")
	}
	if len(args) < 1 {
		return nil, errorf(values.ErrType, b.Name(), "missing kind")
	}
	name, ok := starlark.AsString(args[0])
	if !ok {
		return nil, errorf(values.ErrType, b.Name(), "kind must be a string, got %s", args[0].Type())
	}
	kind, err := values.ParseKind(name)
	if err != nil {
		return nil, err
	}
	dims := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		var d int
		if err := starlark.AsInt(arg, &d); err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return call(values.Tensor(kind, dims...))
}

func environ(globals map[string]any) starlark.StringDict {
	env := Builtins()
	for name, value := range globals {
		env[name] = ToStarlark(value)
	}
	return env
}

// Eval evaluates an expression with the builtins and globals in scope.
// The result is an owning handle.
func Eval(src string, globals map[string]any) (values.Value, error) {
	thread := &starlark.Thread{
		Name: "eval",
	}
	env := environ(globals)
	defer func() {
		for name, value := range globals {
			if _, ok := value.(values.Value); !ok {
				continue
			}
			if t, ok := env[name].(*Tensor); ok {
				t.Release()
			}
		}
	}()
	ret, err := starlark.EvalOptions(fileOptions, thread, "eval", src, env)
	if err != nil {
		return values.Value{}, wrap(err)
	}
	return FromStarlark(ret)
}

// Exec runs a program and returns its top level bindings.
func Exec(src string, globals map[string]any) (starlark.StringDict, error) {
	thread := &starlark.Thread{
		Name: "exec",
	}
	ret, err := starlark.ExecFileOptions(fileOptions, thread, "exec", src, environ(globals))
	if err != nil {
		return nil, wrap(err)
	}
	return ret, nil
}
