package functors

import (
	"fmt"
	"slices"

	"github.com/reusee/dynval/values"
	"github.com/samber/lo"
)

func errorf(kind error, op string, format string, args ...any) error {
	return &values.Error{
		Kind:   kind,
		Op:     op,
		Detail: fmt.Sprintf(format, args...),
	}
}

func product(dims []int) int {
	return lo.Reduce(dims, func(acc int, d int, _ int) int {
		return acc * d
	}, 1)
}

// isSuffix reports whether short equals the trailing extents of long.
func isSuffix(short, long []int) bool {
	if len(short) > len(long) {
		return false
	}
	return slices.Equal(short, long[len(long)-len(short):])
}

func strides(v values.Value) []int {
	return lo.Times(v.Dim(), func(d int) int {
		s, _ := v.Stride(d)
		return s
	})
}

// batchOffset returns the window offset of batch element k, counted row-major
// over dims, for an operand whose batch strides are stride. An operand with fewer
// batch dimensions is broadcast: only the trailing indexes apply to it.
func batchOffset(k int, dims []int, stride []int) int {
	off := 0
	skip := len(dims) - len(stride)
	for d := len(dims) - 1; d >= 0; d-- {
		i := k % dims[d]
		k /= dims[d]
		if d >= skip {
			off += i * stride[d-skip]
		}
	}
	return off
}

// Like allocates an array of kind shaped like v: a plain array for plain
// arrays, a dense tensor for views.
func Like(v values.Value, kind values.Kind) (values.Value, error) {
	if !v.IsView() {
		return values.Array(kind, v.Size()), nil
	}
	return values.Tensor(kind, v.Dims()...)
}

// windows wraps every operand as a view. On failure nothing is left attached.
func windows(vs ...values.Value) ([]values.Value, error) {
	ret := make([]values.Value, 0, len(vs))
	for _, v := range vs {
		w, err := v.Window()
		if err != nil {
			release(ret)
			return nil, err
		}
		ret = append(ret, w)
	}
	return ret, nil
}

func release(vs []values.Value) {
	for i := range vs {
		vs[i].Release()
	}
}

// outputRank checks that out starts with the batch extents and returns the
// rank of each output window.
func outputRank(op string, out values.Value, batch []int) (int, error) {
	dims := out.Dims()
	if len(dims) < len(batch) || !slices.Equal(dims[:len(batch)], batch) {
		return 0, errorf(values.ErrShape, op, "output shape %v does not start with batch shape %v", dims, batch)
	}
	return len(dims) - len(batch), nil
}

// snapshot duplicates v when it shares storage with out through a different
// window, so an in-place pass never reads elements it has already written.
func snapshot(v, out values.Value) (values.Value, bool, error) {
	if !values.SameStorage(v, out) || v.Heap() == out.Heap() {
		return v, false, nil
	}
	c, err := v.Copy(false)
	if err != nil {
		return values.Value{}, false, err
	}
	return c, true, nil
}

func checkDefined(op string, vs ...values.Value) error {
	for _, v := range vs {
		if !v.Defined() {
			return errorf(values.ErrState, op, "use of undefined value")
		}
	}
	return nil
}
