package functors

import (
	"slices"

	"github.com/reusee/dynval/values"
)

// Pack copies nested arrays of numbers into one dense row-major tensor of the
// promoted element kind. Scalars are returned as is and arrays of a primitive
// kind are shared. Ragged nesting is a Shape error, non-numeric leaves a Type error.
func Pack(v values.Value) (values.Value, error) {
	if v.Heap() == nil {
		if err := checkLeaf(v); err != nil {
			return values.Value{}, err
		}
		return v, nil
	}
	if v.AType().Primitive() {
		if _, ok := v.Str(); ok {
			return values.Value{}, errorf(values.ErrType, "pack", "cannot pack a string")
		}
		return v.Share(), nil
	}

	dims, kind, err := layout(v)
	if err != nil {
		return values.Value{}, err
	}
	out, err := values.Tensor(kind, dims...)
	if err != nil {
		return values.Value{}, err
	}
	i := 0
	if err := fill(v, out, &i); err != nil {
		out.Release()
		return values.Value{}, err
	}
	return out, nil
}

func checkLeaf(v values.Value) error {
	if !v.Defined() {
		return errorf(values.ErrState, "pack", "use of undefined value")
	}
	if !v.Type().Primitive() {
		return errorf(values.ErrType, "pack", "cannot pack %v", v.Type())
	}
	return nil
}

// layout returns the dense extents and the element kind of v.
func layout(v values.Value) ([]int, values.Kind, error) {
	if v.Heap() == nil {
		if err := checkLeaf(v); err != nil {
			return nil, values.KindUndefined, err
		}
		return nil, v.Type(), nil
	}
	if _, ok := v.Str(); ok {
		return nil, values.KindUndefined, errorf(values.ErrType, "pack", "cannot pack a string")
	}
	switch kind := v.AType(); {
	case kind == values.KindPair:
		return nil, values.KindUndefined, errorf(values.ErrType, "pack", "cannot pack an associative array")
	case kind.Primitive():
		return v.Dims(), kind, nil
	}

	if v.Size() == 0 {
		return v.Dims(), values.KindLong, nil
	}
	var inner []int
	var kind values.Kind
	for i, x := range v.All() {
		d, k, err := layout(x)
		if err != nil {
			return nil, values.KindUndefined, err
		}
		if i == 0 {
			inner, kind = d, k
			continue
		}
		if !slices.Equal(d, inner) {
			return nil, values.KindUndefined, errorf(values.ErrShape, "pack", "ragged element %d: %v, expecting %v", i, d, inner)
		}
		kind = values.Promote(kind, k)
	}
	return append(v.Dims(), inner...), kind, nil
}

func fill(v, out values.Value, i *int) error {
	if v.Heap() == nil {
		if err := out.Set(*i, v); err != nil {
			return err
		}
		*i++
		return nil
	}
	for _, x := range v.All() {
		if err := fill(x, out, i); err != nil {
			return err
		}
	}
	return nil
}
