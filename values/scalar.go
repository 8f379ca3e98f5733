package values

import "math"

func (v Value) asComplex() complex128 {
	if v.kind.Integral() {
		return complex(float64(v.num), 0)
	}
	return v.cpx
}

func (v Value) scalarCheck(op string) error {
	switch {
	case v.kind == KindUndefined:
		return errorf(ErrState, op, "use of undefined value")
	case !v.kind.Primitive():
		return errorf(ErrType, op, "%v is not a scalar", v.kind)
	}
	return nil
}

// integer converts for storage into an integral slot; reals are truncated.
func (v Value) integer(op string, into Kind) (int64, error) {
	if err := v.scalarCheck(op); err != nil {
		return 0, err
	}
	switch {
	case v.kind.Integral():
		return v.num, nil
	case v.kind.Complex():
		return 0, errorf(ErrType, op, "cannot store %v into %v", v.kind, into)
	}
	return int64(real(v.cpx)), nil
}

func (v Value) real(op string, into Kind) (float64, error) {
	if err := v.scalarCheck(op); err != nil {
		return 0, err
	}
	if v.kind.Complex() {
		return 0, errorf(ErrType, op, "cannot store %v into %v", v.kind, into)
	}
	return real(v.asComplex()), nil
}

func (v Value) complex(op string, into Kind) (complex128, error) {
	if err := v.scalarCheck(op); err != nil {
		return 0, err
	}
	return v.asComplex(), nil
}

// Int64 reads an integral or real scalar, truncating reals.
func (v Value) Int64() (int64, error) {
	return v.integer("int64", KindLong)
}

func (v Value) Float64() (float64, error) {
	return v.real("float64", KindDouble)
}

func (v Value) Complex128() (complex128, error) {
	return v.complex("complex128", KindCDouble)
}

// ints reads an array of integral elements, as used for shapes.
func (v Value) ints(op string) ([]int, error) {
	if v.heap == nil {
		return nil, errorf(ErrType, op, "shape must be an array, got %v", v.kind)
	}
	if !v.heap.Kind().Integral() && v.heap.Kind() != KindValue {
		return nil, errorf(ErrType, op, "shape must hold integers, got %v", v.heap.Kind())
	}
	ret := make([]int, 0, v.Size())
	for _, x := range v.All() {
		if !x.kind.Integral() {
			return nil, errorf(ErrType, op, "shape must hold integers, got %v", x.kind)
		}
		if x.num > math.MaxInt32 {
			return nil, errorf(ErrShape, op, "extent %d too large", x.num)
		}
		ret = append(ret, int(x.num))
	}
	return ret, nil
}
