package values

// Promote picks the result kind of a binary scalar operation.
func Promote(a, b Kind) Kind {
	k := max(a, b)
	switch {
	case a == KindLong && b == KindFloat, a == KindFloat && b == KindLong:
		return KindDouble
	case k == KindCFloat && (a == KindDouble || b == KindDouble):
		return KindCDouble
	}
	return k
}

func makeInteger(k Kind, n int64) Value {
	switch k {
	case KindChar:
		return Char(byte(n))
	case KindInt:
		return Int(int32(n))
	}
	return Long(n)
}

func makeReal(k Kind, f float64) Value {
	if k == KindFloat {
		return Float(float32(f))
	}
	return Double(f)
}

func makeComplex(k Kind, c complex128) Value {
	if k == KindCFloat {
		return CFloat(complex64(c))
	}
	return CDouble(c)
}

type arithOp struct {
	name    string
	integer func(x, y int64) (int64, error)
	real    func(x, y float64) float64
	complex func(x, y complex128) complex128
}

func (o arithOp) apply(a, b Value) (Value, error) {
	if err := a.scalarCheck(o.name); err != nil {
		return Value{}, err
	}
	if err := b.scalarCheck(o.name); err != nil {
		return Value{}, err
	}
	k := Promote(a.kind, b.kind)
	switch {
	case k.Integral():
		n, err := o.integer(a.num, b.num)
		if err != nil {
			return Value{}, err
		}
		return makeInteger(k, n), nil
	case k.Complex():
		return makeComplex(k, o.complex(a.asComplex(), b.asComplex())), nil
	}
	return makeReal(k, o.real(real(a.asComplex()), real(b.asComplex()))), nil
}

var (
	addOp = arithOp{
		name:    "add",
		integer: func(x, y int64) (int64, error) { return x + y, nil },
		real:    func(x, y float64) float64 { return x + y },
		complex: func(x, y complex128) complex128 { return x + y },
	}
	subOp = arithOp{
		name:    "sub",
		integer: func(x, y int64) (int64, error) { return x - y, nil },
		real:    func(x, y float64) float64 { return x - y },
		complex: func(x, y complex128) complex128 { return x - y },
	}
	mulOp = arithOp{
		name:    "mul",
		integer: func(x, y int64) (int64, error) { return x * y, nil },
		real:    func(x, y float64) float64 { return x * y },
		complex: func(x, y complex128) complex128 { return x * y },
	}
	divOp = arithOp{
		name: "div",
		integer: func(x, y int64) (int64, error) {
			if y == 0 {
				return 0, errorf(ErrType, "div", "integer division by zero")
			}
			return x / y, nil
		},
		real:    func(x, y float64) float64 { return x / y },
		complex: func(x, y complex128) complex128 { return x / y },
	}
)

func Add(a, b Value) (Value, error) {
	return addOp.apply(a, b)
}

func Sub(a, b Value) (Value, error) {
	return subOp.apply(a, b)
}

func Mul(a, b Value) (Value, error) {
	return mulOp.apply(a, b)
}

func Div(a, b Value) (Value, error) {
	return divOp.apply(a, b)
}

func Neg(a Value) (Value, error) {
	if err := a.scalarCheck("neg"); err != nil {
		return Value{}, err
	}
	switch {
	case a.kind.Integral():
		return makeInteger(a.kind, -a.num), nil
	case a.kind.Complex():
		return makeComplex(a.kind, -a.cpx), nil
	}
	return makeReal(a.kind, -real(a.cpx)), nil
}
