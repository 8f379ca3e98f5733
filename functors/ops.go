package functors

import "github.com/reusee/dynval/values"

var (
	Add = Binary{Name: "add", Scalar: values.Add}
	Sub = Binary{Name: "sub", Scalar: values.Sub}
	Mul = Binary{Name: "mul", Scalar: values.Mul}
	Div = Binary{Name: "div", Scalar: values.Div}

	Neg = Unary{Name: "neg", Scalar: values.Neg}
)

// reduced allocates the batch dims of v, dropping the trailing one.
func reduced(v values.Value) (values.Value, error) {
	dims := v.Dims()
	return values.Tensor(v.AType(), dims[:len(dims)-1]...)
}

// Sum reduces the trailing dimension.
var Sum = Unary{
	Name:     "sum",
	Rank:     1,
	Allocate: reduced,
	Slice: func(in, out values.Value) error {
		acc := values.Long(0)
		for i, x := range in.All() {
			if i == 0 {
				acc = x
				continue
			}
			var err error
			acc, err = values.Add(acc, x)
			if err != nil {
				return err
			}
		}
		return out.Set(0, acc)
	},
}

// Dot is the inner product over the trailing dimension. It cannot write into
// its own operands.
var Dot = Binary{
	Name: "dot",
	Rank: 1,
	Allocate: func(a, _ values.Value) (values.Value, error) {
		return reduced(a)
	},
	Slice: func(a, b, out values.Value) error {
		if values.SameStorage(a, out) || values.SameStorage(b, out) {
			return errorf(values.ErrAliasing, "dot", "output shares storage with an operand")
		}
		acc := values.Long(0)
		for i, x := range a.All() {
			y, err := b.At(i)
			if err != nil {
				return err
			}
			p, err := values.Mul(x, y)
			if err != nil {
				return err
			}
			if i == 0 {
				acc = p
				continue
			}
			if acc, err = values.Add(acc, p); err != nil {
				return err
			}
		}
		return out.Set(0, acc)
	},
}

// Diff computes first differences along the trailing dimension, keeping the
// first element. When out overlaps in at the same or a higher offset the pass
// runs backward, so each slot is read before it is overwritten; any other
// overlap reads from a copy of in.
var Diff = Unary{
	Name: "diff",
	Rank: 1,
	Slice: func(in, out values.Value) error {
		n := in.Size()
		if m := out.Size(); m != n {
			return errorf(values.ErrShape, "diff", "output size %d, want %d", m, n)
		}
		if n == 0 {
			return nil
		}
		backward, overlap := diffOrder(in, out)
		if overlap {
			c, err := in.Copy(false)
			if err != nil {
				return err
			}
			defer c.Release()
			in = c
		}
		step := func(i int) error {
			x, err := in.At(i)
			if err != nil {
				return err
			}
			prev, err := in.At(i - 1)
			if err != nil {
				return err
			}
			d, err := values.Sub(x, prev)
			if err != nil {
				return err
			}
			return out.Set(i, d)
		}
		first, err := in.At(0)
		if err != nil {
			return err
		}

		if backward {
			for i := n - 1; i > 0; i-- {
				if err := step(i); err != nil {
					return err
				}
			}
			return out.Set(0, first)
		}

		if err := out.Set(0, first); err != nil {
			return err
		}
		for i := 1; i < n; i++ {
			if err := step(i); err != nil {
				return err
			}
		}
		return nil
	},
}

// diffOrder reports whether a difference pass from in into out must run
// backward, or whether no order is safe and in has to be copied first.
func diffOrder(in, out values.Value) (backward, overlap bool) {
	if !values.SameStorage(in, out) {
		return false, false
	}
	ti, oi, si := placement(in)
	to, oo, so := placement(out)
	if ti == nil || ti != to || si != so || si <= 0 {
		return false, true
	}
	return oo >= oi, false
}

// placement returns the heap a window addresses, its offset there and its
// trailing stride. The heap is nil for a view nested in another view.
func placement(v values.Value) (*values.Heap, int, int) {
	h := v.Heap()
	vw := h.View()
	if vw == nil {
		return h, 0, 1
	}
	if vw.Target().View() != nil {
		return nil, 0, 0
	}
	if vw.Rank() == 0 {
		return vw.Target(), vw.Offset(), 1
	}
	s, err := vw.Stride(vw.Rank() - 1)
	if err != nil {
		return nil, 0, 0
	}
	return vw.Target(), vw.Offset(), s
}

// Transposed swaps the trailing two dimensions into a new tensor.
var Transposed = Unary{
	Name: "transposed",
	Rank: 2,
	Allocate: func(in values.Value) (values.Value, error) {
		dims := in.Dims()
		r := len(dims)
		dims[r-1], dims[r-2] = dims[r-2], dims[r-1]
		return values.Tensor(in.AType(), dims...)
	},
	Slice: func(in, out values.Value) error {
		return in.TransposeInto(out)
	},
}

// AddN sums any number of operands elementwise.
var AddN = NAry{
	Name: "addn",
	Slice: func(ins []values.Value, out values.Value) error {
		var acc values.Value
		for i, in := range ins {
			x, err := in.At(0)
			if err != nil {
				return err
			}
			if i == 0 {
				acc = x
				continue
			}
			if acc, err = values.Add(acc, x); err != nil {
				return err
			}
		}
		return out.Set(0, acc)
	},
}
