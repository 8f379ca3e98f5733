package functors

import "github.com/reusee/dynval/values"

// Binary is a two-operand operation. The second operand broadcasts against the
// first: its dims must be a suffix of the first's. A second operand holding
// exactly one element is treated as a scalar.
type Binary struct {
	Name string
	Rank int
	// Scalar combines one element of each operand
	Scalar func(a, b values.Value) (values.Value, error)
	// Slice processes one window of each operand into the matching output window
	Slice func(a, b, out values.Value) error
	// Allocate creates the output; the default is shaped like a, with the kind
	// promoted against a scalar b
	Allocate func(a, b values.Value) (values.Value, error)
	Whole    func(a, b, out values.Value) error
}

// check validates operands and reports whether b takes the scalar path.
func (f Binary) check(a, b values.Value) (bool, error) {
	if err := checkDefined(f.Name, a, b); err != nil {
		return false, err
	}
	if a.Type() != values.KindArray {
		return false, errorf(values.ErrShape, f.Name, "first operand is a %v scalar", a.Type())
	}
	if b.Size() == 1 && f.Scalar != nil {
		return true, nil
	}
	if b.Type() != values.KindArray {
		return false, errorf(values.ErrShape, f.Name, "second operand is a %v scalar", b.Type())
	}
	if ka, kb := a.AType(), b.AType(); ka != kb {
		return false, errorf(values.ErrType, f.Name, "element kinds differ: %v and %v", ka, kb)
	}
	ad, bd := a.Dims(), b.Dims()
	if len(bd) < f.Rank {
		return false, errorf(values.ErrShape, f.Name, "second operand rank %d below %d", len(bd), f.Rank)
	}
	if !isSuffix(bd, ad) {
		return false, errorf(values.ErrShape, f.Name, "cannot broadcast %v against %v", bd, ad)
	}
	return false, nil
}

func (f Binary) allocate(a, b values.Value) (values.Value, error) {
	if f.Allocate != nil {
		return f.Allocate(a, b)
	}
	kind := a.AType()
	if b.Size() == 1 {
		x, err := b.At(0)
		if err != nil {
			return values.Value{}, err
		}
		if kind.Primitive() && x.Type().Primitive() {
			kind = values.Promote(kind, x.Type())
		}
	}
	return Like(a, kind)
}

// Call allocates the output and fills it. Two scalars yield the scalar result.
func (f Binary) Call(a, b values.Value) (values.Value, error) {
	if a.Defined() && b.Defined() &&
		a.Type() != values.KindArray && b.Type() != values.KindArray &&
		f.Scalar != nil {
		return f.Scalar(a, b)
	}
	if _, err := f.check(a, b); err != nil {
		return values.Value{}, err
	}
	out, err := f.allocate(a, b)
	if err != nil {
		return values.Value{}, err
	}
	if err := f.Into(a, b, out); err != nil {
		out.Release()
		return values.Value{}, err
	}
	return out, nil
}

func (f Binary) Into(a, b, out values.Value) error {
	if f.Whole != nil {
		return f.Whole(a, b, out)
	}
	return f.Broadcast(a, b, out)
}

// Broadcast walks a's batch dimensions, reusing b's windows along the
// dimensions b lacks. Slice implementations own their aliasing policy.
func (f Binary) Broadcast(a, b, out values.Value) error {
	scalar, err := f.check(a, b)
	if err != nil {
		return err
	}
	if err := checkDefined(f.Name, out); err != nil {
		return err
	}
	if scalar || (f.Rank == 0 && f.Scalar != nil) {
		return f.elementwise(a, b, out, scalar)
	}

	if f.Slice == nil {
		return errorf(values.ErrType, f.Name, "no slice operation")
	}
	ws, err := windows(a, b, out)
	if err != nil {
		return err
	}
	defer release(ws)
	aw, bw, ow := ws[0], ws[1], ws[2]
	ad, bd := aw.Dims(), bw.Dims()
	batch := ad[:len(ad)-f.Rank]
	outRank, err := outputRank(f.Name, ow, batch)
	if err != nil {
		return err
	}
	aStride := strides(aw)[:len(batch)]
	bStride := strides(bw)[:len(bd)-f.Rank]
	outStride := strides(ow)[:len(batch)]
	for k := range product(batch) {
		if err := f.slice(aw, bw, ow, outRank,
			batchOffset(k, batch, aStride),
			batchOffset(k, batch, bStride),
			batchOffset(k, batch, outStride),
		); err != nil {
			return err
		}
	}
	return nil
}

// elementwise runs the scalar path. Because b's dims are a suffix of a's, the
// row-major index of b's element is a's index modulo b's size. Operands that
// alias out through another window are copied first.
func (f Binary) elementwise(a, b, out values.Value, scalar bool) error {
	if n, m := a.Size(), out.Size(); n != m {
		return errorf(values.ErrShape, f.Name, "output size %d, want %d", m, n)
	}
	a, copied, err := snapshot(a, out)
	if err != nil {
		return err
	}
	if copied {
		defer a.Release()
	}
	b, copied, err = snapshot(b, out)
	if err != nil {
		return err
	}
	if copied {
		defer b.Release()
	}
	var x values.Value
	if scalar {
		x, err = b.At(0)
		if err != nil {
			return err
		}
	}
	n := b.Size()
	for i, y := range a.All() {
		if !scalar {
			x, err = b.At(i % n)
			if err != nil {
				return err
			}
		}
		z, err := f.Scalar(y, x)
		if err != nil {
			return err
		}
		if err := out.Set(i, z); err != nil {
			return err
		}
	}
	return nil
}

func (f Binary) slice(aw, bw, ow values.Value, outRank, aOffset, bOffset, outOffset int) error {
	a, err := aw.Subview(f.Rank, aOffset)
	if err != nil {
		return err
	}
	defer a.Release()
	b, err := bw.Subview(f.Rank, bOffset)
	if err != nil {
		return err
	}
	defer b.Release()
	out, err := ow.Subview(outRank, outOffset)
	if err != nil {
		return err
	}
	defer out.Release()
	return f.Slice(a, b, out)
}
