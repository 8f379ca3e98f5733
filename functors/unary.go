package functors

import "github.com/reusee/dynval/values"

// Unary is a one-operand operation consuming trailing windows of rank Rank.
// Rank 0 applies Scalar to every element independently.
type Unary struct {
	Name string
	Rank int
	// Scalar maps one element; used when Rank is 0
	Scalar func(x values.Value) (values.Value, error)
	// Slice processes one input window into the matching output window
	Slice func(in, out values.Value) error
	// Allocate creates the output; the default is an array shaped like the input
	Allocate func(in values.Value) (values.Value, error)
	// Whole replaces the broadcast loop, usually to check operands before deferring to Broadcast
	Whole func(in, out values.Value) error
}

func (u Unary) check(in values.Value) error {
	if err := checkDefined(u.Name, in); err != nil {
		return err
	}
	if in.Type() != values.KindArray {
		return errorf(values.ErrShape, u.Name, "operand is a %v scalar", in.Type())
	}
	if r := in.Dim(); r < u.Rank {
		return errorf(values.ErrShape, u.Name, "operand rank %d below %d", r, u.Rank)
	}
	return nil
}

// Call allocates the output and fills it. A scalar operand of an elementwise
// operation yields the scalar result directly.
func (u Unary) Call(in values.Value) (values.Value, error) {
	if in.Defined() && in.Type() != values.KindArray && u.Rank == 0 && u.Scalar != nil {
		return u.Scalar(in)
	}
	if err := u.check(in); err != nil {
		return values.Value{}, err
	}
	var out values.Value
	var err error
	if u.Allocate != nil {
		out, err = u.Allocate(in)
	} else {
		out, err = Like(in, in.AType())
	}
	if err != nil {
		return values.Value{}, err
	}
	if err := u.Into(in, out); err != nil {
		out.Release()
		return values.Value{}, err
	}
	return out, nil
}

// Into writes the result into a caller-supplied output.
func (u Unary) Into(in, out values.Value) error {
	if u.Whole != nil {
		return u.Whole(in, out)
	}
	return u.Broadcast(in, out)
}

// Broadcast iterates the batch dimensions of in, the ones left of the trailing
// Rank, and invokes Slice once per batch element.
func (u Unary) Broadcast(in, out values.Value) error {
	if err := u.check(in); err != nil {
		return err
	}
	if err := checkDefined(u.Name, out); err != nil {
		return err
	}

	if u.Rank == 0 && u.Scalar != nil {
		if n, m := in.Size(), out.Size(); n != m {
			return errorf(values.ErrShape, u.Name, "output size %d, want %d", m, n)
		}
		in, copied, err := snapshot(in, out)
		if err != nil {
			return err
		}
		if copied {
			defer in.Release()
		}
		for i, x := range in.All() {
			y, err := u.Scalar(x)
			if err != nil {
				return err
			}
			if err := out.Set(i, y); err != nil {
				return err
			}
		}
		return nil
	}

	if u.Slice == nil {
		return errorf(values.ErrType, u.Name, "no slice operation")
	}
	ws, err := windows(in, out)
	if err != nil {
		return err
	}
	defer release(ws)
	iw, ow := ws[0], ws[1]
	dims := iw.Dims()
	batch := dims[:len(dims)-u.Rank]
	outRank, err := outputRank(u.Name, ow, batch)
	if err != nil {
		return err
	}
	inStride := strides(iw)[:len(batch)]
	outStride := strides(ow)[:len(batch)]
	for k := range product(batch) {
		if err := u.slice(iw, ow, outRank,
			batchOffset(k, batch, inStride),
			batchOffset(k, batch, outStride),
		); err != nil {
			return err
		}
	}
	return nil
}

func (u Unary) slice(iw, ow values.Value, outRank, inOffset, outOffset int) error {
	in, err := iw.Subview(u.Rank, inOffset)
	if err != nil {
		return err
	}
	defer in.Release()
	out, err := ow.Subview(outRank, outOffset)
	if err != nil {
		return err
	}
	defer out.Release()
	return u.Slice(in, out)
}
