package functors

import (
	"slices"

	"github.com/reusee/dynval/values"
)

// NAry aligns any number of operands on a common trailing rank. The operand of
// highest rank leads; every other operand's dims must be a suffix of its dims.
type NAry struct {
	Name     string
	Rank     int
	Slice    func(ins []values.Value, out values.Value) error
	Allocate func(ins []values.Value) (values.Value, error)
	Whole    func(ins []values.Value, out values.Value) error
}

// lead validates operands and returns the index of the leading one.
func (f NAry) lead(ins []values.Value) (int, error) {
	if len(ins) == 0 {
		return 0, errorf(values.ErrShape, f.Name, "no operands")
	}
	if err := checkDefined(f.Name, ins...); err != nil {
		return 0, err
	}
	lead := 0
	for i, in := range ins {
		if in.Type() != values.KindArray {
			return 0, errorf(values.ErrShape, f.Name, "operand %d is a %v scalar", i, in.Type())
		}
		if ka, kb := ins[0].AType(), in.AType(); ka != kb {
			return 0, errorf(values.ErrType, f.Name, "element kinds differ: %v and %v", ka, kb)
		}
		if r := in.Dim(); r < f.Rank {
			return 0, errorf(values.ErrShape, f.Name, "operand %d rank %d below %d", i, r, f.Rank)
		}
		if in.Dim() > ins[lead].Dim() {
			lead = i
		}
	}
	dims := ins[lead].Dims()
	for i, in := range ins {
		if d := in.Dims(); !isSuffix(d, dims) {
			return 0, errorf(values.ErrShape, f.Name, "cannot broadcast operand %d %v against %v", i, d, dims)
		}
	}
	return lead, nil
}

func (f NAry) Call(ins ...values.Value) (values.Value, error) {
	lead, err := f.lead(ins)
	if err != nil {
		return values.Value{}, err
	}
	var out values.Value
	if f.Allocate != nil {
		out, err = f.Allocate(ins)
	} else {
		out, err = Like(ins[lead], ins[lead].AType())
	}
	if err != nil {
		return values.Value{}, err
	}
	if err := f.Into(ins, out); err != nil {
		out.Release()
		return values.Value{}, err
	}
	return out, nil
}

func (f NAry) Into(ins []values.Value, out values.Value) error {
	if f.Whole != nil {
		return f.Whole(ins, out)
	}
	return f.Broadcast(ins, out)
}

// Broadcast gathers one window per operand for every batch element of the
// leading operand and invokes Slice with the list. For elementwise operations,
// operands aliasing out through another window are copied first.
func (f NAry) Broadcast(ins []values.Value, out values.Value) error {
	lead, err := f.lead(ins)
	if err != nil {
		return err
	}
	if err := checkDefined(f.Name, out); err != nil {
		return err
	}
	if f.Slice == nil {
		return errorf(values.ErrType, f.Name, "no slice operation")
	}
	ins = slices.Clone(ins)
	for i, in := range ins {
		if f.Rank > 0 {
			break
		}
		c, copied, err := snapshot(in, out)
		if err != nil {
			return err
		}
		if copied {
			ins[i] = c
			defer ins[i].Release()
		}
	}

	ws, err := windows(ins...)
	if err != nil {
		return err
	}
	defer release(ws)
	ow, err := out.Window()
	if err != nil {
		return err
	}
	defer ow.Release()

	dims := ws[lead].Dims()
	batch := dims[:len(dims)-f.Rank]
	outRank, err := outputRank(f.Name, ow, batch)
	if err != nil {
		return err
	}
	inStrides := make([][]int, len(ws))
	for i, w := range ws {
		inStrides[i] = strides(w)[:w.Dim()-f.Rank]
	}
	outStride := strides(ow)[:len(batch)]
	buf := make([]values.Value, len(ws))
	for k := range product(batch) {
		if err := f.slice(ws, inStrides, buf, ow, outRank, k, batch, outStride); err != nil {
			return err
		}
	}
	return nil
}

func (f NAry) slice(ws []values.Value, inStrides [][]int, buf []values.Value, ow values.Value, outRank, k int, batch, outStride []int) error {
	defer release(buf)
	for i, w := range ws {
		s, err := w.Subview(f.Rank, batchOffset(k, batch, inStrides[i]))
		if err != nil {
			return err
		}
		buf[i] = s
	}
	out, err := ow.Subview(outRank, batchOffset(k, batch, outStride))
	if err != nil {
		return err
	}
	defer out.Release()
	return f.Slice(buf, out)
}
