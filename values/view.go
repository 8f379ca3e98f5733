package values

import (
	"slices"

	"github.com/samber/lo"
)

// View describes a strided window into another heap. It holds exactly one
// reference to its target for as long as the view heap is alive.
type View struct {
	target *Heap
	offset int
	shape  []int
	stride []int
}

// rowMajor computes strides right to left, so the leftmost dimension has the largest stride.
func rowMajor(dims []int) []int {
	stride := make([]int, len(dims))
	s := 1
	for d := len(dims) - 1; d >= 0; d-- {
		stride[d] = s
		s *= dims[d]
	}
	return stride
}

func product(dims []int) int {
	return lo.Reduce(dims, func(acc int, d int, _ int) int {
		return acc * d
	}, 1)
}

func newViewHeap(target *Heap, offset int, shape, stride []int) *Heap {
	target.Attach()
	return &Heap{
		kind: target.Kind(),
		view: &View{
			target: target,
			offset: offset,
			shape:  shape,
			stride: stride,
		},
	}
}

// NewView builds a row-major window of the given extents starting at offset.
func NewView(target *Heap, dims []int, offset int) (*Heap, error) {
	if err := target.check("view"); err != nil {
		return nil, err
	}
	for _, d := range dims {
		if d < 0 {
			return nil, errorf(ErrShape, "view", "negative extent in %v", dims)
		}
	}
	vw := &View{
		target: target,
		offset: offset,
		shape:  slices.Clone(dims),
		stride: rowMajor(dims),
	}
	if err := vw.fits("view", offset); err != nil {
		return nil, err
	}
	return newViewHeap(target, offset, vw.shape, vw.stride), nil
}

// WrapView windows the whole of target as a rank-1 view.
func WrapView(target *Heap) (*Heap, error) {
	if err := target.check("view"); err != nil {
		return nil, err
	}
	return NewView(target, []int{target.Len()}, 0)
}

// NewViewOf is NewView with the extents read from an integral array Value.
func NewViewOf(target *Heap, shape Value, offset int) (*Heap, error) {
	dims, err := shape.ints("view")
	if err != nil {
		return nil, err
	}
	return NewView(target, dims, offset)
}

// span is one past the last target position addressed relative to the offset.
func (vw *View) span() int {
	last := 0
	for d, n := range vw.shape {
		if n == 0 {
			return 0
		}
		last += (n - 1) * vw.stride[d]
	}
	return last + 1
}

func (vw *View) fits(op string, offset int) error {
	if offset < 0 {
		return errorf(ErrBounds, op, "negative offset %d", offset)
	}
	if end, n := offset+vw.span(), vw.target.Len(); end > n {
		return errorf(ErrBounds, op, "window [%d,%d) exceeds target size %d", offset, end, n)
	}
	return nil
}

// flat maps a row-major logical index to a target position.
func (vw *View) flat(i int) int {
	off := vw.offset
	for d := len(vw.shape) - 1; d >= 0; d-- {
		n := vw.shape[d]
		off += (i % n) * vw.stride[d]
		i /= n
	}
	return off
}

func (vw *View) Target() *Heap {
	return vw.target
}

func (vw *View) Rank() int {
	return len(vw.shape)
}

func (vw *View) Count() int {
	return product(vw.shape)
}

func (vw *View) Offset() int {
	return vw.offset
}

// Dims returns a copy of the extents.
func (vw *View) Dims() []int {
	return slices.Clone(vw.shape)
}

func (vw *View) Shape(d int) (int, error) {
	if d < 0 || d >= len(vw.shape) {
		return 0, boundsError("shape", d, len(vw.shape))
	}
	return vw.shape[d], nil
}

func (vw *View) Stride(d int) (int, error) {
	if d < 0 || d >= len(vw.stride) {
		return 0, boundsError("stride", d, len(vw.stride))
	}
	return vw.stride[d], nil
}

// SetOffset relocates the window without touching data.
func (vw *View) SetOffset(offset int) error {
	if err := vw.fits("offset", offset); err != nil {
		return err
	}
	vw.offset = offset
	return nil
}

// Subview keeps the trailing dim extents, dropping the leading rank-dim ones.
// offset is relative to this window's offset. The result shares the target.
func (vw *View) Subview(dim, offset int) (*Heap, error) {
	if dim < 0 || dim > len(vw.shape) {
		return nil, boundsError("subview", dim, len(vw.shape)+1)
	}
	cut := len(vw.shape) - dim
	sub := &View{
		target: vw.target,
		shape:  slices.Clone(vw.shape[cut:]),
		stride: slices.Clone(vw.stride[cut:]),
	}
	if err := sub.fits("subview", vw.offset+offset); err != nil {
		return nil, err
	}
	return newViewHeap(vw.target, vw.offset+offset, sub.shape, sub.stride), nil
}

// Transpose swaps the trailing two extents and their strides. No data moves.
func (vw *View) Transpose() error {
	r := len(vw.shape)
	if r < 2 {
		return errorf(ErrShape, "transpose", "rank %d view has no trailing pair", r)
	}
	vw.shape[r-1], vw.shape[r-2] = vw.shape[r-2], vw.shape[r-1]
	vw.stride[r-1], vw.stride[r-2] = vw.stride[r-2], vw.stride[r-1]
	return nil
}
