package values

import (
	"errors"
	"slices"
	"testing"
)

func iota64(n int) Value {
	xs := make([]int64, n)
	for i := range xs {
		xs[i] = int64(i)
	}
	return FromSlice(xs)
}

func mustAt(t *testing.T, v Value, i int) Value {
	t.Helper()
	x, err := v.At(i)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func mustInt(t *testing.T, v Value, i int) int64 {
	t.Helper()
	n, err := mustAt(t, v, i).Int64()
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestViewWritesThrough(t *testing.T) {
	b := Array(KindFloat, 12)
	for i := range 12 {
		if err := b.Set(i, Float(float32(i))); err != nil {
			t.Fatal(err)
		}
	}
	v, err := b.View([]int{4}, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 4 {
		r, err := v.Index(i)
		if err != nil {
			t.Fatal(err)
		}
		x, err := r.Get()
		if err != nil {
			t.Fatal(err)
		}
		y, err := Add(x, Float(1))
		if err != nil {
			t.Fatal(err)
		}
		if err := r.Set(y); err != nil {
			t.Fatal(err)
		}
	}
	for i := range 12 {
		want := float64(i)
		if i >= 4 && i < 8 {
			want++
		}
		got, _ := mustAt(t, b, i).Float64()
		if got != want {
			t.Fatalf("b[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestViewStrides(t *testing.T) {
	x, err := Tensor(KindDouble, 2, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	for d, want := range []int{12, 4, 1} {
		got, err := x.Stride(d)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("stride %d: got %d", d, got)
		}
	}
	if n, _ := x.Shape(0); n != 2 {
		t.Fatalf("got %v", n)
	}
	if _, err := x.Shape(3); !errors.Is(err, ErrBounds) {
		t.Fatalf("got %v", err)
	}
	if x.Size() != 24 || x.Dim() != 3 {
		t.Fatalf("got size %d dim %d", x.Size(), x.Dim())
	}
}

func TestViewBounds(t *testing.T) {
	b := Array(KindLong, 12)
	if _, err := b.View([]int{4}, 9); !errors.Is(err, ErrBounds) {
		t.Fatalf("got %v", err)
	}
	if _, err := b.View([]int{-1}, 0); !errors.Is(err, ErrShape) {
		t.Fatalf("got %v", err)
	}
	v, err := b.View([]int{4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.SetOffset(8); err != nil {
		t.Fatal(err)
	}
	if err := v.SetOffset(9); !errors.Is(err, ErrBounds) {
		t.Fatalf("got %v", err)
	}
	if v.Heap().View().Offset() != 8 {
		t.Fatalf("got %v", v.Heap().View().Offset())
	}
	if _, err := v.At(4); !errors.Is(err, ErrBounds) {
		t.Fatalf("got %v", err)
	}
	if err := b.SetOffset(1); !errors.Is(err, ErrShape) {
		t.Fatalf("got %v", err)
	}
	if _, err := Long(1).View([]int{1}, 0); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
}

func TestViewHoldsTarget(t *testing.T) {
	b := Array(KindDouble, 12)
	h := b.Heap()
	v, err := b.View([]int{4}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if h.Refs() != 2 {
		t.Fatalf("got %v", h.Refs())
	}
	b.Release()
	if !h.Live() {
		t.Fatal("target released under a view")
	}
	if _, err := v.At(3); err != nil {
		t.Fatal(err)
	}
	v.Release()
	if h.Live() {
		t.Fatal("target kept after last view")
	}
}

func TestTransposeInPlace(t *testing.T) {
	base := iota64(6)
	v, err := base.View([]int{3, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	old := func(i, j int) int64 {
		return int64(i*2 + j)
	}
	if err := v.Transpose(); err != nil {
		t.Fatal(err)
	}
	if dims := v.Dims(); !slices.Equal(dims, []int{2, 3}) {
		t.Fatalf("got %v", dims)
	}
	for i := range 2 {
		for j := range 3 {
			if got := mustInt(t, v, i*3+j); got != old(j, i) {
				t.Fatalf("(%d,%d) = %d, want %d", i, j, got, old(j, i))
			}
		}
	}
	for k := range 6 {
		if got := mustInt(t, base, k); got != int64(k) {
			t.Fatalf("data moved: %v", base)
		}
	}
	if s := v.String(); s != "[[0, 2, 4], [1, 3, 5]]" {
		t.Fatalf("got %s", s)
	}
	if err := base.Transpose(); !errors.Is(err, ErrShape) {
		t.Fatalf("got %v", err)
	}
	flat, _ := base.View([]int{6}, 0)
	if err := flat.Transpose(); !errors.Is(err, ErrShape) {
		t.Fatalf("got %v", err)
	}
}

func TestTransposeInto(t *testing.T) {
	base := iota64(6)
	v, _ := base.View([]int{3, 2}, 0)
	out, err := Tensor(KindLong, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.TransposeInto(out); err != nil {
		t.Fatal(err)
	}
	for i := range 2 {
		for j := range 3 {
			if got, want := mustInt(t, out, i*3+j), mustInt(t, v, j*2+i); got != want {
				t.Fatalf("(%d,%d) = %d, want %d", i, j, got, want)
			}
		}
	}

	alias, _ := base.View([]int{2, 3}, 0)
	if err := v.TransposeInto(alias); !errors.Is(err, ErrAliasing) {
		t.Fatalf("got %v", err)
	}
	wrong, _ := Tensor(KindLong, 3, 2)
	if err := v.TransposeInto(wrong); !errors.Is(err, ErrShape) {
		t.Fatalf("got %v", err)
	}
}

func TestSubview(t *testing.T) {
	base := iota64(12)
	m, err := base.View([]int{3, 4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	row, err := m.Subview(1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if dims := row.Dims(); !slices.Equal(dims, []int{4}) {
		t.Fatalf("got %v", dims)
	}
	if err := row.Set(0, Long(99)); err != nil {
		t.Fatal(err)
	}
	if got := mustInt(t, base, 4); got != 99 {
		t.Fatalf("got %v", got)
	}

	// offsets are relative to the parent window
	tail, _ := base.View([]int{2, 4}, 4)
	second, err := tail.Subview(1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := mustInt(t, second, 0); got != 8 {
		t.Fatalf("got %v", got)
	}
	if _, err := tail.Subview(1, 5); !errors.Is(err, ErrBounds) {
		t.Fatalf("got %v", err)
	}

	cell, err := m.Subview(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if cell.Dim() != 0 || cell.Size() != 1 {
		t.Fatalf("got dim %d size %d", cell.Dim(), cell.Size())
	}
	if s := cell.String(); s != "5" {
		t.Fatalf("got %s", s)
	}
}

func TestSubviewOfPlainArray(t *testing.T) {
	base := iota64(6)
	h := base.Heap()
	sub, err := base.Subview(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if h.Refs() != 2 {
		t.Fatalf("got %v", h.Refs())
	}
	if got := mustInt(t, sub, 0); got != 2 {
		t.Fatalf("got %v", got)
	}
	if sub.Size() != 1 {
		t.Fatalf("got %v", sub.Size())
	}
	if _, err := base.Subview(1, 2); !errors.Is(err, ErrBounds) {
		t.Fatalf("got %v", err)
	}
	if h.Refs() != 2 {
		t.Fatalf("wrapper leaked a reference: %v", h.Refs())
	}
}

func TestViewOf(t *testing.T) {
	base := iota64(12)
	v, err := base.ViewOf(FromSlice([]int32{2, 2}), 8)
	if err != nil {
		t.Fatal(err)
	}
	if dims := v.Dims(); !slices.Equal(dims, []int{2, 2}) {
		t.Fatalf("got %v", dims)
	}
	if got := mustInt(t, v, 3); got != 11 {
		t.Fatalf("got %v", got)
	}
	if _, err := base.ViewOf(Double(2), 0); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
	if _, err := base.ViewOf(FromSlice([]float64{2}), 0); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
}

func TestCopyView(t *testing.T) {
	base := iota64(8)
	v, _ := base.View([]int{2, 2}, 4)
	deep, err := v.Copy(false)
	if err != nil {
		t.Fatal(err)
	}
	if SameStorage(v, deep) {
		t.Fatal("copy shares target")
	}
	if !deep.Equal(v) {
		t.Fatalf("got %v", deep)
	}
	shallow, err := v.Copy(true)
	if err != nil {
		t.Fatal(err)
	}
	if !SameStorage(v, shallow) {
		t.Fatal("alloc-only copy of a view should share the target")
	}
	if err := v.SetOffset(0); err != nil {
		t.Fatal(err)
	}
	if got := mustInt(t, shallow, 0); got != 4 {
		t.Fatalf("window metadata shared: %v", got)
	}
}

func TestAssignView(t *testing.T) {
	b := Array(KindFloat, 12)
	dst, _ := b.View([]int{4}, 4)
	h := dst.Heap()
	src := FromSlice([]float32{1, 2, 3, 4})
	if err := dst.Assign(src); err != nil {
		t.Fatal(err)
	}
	if dst.Heap() != h {
		t.Fatal("view rebound")
	}
	if s := b.String(); s != "[0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0]" {
		t.Fatalf("got %s", s)
	}

	if err := dst.AssignInto(Float(7)); err != nil {
		t.Fatal(err)
	}
	if s := dst.String(); s != "[7, 7, 7, 7]" {
		t.Fatalf("got %s", s)
	}
	if err := dst.AssignInto(FromSlice([]float32{1, 2})); !errors.Is(err, ErrShape) {
		t.Fatalf("got %v", err)
	}

	p := Array(KindFloat, 4)
	if err := p.Assign(src); err != nil {
		t.Fatal(err)
	}
	if p.Heap() != src.Heap() {
		t.Fatal("plain array should rebind")
	}
}
