package values

import (
	"errors"
	"testing"
)

func TestHeapGrowth(t *testing.T) {
	var v Value
	want := []int{1, 2, 4, 4, 8}
	for i, c := range want {
		if err := v.Push(Float(float32(i))); err != nil {
			t.Fatal(err)
		}
		if got := v.Heap().Cap(); got != c {
			t.Fatalf("push %d: got capacity %d, want %d", i+1, got, c)
		}
	}
	if v.AType() != KindFloat {
		t.Fatalf("got %v", v.AType())
	}
	if v.Size() != 5 {
		t.Fatalf("got %v", v.Size())
	}
}

func TestCapacityFor(t *testing.T) {
	for n, want := range map[int]int{
		0: 0, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16, 1000: 1024,
	} {
		if got := capacityFor(n); got != want {
			t.Fatalf("capacityFor(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPresize(t *testing.T) {
	var v Value
	if err := v.Presize(KindDouble, 8); err != nil {
		t.Fatal(err)
	}
	h := v.Heap()
	if h.Cap() != 8 {
		t.Fatalf("got %v", h.Cap())
	}
	if err := v.Resize(3); err != nil {
		t.Fatal(err)
	}
	if err := v.Resize(6); err != nil {
		t.Fatal(err)
	}
	if err := v.Presize(KindDouble, 8); err != nil {
		t.Fatal(err)
	}
	if v.Heap() != h {
		t.Fatal("heap replaced")
	}
	if v.Size() != 8 || h.Cap() != 8 {
		t.Fatalf("got size %d capacity %d", v.Size(), h.Cap())
	}
}

func TestShrinkZeroes(t *testing.T) {
	v := FromSlice([]int64{1, 2, 3, 4})
	if err := v.Resize(2); err != nil {
		t.Fatal(err)
	}
	if err := v.Resize(4); err != nil {
		t.Fatal(err)
	}
	x, err := v.At(3)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := x.Int64(); n != 0 {
		t.Fatalf("got %v", x)
	}
}

func TestCharTerminator(t *testing.T) {
	s := String("abc")
	data := s.Heap().data.([]byte)
	if data[3] != 0 {
		t.Fatalf("got %v", data[3])
	}
	if err := s.Resize(2); err != nil {
		t.Fatal(err)
	}
	data = s.Heap().data.([]byte)
	if data[2] != 0 {
		t.Fatalf("got %v", data[2])
	}
	if str, _ := s.Str(); str != "ab" {
		t.Fatalf("got %q", str)
	}
	if err := s.Push(Char('z')); err != nil {
		t.Fatal(err)
	}
	data = s.Heap().data.([]byte)
	if data[3] != 0 {
		t.Fatalf("got %v", data[3])
	}
	if str, _ := s.Str(); str != "abz" {
		t.Fatalf("got %q", str)
	}
}

func TestDetachAtZero(t *testing.T) {
	h := NewHeap(KindInt, 2)
	defer func() {
		p := recover()
		err, ok := p.(error)
		if !ok || !errors.Is(err, ErrState) {
			t.Fatalf("got %v", p)
		}
	}()
	h.Detach()
}

func TestDestroyOnce(t *testing.T) {
	a := FromSlice([]int32{1, 2})
	h := a.Heap()
	b := a.Share()
	if h.Refs() != 2 {
		t.Fatalf("got %v", h.Refs())
	}
	a.Release()
	if !h.Live() {
		t.Fatal("destroyed early")
	}
	if a.Defined() {
		t.Fatal("released handle still defined")
	}
	b.Release()
	if h.Live() {
		t.Fatal("not destroyed")
	}
	if _, err := h.At(0, false); !errors.Is(err, ErrState) {
		t.Fatalf("got %v", err)
	}
}

func TestDestroyReleasesNested(t *testing.T) {
	inner := String("x")
	l := List(inner)
	if inner.Heap().Refs() != 2 {
		t.Fatalf("got %v", inner.Heap().Refs())
	}
	ih := inner.Heap()
	inner.Release()
	if !ih.Live() {
		t.Fatal("nested value destroyed while stored")
	}
	l.Release()
	if ih.Live() {
		t.Fatal("nested value survived its container")
	}
}

func TestRebindSelf(t *testing.T) {
	x := FromSlice([]float64{1, 2})
	h := x.Heap()
	x.Rebind(x)
	if !h.Live() || h.Refs() != 1 {
		t.Fatalf("live %v refs %v", h.Live(), h.Refs())
	}
	x.Rebind(Long(3))
	if h.Live() {
		t.Fatal("old heap kept")
	}
	if n, _ := x.Int64(); n != 3 {
		t.Fatalf("got %v", x)
	}
}

func TestShiftUnshift(t *testing.T) {
	x := FromSlice([]int32{1, 2, 3})
	first, err := x.Shift()
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := first.Int64(); n != 1 {
		t.Fatalf("got %v", first)
	}
	if err := x.Unshift(Int(9)); err != nil {
		t.Fatal(err)
	}
	if s := x.String(); s != "[9, 2, 3]" {
		t.Fatalf("got %s", s)
	}

	a := String("a")
	l := List(a, String("b"))
	a.Release()
	moved, err := l.Shift()
	if err != nil {
		t.Fatal(err)
	}
	if !moved.Heap().Live() || moved.Heap().Refs() != 1 {
		t.Fatalf("got refs %v", moved.Heap().Refs())
	}
	if s, _ := moved.Str(); s != "a" {
		t.Fatalf("got %q", s)
	}
	if l.Size() != 1 {
		t.Fatalf("got %v", l.Size())
	}
	if vacated := l.Heap().data.([]Value)[1]; vacated.Defined() {
		t.Fatal("vacated slot not reset")
	}

	var empty Value
	if err := empty.Presize(KindInt, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := empty.Shift(); !errors.Is(err, ErrBounds) {
		t.Fatalf("got %v", err)
	}
}

func TestCopyShallow(t *testing.T) {
	a := FromSlice([]float64{1, 2, 3})
	c, err := a.Copy(false)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Set(0, Double(9)); err != nil {
		t.Fatal(err)
	}
	if x, _ := c.At(0); !x.Equal(Double(1)) {
		t.Fatalf("got %v", x)
	}

	aa := List(FromSlice([]int32{1, 2}), FromSlice([]int32{3}))
	cc, err := aa.Copy(false)
	if err != nil {
		t.Fatal(err)
	}
	inner, _ := aa.At(0)
	if err := inner.Set(0, Int(42)); err != nil {
		t.Fatal(err)
	}
	seen, _ := cc.At(0)
	if x, _ := seen.At(0); !x.Equal(Int(42)) {
		t.Fatalf("inner mutation not shared: %v", cc)
	}
	if err := aa.Set(1, Long(5)); err != nil {
		t.Fatal(err)
	}
	if x, _ := cc.At(1); x.Type() != KindArray {
		t.Fatalf("outer slot shared: %v", cc)
	}
	if s := cc.String(); s != "[[42, 2], [3]]" {
		t.Fatalf("got %s", s)
	}
}

func TestCopyAllocOnly(t *testing.T) {
	a := FromSlice([]int64{4, 5})
	c, err := a.Copy(true)
	if err != nil {
		t.Fatal(err)
	}
	if c.AType() != KindLong || c.Size() != 2 {
		t.Fatalf("got %v %v", c.AType(), c.Size())
	}
	if s := c.String(); s != "[0, 0]" {
		t.Fatalf("got %s", s)
	}
}

func TestCopyable(t *testing.T) {
	base := Array(KindDouble, 12)
	v, err := base.View([]int{4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	m, err := base.View([]int{2, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Copyable(FromSlice([]float64{1, 2, 3, 4})) {
		t.Fatal("rank 1 view should accept same-size array")
	}
	if v.Copyable(FromSlice([]float32{1, 2, 3, 4})) {
		t.Fatal("kind mismatch accepted")
	}
	if m.Copyable(FromSlice([]float64{1, 2, 3, 4})) {
		t.Fatal("rank 2 view accepted flat array")
	}
	other, _ := Tensor(KindDouble, 2, 2)
	if !m.Copyable(other) {
		t.Fatal("same shape rejected")
	}
	if base.Copyable(FromSlice([]float64{1})) {
		t.Fatal("plain array reported copyable")
	}
}

func TestSearch(t *testing.T) {
	m, err := Dict(String("b"), Long(2), String("d"), Long(4))
	if err != nil {
		t.Fatal(err)
	}
	h := m.Heap()
	if i := h.Search(String("d")); !i.Defined() || i.Position() != 1 {
		t.Fatalf("got %v", i)
	}
	if i := h.Search(String("c")); i.Defined() || i.Position() != 1 {
		t.Fatalf("got %v", i)
	}
	if i := h.Search(String("a")); i.Defined() || i.Position() != 0 {
		t.Fatalf("got %v", i)
	}
}

func TestViewCannotResize(t *testing.T) {
	base := Array(KindInt, 4)
	v, _ := base.View([]int{2}, 0)
	if err := v.Resize(3); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
	if err := v.Push(Int(1)); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
}
