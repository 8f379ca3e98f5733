package values

import (
	"math/bits"
	"slices"

	"github.com/reusee/dynval/indexes"
)

// Heap is a reference-counted resizable buffer holding elements of a single kind.
// A Heap whose view is set stores no elements itself; it windows another Heap.
type Heap struct {
	kind      Kind
	size      int
	capacity  int
	refs      int
	destroyed bool
	// typed slice sized to capacity; char buffers carry one extra terminator slot
	data any
	view *View
}

// NewHeap allocates a Heap of n zero elements. The reference count starts at zero;
// the first owning Value attaches it.
func NewHeap(kind Kind, n int) *Heap {
	if !kind.Primitive() && !kind.owning() {
		panic(errorf(ErrType, "new heap", "invalid element kind %v", kind))
	}
	h := &Heap{
		kind: kind,
		data: makeBuffer(kind, 0),
	}
	if err := h.resize("new heap", n); err != nil {
		panic(err)
	}
	return h
}

func makeBuffer(kind Kind, n int) any {
	switch kind {
	case KindChar:
		return make([]byte, n+1)
	case KindInt:
		return make([]int32, n)
	case KindLong:
		return make([]int64, n)
	case KindFloat:
		return make([]float32, n)
	case KindDouble:
		return make([]float64, n)
	case KindCFloat:
		return make([]complex64, n)
	case KindCDouble:
		return make([]complex128, n)
	case KindValue:
		return make([]Value, n)
	case KindPair:
		return make([]Pair, n)
	}
	panic(errorf(ErrType, "buffer", "invalid element kind %v", kind))
}

// capacityFor leaves tiny sizes unrounded.
func capacityFor(n int) int {
	if n < 3 {
		return n
	}
	return 1 << bits.Len(uint(n-1))
}

func moveInto[T any](dst, src []T, n int) []T {
	copy(dst, src[:n])
	return dst
}

// grow reallocates to capacity n and moves the first size elements.
// Value and Pair elements are moved, so their own reference counts are unchanged.
func (h *Heap) grow(n int) {
	switch data := h.data.(type) {
	case []byte:
		h.data = moveInto(make([]byte, n+1), data, h.size)
	case []int32:
		h.data = moveInto(make([]int32, n), data, h.size)
	case []int64:
		h.data = moveInto(make([]int64, n), data, h.size)
	case []float32:
		h.data = moveInto(make([]float32, n), data, h.size)
	case []float64:
		h.data = moveInto(make([]float64, n), data, h.size)
	case []complex64:
		h.data = moveInto(make([]complex64, n), data, h.size)
	case []complex128:
		h.data = moveInto(make([]complex128, n), data, h.size)
	case []Value:
		h.data = moveInto(make([]Value, n), data, h.size)
	case []Pair:
		h.data = moveInto(make([]Pair, n), data, h.size)
	}
	h.capacity = n
}

// drop tears down elements in [from, to), leaving them zero.
func (h *Heap) drop(from, to int) {
	if from >= to {
		return
	}
	switch data := h.data.(type) {
	case []byte:
		clear(data[from:to])
	case []int32:
		clear(data[from:to])
	case []int64:
		clear(data[from:to])
	case []float32:
		clear(data[from:to])
	case []float64:
		clear(data[from:to])
	case []complex64:
		clear(data[from:to])
	case []complex128:
		clear(data[from:to])
	case []Value:
		for i := from; i < to; i++ {
			data[i].release()
		}
	case []Pair:
		for i := from; i < to; i++ {
			data[i].Key.release()
			data[i].Value.release()
		}
	}
}

func (h *Heap) check(op string) error {
	if h == nil {
		return errorf(ErrState, op, "nil heap")
	}
	if h.destroyed {
		return errorf(ErrState, op, "use of released heap")
	}
	return nil
}

// Attach adds one reference and returns the new count.
func (h *Heap) Attach() int {
	if h.destroyed {
		panic(errorf(ErrState, "attach", "attach to released heap"))
	}
	h.refs++
	return h.refs
}

// Detach drops one reference and returns the remaining count.
// The transition to zero releases every owned element, the target of a view
// and the buffer itself. Detaching an unreferenced heap panics with a State error.
func (h *Heap) Detach() int {
	if h.refs <= 0 {
		panic(errorf(ErrState, "detach", "reference count is already zero"))
	}
	h.refs--
	if h.refs == 0 {
		h.destroy()
	}
	return h.refs
}

func (h *Heap) destroy() {
	if vw := h.view; vw != nil {
		h.view = nil
		vw.target.Detach()
	} else if h.kind.owning() {
		h.drop(0, h.size)
	}
	h.data = nil
	h.size = 0
	h.capacity = 0
	h.destroyed = true
}

func (h *Heap) Refs() int {
	return h.refs
}

// Live reports whether the heap still owns its storage.
func (h *Heap) Live() bool {
	return h != nil && !h.destroyed
}

// Kind returns the element kind; a view reports the kind of the heap it windows.
func (h *Heap) Kind() Kind {
	if h.view != nil {
		return h.view.target.Kind()
	}
	return h.kind
}

// Len returns the visible element count.
func (h *Heap) Len() int {
	if h.view != nil {
		return h.view.Count()
	}
	return h.size
}

// Cap returns the allocated element count, excluding a char terminator.
func (h *Heap) Cap() int {
	if h.view != nil {
		return h.view.Count()
	}
	return h.capacity
}

func (h *Heap) IsView() bool {
	return h.view != nil
}

func (h *Heap) View() *View {
	return h.view
}

// Root returns the heap owning the storage behind any chain of views.
func (h *Heap) Root() *Heap {
	for h.view != nil {
		h = h.view.target
	}
	return h
}

// Resize sets the visible size to n, growing capacity geometrically.
// Capacity never shrinks. Views cannot be resized.
func (h *Heap) Resize(n int) error {
	if h.kind == KindPair && h.view == nil && n > h.size {
		return errorf(ErrType, "resize", "cannot grow a sorted pair array")
	}
	return h.resize("resize", n)
}

func (h *Heap) resize(op string, n int) error {
	if err := h.check(op); err != nil {
		return err
	}
	if h.view != nil {
		return errorf(ErrType, op, "cannot resize a view")
	}
	if n < 0 {
		return errorf(ErrBounds, op, "negative size %d", n)
	}
	if n < h.size {
		h.drop(n, h.size)
	}
	if want := capacityFor(n); want > h.capacity {
		h.grow(want)
	}
	h.size = n
	if data, ok := h.data.([]byte); ok {
		data[n] = 0
	}
	return nil
}

// Copy returns a new heap of the same kind and size. Unless allocOnly is set the
// elements are copied one level deep: nested Values are shared, not duplicated.
//
// For a view, allocOnly=false duplicates the target with its contents and
// allocOnly=true shares the target; the window metadata is copied in both cases.
func (h *Heap) Copy(allocOnly bool) (*Heap, error) {
	if err := h.check("copy"); err != nil {
		return nil, err
	}
	if vw := h.view; vw != nil {
		target := vw.target
		if !allocOnly {
			var err error
			target, err = target.Copy(false)
			if err != nil {
				return nil, err
			}
		}
		return newViewHeap(target, vw.offset, slices.Clone(vw.shape), slices.Clone(vw.stride)), nil
	}
	ret := NewHeap(h.kind, h.size)
	if allocOnly {
		return ret, nil
	}
	switch data := h.data.(type) {
	case []byte:
		copy(ret.data.([]byte), data[:h.size])
	case []int32:
		copy(ret.data.([]int32), data[:h.size])
	case []int64:
		copy(ret.data.([]int64), data[:h.size])
	case []float32:
		copy(ret.data.([]float32), data[:h.size])
	case []float64:
		copy(ret.data.([]float64), data[:h.size])
	case []complex64:
		copy(ret.data.([]complex64), data[:h.size])
	case []complex128:
		copy(ret.data.([]complex128), data[:h.size])
	case []Value:
		dst := ret.data.([]Value)
		for i, v := range data[:h.size] {
			dst[i] = v.Share()
		}
	case []Pair:
		dst := ret.data.([]Pair)
		for i, p := range data[:h.size] {
			dst[i] = Pair{
				Key:   p.Key.Share(),
				Value: p.Value.Share(),
			}
		}
	}
	return ret, nil
}

func shiftDown[T any](s []T, n int) {
	copy(s, s[1:n])
	var zero T
	s[n-1] = zero
}

func shiftUp[T any](s []T, at, n int) {
	copy(s[at+1:n], s[at:n-1])
	var zero T
	s[at] = zero
}

// moveDown removes slot 0 by a block move of the remaining size-1 elements.
// The vacated last slot is reset to empty without releasing, since its content moved.
func (h *Heap) moveDown() {
	switch data := h.data.(type) {
	case []byte:
		shiftDown(data, h.size)
	case []int32:
		shiftDown(data, h.size)
	case []int64:
		shiftDown(data, h.size)
	case []float32:
		shiftDown(data, h.size)
	case []float64:
		shiftDown(data, h.size)
	case []complex64:
		shiftDown(data, h.size)
	case []complex128:
		shiftDown(data, h.size)
	case []Value:
		shiftDown(data, h.size)
	case []Pair:
		shiftDown(data, h.size)
	}
	h.size--
	if data, ok := h.data.([]byte); ok {
		data[h.size] = 0
	}
}

// moveUp opens an empty slot at position at; size already includes it.
func (h *Heap) moveUp(at int) {
	switch data := h.data.(type) {
	case []byte:
		shiftUp(data, at, h.size)
	case []int32:
		shiftUp(data, at, h.size)
	case []int64:
		shiftUp(data, at, h.size)
	case []float32:
		shiftUp(data, at, h.size)
	case []float64:
		shiftUp(data, at, h.size)
	case []complex64:
		shiftUp(data, at, h.size)
	case []complex128:
		shiftUp(data, at, h.size)
	case []Value:
		shiftUp(data, at, h.size)
	case []Pair:
		shiftUp(data, at, h.size)
	}
}

// Shift removes and returns the first element. For pair arrays the value half
// is returned and the key is released.
func (h *Heap) Shift() (Value, error) {
	if err := h.check("shift"); err != nil {
		return Value{}, err
	}
	if h.view != nil {
		return Value{}, errorf(ErrType, "shift", "cannot shift a view")
	}
	if h.size == 0 {
		return Value{}, boundsError("shift", 0, 0)
	}
	first := h.element(0, false)
	if pairs, ok := h.data.([]Pair); ok {
		pairs[0].Key.release()
	}
	h.moveDown()
	return first, nil
}

// Unshift inserts v at the front.
func (h *Heap) Unshift(v Value) error {
	if err := h.check("unshift"); err != nil {
		return err
	}
	if h.kind == KindPair {
		return errorf(ErrType, "unshift", "cannot unshift into a sorted pair array")
	}
	if err := h.resize("unshift", h.size+1); err != nil {
		return err
	}
	h.moveUp(0)
	if err := h.store("unshift", 0, v, false); err != nil {
		h.moveDown()
		return err
	}
	return nil
}

// locate resolves the flat index i through any chain of views to a storage heap
// and a position inside it. Bounds are checked at every level.
func (h *Heap) locate(op string, i int) (*Heap, int, error) {
	for {
		if err := h.check(op); err != nil {
			return nil, 0, err
		}
		if n := h.Len(); i < 0 || i >= n {
			return nil, 0, boundsError(op, i, n)
		}
		if h.view == nil {
			return h, i, nil
		}
		i = h.view.flat(i)
		h = h.view.target
	}
}

// element reads slot i of a storage heap without checks.
// Nested Values are returned borrowed.
func (h *Heap) element(i int, asKey bool) Value {
	switch data := h.data.(type) {
	case []byte:
		return Char(data[i])
	case []int32:
		return Int(data[i])
	case []int64:
		return Long(data[i])
	case []float32:
		return Float(data[i])
	case []float64:
		return Double(data[i])
	case []complex64:
		return CFloat(data[i])
	case []complex128:
		return CDouble(data[i])
	case []Value:
		return data[i]
	case []Pair:
		if asKey {
			return data[i].Key
		}
		return data[i].Value
	}
	return Value{}
}

// store writes v into slot i of a storage heap, converting numeric scalars to
// the element kind. Owned slots attach the new value before releasing the old one.
func (h *Heap) store(op string, i int, v Value, asKey bool) error {
	if v.heap != nil && v.heap.destroyed {
		return errorf(ErrState, op, "store of released value")
	}
	switch data := h.data.(type) {
	case []byte:
		n, err := v.integer(op, h.kind)
		if err != nil {
			return err
		}
		data[i] = byte(n)
	case []int32:
		n, err := v.integer(op, h.kind)
		if err != nil {
			return err
		}
		data[i] = int32(n)
	case []int64:
		n, err := v.integer(op, h.kind)
		if err != nil {
			return err
		}
		data[i] = n
	case []float32:
		f, err := v.real(op, h.kind)
		if err != nil {
			return err
		}
		data[i] = float32(f)
	case []float64:
		f, err := v.real(op, h.kind)
		if err != nil {
			return err
		}
		data[i] = f
	case []complex64:
		c, err := v.complex(op, h.kind)
		if err != nil {
			return err
		}
		data[i] = complex64(c)
	case []complex128:
		c, err := v.complex(op, h.kind)
		if err != nil {
			return err
		}
		data[i] = c
	case []Value:
		old := data[i]
		data[i] = v.Share()
		old.release()
	case []Pair:
		if asKey {
			return errorf(ErrType, op, "keys of a sorted pair array are read-only")
		}
		old := data[i].Value
		data[i].Value = v.Share()
		old.release()
	}
	return nil
}

// At returns element i. For pair arrays asKey selects the key half.
func (h *Heap) At(i int, asKey bool) (Value, error) {
	s, j, err := h.locate("at", i)
	if err != nil {
		return Value{}, err
	}
	if asKey && s.kind != KindPair {
		return Value{}, errorf(ErrType, "at", "%v array has no keys", s.kind)
	}
	return s.element(j, asKey), nil
}

// Copyable reports whether other can be written elementwise into h: h must be a
// view, other must have the same element kind and the same full shape, or for a
// rank-1 view the same raw size.
func (h *Heap) Copyable(other *Heap) bool {
	if h == nil || other == nil || h.view == nil || !h.Live() || !other.Live() {
		return false
	}
	if h.Kind() != other.Kind() {
		return false
	}
	if other.view == nil {
		return h.view.Rank() == 1 && other.Len() == h.Len()
	}
	return slices.Equal(h.view.shape, other.view.shape)
}

// Search binary-searches the keys of a pair array. A defined result is the
// position of key; an undefined one encodes the sorted insertion point.
// Through a view the window is scanned and positions are logical indexes.
func (h *Heap) Search(key Value) indexes.Index {
	if h.view != nil {
		return h.scan(key)
	}
	pairs, ok := h.data.([]Pair)
	if !ok {
		return indexes.Missing(0)
	}
	i, found := slices.BinarySearchFunc(pairs[:h.size], key, func(p Pair, k Value) int {
		return Compare(p.Key, k)
	})
	if found {
		return indexes.Of(i)
	}
	return indexes.Missing(i)
}

// scan finds key in a windowed pair array, whose entries need not be in key order.
func (h *Heap) scan(key Value) indexes.Index {
	if h.Kind() != KindPair {
		return indexes.Missing(0)
	}
	n := h.Len()
	for i := range n {
		k, err := h.At(i, true)
		if err != nil {
			break
		}
		if Compare(k, key) == 0 {
			return indexes.Of(i)
		}
	}
	return indexes.Missing(n)
}

// insertPair opens slot at in a pair array and stores key with an undefined value.
func (h *Heap) insertPair(at int, key Value) error {
	if err := h.resize("insert", h.size+1); err != nil {
		return err
	}
	h.moveUp(at)
	h.data.([]Pair)[at].Key = key.Share()
	return nil
}
