package values

import (
	"iter"
	"slices"
)

// Value is a dynamically typed handle: undefined, an inline scalar, or an
// owning handle to a Heap. The zero Value is undefined.
//
// A Value obtained from a constructor, Share or Copy owns one reference to its
// heap. Values read out of containers, and plain Go copies, are borrowed.
type Value struct {
	kind Kind
	num  int64
	cpx  complex128
	heap *Heap
}

func Char(c byte) Value {
	return Value{kind: KindChar, num: int64(c)}
}

func Int(i int32) Value {
	return Value{kind: KindInt, num: int64(i)}
}

func Long(i int64) Value {
	return Value{kind: KindLong, num: i}
}

func Float(f float32) Value {
	return Value{kind: KindFloat, cpx: complex(float64(f), 0)}
}

func Double(f float64) Value {
	return Value{kind: KindDouble, cpx: complex(f, 0)}
}

func CFloat(c complex64) Value {
	return Value{kind: KindCFloat, cpx: complex128(c)}
}

func CDouble(c complex128) Value {
	return Value{kind: KindCDouble, cpx: c}
}

// FromHeap returns an owning handle to h.
func FromHeap(h *Heap) Value {
	h.Attach()
	return Value{kind: KindArray, heap: h}
}

func String(s string) Value {
	h := NewHeap(KindChar, len(s))
	copy(h.data.([]byte), s)
	return FromHeap(h)
}

// Bytes copies a raw buffer into a char array.
func Bytes(b []byte) Value {
	h := NewHeap(KindChar, len(b))
	copy(h.data.([]byte), b)
	return FromHeap(h)
}

type Primitive interface {
	byte | int32 | int64 | float32 | float64 | complex64 | complex128
}

func kindOf[T Primitive]() Kind {
	var zero T
	switch any(zero).(type) {
	case byte:
		return KindChar
	case int32:
		return KindInt
	case int64:
		return KindLong
	case float32:
		return KindFloat
	case float64:
		return KindDouble
	case complex64:
		return KindCFloat
	}
	return KindCDouble
}

// FromSlice copies xs into an array of the matching element kind.
func FromSlice[T Primitive](xs []T) Value {
	h := NewHeap(kindOf[T](), len(xs))
	copy(h.data.([]T), xs)
	return FromHeap(h)
}

// List builds an array of nested Values, sharing each item.
func List(items ...Value) Value {
	h := NewHeap(KindValue, len(items))
	data := h.data.([]Value)
	for i, item := range items {
		data[i] = item.Share()
	}
	return FromHeap(h)
}

// Dict builds an associative array from alternating keys and values.
// Later duplicates overwrite earlier ones.
func Dict(kvs ...Value) (Value, error) {
	if len(kvs)%2 != 0 {
		return Value{}, errorf(ErrShape, "dict", "odd number of arguments: %d", len(kvs))
	}
	var ret Value
	if err := ret.ensureMap("dict"); err != nil {
		return Value{}, err
	}
	for i := 0; i < len(kvs); i += 2 {
		ref, err := ret.Entry(kvs[i])
		if err != nil {
			return Value{}, err
		}
		if err := ref.Set(kvs[i+1]); err != nil {
			return Value{}, err
		}
	}
	return ret, nil
}

// Array allocates n zero elements of kind. It panics with a Shape *Error when
// n is negative and a Type *Error when kind is not an element kind.
func Array(kind Kind, n int) Value {
	if n < 0 {
		panic(errorf(ErrShape, "array", "negative size %d", n))
	}
	return FromHeap(NewHeap(kind, n))
}

// Tensor allocates a dense row-major view of the given extents.
func Tensor(kind Kind, dims ...int) (Value, error) {
	for _, d := range dims {
		if d < 0 {
			return Value{}, errorf(ErrShape, "tensor", "negative extent in %v", dims)
		}
	}
	base := NewHeap(kind, product(dims))
	h, err := NewView(base, dims, 0)
	if err != nil {
		return Value{}, err
	}
	return FromHeap(h), nil
}

func (v Value) Defined() bool {
	return v.kind != KindUndefined
}

// Type returns KindArray for heap-backed values, the scalar kind otherwise.
func (v Value) Type() Kind {
	return v.kind
}

// AType returns the element kind of an array, KindUndefined otherwise.
func (v Value) AType() Kind {
	if v.heap == nil {
		return KindUndefined
	}
	return v.heap.Kind()
}

func (v Value) Heap() *Heap {
	return v.heap
}

func (v Value) IsView() bool {
	return v.heap != nil && v.heap.view != nil
}

func (v Value) Size() int {
	switch {
	case v.heap != nil:
		if !v.heap.Live() {
			return 0
		}
		return v.heap.Len()
	case v.kind == KindUndefined:
		return 0
	}
	return 1
}

// Dim is the rank: a view's rank, 1 for plain arrays, 0 for scalars.
func (v Value) Dim() int {
	switch {
	case v.IsView():
		return v.heap.view.Rank()
	case v.heap != nil:
		return 1
	}
	return 0
}

// Dims returns the full shape.
func (v Value) Dims() []int {
	switch {
	case v.IsView():
		return v.heap.view.Dims()
	case v.heap != nil:
		return []int{v.Size()}
	}
	return nil
}

func (v Value) Shape(d int) (int, error) {
	if v.IsView() {
		return v.heap.view.Shape(d)
	}
	dims := v.Dims()
	if d < 0 || d >= len(dims) {
		return 0, boundsError("shape", d, len(dims))
	}
	return dims[d], nil
}

func (v Value) Stride(d int) (int, error) {
	if v.IsView() {
		return v.heap.view.Stride(d)
	}
	if d != 0 || v.heap == nil {
		return 0, boundsError("stride", d, v.Dim())
	}
	return 1, nil
}

// Share attaches one more reference and returns the new owning handle.
func (v Value) Share() Value {
	if v.heap != nil {
		v.heap.Attach()
	}
	return v
}

// Release drops the handle's reference and leaves v undefined.
func (v *Value) Release() {
	v.release()
}

func (v *Value) release() {
	if v.heap != nil {
		v.heap.Detach()
	}
	*v = Value{}
}

// replaceHeap binds v to h, attaching before detaching the previous heap.
func (v *Value) replaceHeap(h *Heap) {
	h.Attach()
	old := v.heap
	*v = Value{kind: KindArray, heap: h}
	if old != nil {
		old.Detach()
	}
}

// Rebind points v at rhs's storage. The new heap is attached before the old
// one is detached, so self-assignment never frees storage in use.
func (v *Value) Rebind(rhs Value) {
	if rhs.heap != nil {
		rhs.heap.Attach()
	}
	old := v.heap
	*v = rhs
	if old != nil {
		old.Detach()
	}
}

// Copyable reports whether rhs can be broadcast-copied into v's existing storage.
func (v Value) Copyable(rhs Value) bool {
	return v.heap != nil && v.heap.Copyable(rhs.heap)
}

// AssignInto writes rhs elementwise into v's storage. rhs must be copyable into
// v or hold a single element, which is broadcast to every slot.
func (v Value) AssignInto(rhs Value) error {
	if v.heap == nil {
		return errorf(ErrType, "assign", "cannot write into %v", v.kind)
	}
	if err := v.heap.check("assign"); err != nil {
		return err
	}
	n := v.heap.Len()
	if rhs.Size() == 1 {
		x, err := rhs.At(0)
		if err != nil {
			return err
		}
		for i := range n {
			if err := v.Set(i, x); err != nil {
				return err
			}
		}
		return nil
	}
	if !v.Copyable(rhs) {
		return errorf(ErrShape, "assign", "cannot write %v %v into %v %v",
			rhs.AType(), rhs.Dims(), v.AType(), v.Dims())
	}
	// read everything first, rhs may alias the destination
	src := make([]Value, n)
	for i := range n {
		x, err := rhs.At(i)
		if err != nil {
			return err
		}
		src[i] = x
	}
	for i, x := range src {
		if err := v.Set(i, x); err != nil {
			return err
		}
	}
	return nil
}

// Assign writes rhs into v's storage when v is a view copyable from rhs,
// and rebinds v otherwise.
func (v *Value) Assign(rhs Value) error {
	if v.Copyable(rhs) {
		return v.AssignInto(rhs)
	}
	v.Rebind(rhs)
	return nil
}

// Index returns a write-through reference to slot i, growing plain arrays as needed.
// An undefined v becomes an array of Values.
func (v *Value) Index(i int) (Ref, error) {
	if i < 0 {
		return Ref{}, boundsError("index", i, v.Size())
	}
	switch {
	case v.kind == KindUndefined:
		v.replaceHeap(NewHeap(KindValue, i+1))
	case v.heap == nil:
		return Ref{}, errorf(ErrType, "index", "cannot index %v", v.kind)
	default:
		if err := v.heap.check("index"); err != nil {
			return Ref{}, err
		}
		if i >= v.heap.Len() {
			if err := v.heap.Resize(i + 1); err != nil {
				return Ref{}, err
			}
		}
	}
	return Ref{heap: v.heap, index: i}, nil
}

// ensureMap converts v to a sorted pair array on first keyed use.
// Existing elements become entries keyed by their Long position.
func (v *Value) ensureMap(op string) error {
	switch {
	case v.kind == KindUndefined:
		v.replaceHeap(NewHeap(KindPair, 0))
		return nil
	case v.heap == nil:
		return errorf(ErrType, op, "cannot key into %v", v.kind)
	}
	h := v.heap
	if err := h.check(op); err != nil {
		return err
	}
	if h.view != nil {
		return errorf(ErrType, op, "cannot key into a view")
	}
	if h.kind == KindPair {
		return nil
	}
	pairs := NewHeap(KindPair, h.size)
	data := pairs.data.([]Pair)
	for i := range h.size {
		data[i] = Pair{
			Key:   Long(int64(i)),
			Value: h.element(i, false).Share(),
		}
	}
	v.replaceHeap(pairs)
	return nil
}

// Entry returns a write-through reference to the value stored under key,
// inserting an undefined entry at the sorted position if key is absent.
func (v *Value) Entry(key Value) (Ref, error) {
	if !key.Defined() {
		return Ref{}, errorf(ErrState, "entry", "undefined key")
	}
	if err := v.ensureMap("entry"); err != nil {
		return Ref{}, err
	}
	h := v.heap
	pos := h.Search(key)
	if !pos.Defined() {
		if err := h.insertPair(pos.Position(), key); err != nil {
			return Ref{}, err
		}
	}
	return Ref{heap: h, index: pos.Position()}, nil
}

// Lookup returns the value stored under key, or undefined.
func (v Value) Lookup(key Value) Value {
	if v.heap == nil || !v.heap.Live() {
		return Value{}
	}
	pos := v.heap.Search(key)
	if !pos.Defined() {
		return Value{}
	}
	x, err := v.heap.At(pos.Position(), false)
	if err != nil {
		return Value{}
	}
	return x
}

func (v Value) Has(key Value) bool {
	return v.heap != nil && v.heap.Live() && v.heap.Search(key).Defined()
}

// At returns element i; a scalar is its own element 0.
func (v Value) At(i int) (Value, error) {
	switch {
	case v.heap != nil:
		return v.heap.At(i, false)
	case v.kind == KindUndefined:
		return Value{}, errorf(ErrState, "at", "use of undefined value")
	case i != 0:
		return Value{}, boundsError("at", i, 1)
	}
	return v, nil
}

// KeyAt returns the key of entry i of an associative array.
func (v Value) KeyAt(i int) (Value, error) {
	if v.heap == nil {
		return Value{}, errorf(ErrType, "key", "%v has no keys", v.kind)
	}
	return v.heap.At(i, true)
}

// Set writes x at flat index i without growing.
func (v Value) Set(i int, x Value) error {
	if v.heap == nil {
		return errorf(ErrType, "set", "cannot write into %v", v.kind)
	}
	s, j, err := v.heap.locate("set", i)
	if err != nil {
		return err
	}
	return s.store("set", j, x, false)
}

func (v *Value) adopt(op string, x Value) error {
	switch {
	case v.kind == KindUndefined:
		kind := KindValue
		if x.kind.Primitive() {
			kind = x.kind
		}
		v.replaceHeap(NewHeap(kind, 0))
	case v.heap == nil:
		return errorf(ErrType, op, "%v is not an array", v.kind)
	}
	return nil
}

// Push appends x. An undefined v becomes an array of x's kind.
func (v *Value) Push(x Value) error {
	if err := v.adopt("push", x); err != nil {
		return err
	}
	h := v.heap
	n := h.Len()
	if err := h.Resize(n + 1); err != nil {
		return err
	}
	if err := h.store("push", n, x, false); err != nil {
		_ = h.Resize(n)
		return err
	}
	return nil
}

func (v *Value) Unshift(x Value) error {
	if err := v.adopt("unshift", x); err != nil {
		return err
	}
	return v.heap.Unshift(x)
}

func (v *Value) Shift() (Value, error) {
	if v.heap == nil {
		return Value{}, errorf(ErrType, "shift", "%v is not an array", v.kind)
	}
	return v.heap.Shift()
}

// Resize sets the element count. An undefined v becomes an array of Values.
func (v *Value) Resize(n int) error {
	switch {
	case v.kind == KindUndefined:
		v.replaceHeap(NewHeap(KindValue, 0))
	case v.heap == nil:
		return errorf(ErrType, "resize", "%v is not an array", v.kind)
	}
	return v.heap.Resize(n)
}

// Presize makes v an array of n elements of kind, reusing the current heap
// and its capacity when the kind already matches.
func (v *Value) Presize(kind Kind, n int) error {
	if h := v.heap; h != nil && h.Live() && h.view == nil && h.kind == kind {
		return h.Resize(n)
	}
	if n < 0 {
		return errorf(ErrBounds, "presize", "negative size %d", n)
	}
	v.replaceHeap(NewHeap(kind, n))
	return nil
}

// Copy duplicates the heap one level deep; see Heap.Copy.
func (v Value) Copy(allocOnly bool) (Value, error) {
	if v.heap == nil {
		return v, nil
	}
	h, err := v.heap.Copy(allocOnly)
	if err != nil {
		return Value{}, err
	}
	return FromHeap(h), nil
}

// View windows v's storage with the given extents starting at offset.
func (v Value) View(dims []int, offset int) (Value, error) {
	if v.heap == nil {
		return Value{}, errorf(ErrType, "view", "cannot view %v", v.kind)
	}
	h, err := NewView(v.heap, dims, offset)
	if err != nil {
		return Value{}, err
	}
	return FromHeap(h), nil
}

// ViewOf is View with a dynamic-rank shape array.
func (v Value) ViewOf(shape Value, offset int) (Value, error) {
	if v.heap == nil {
		return Value{}, errorf(ErrType, "view", "cannot view %v", v.kind)
	}
	h, err := NewViewOf(v.heap, shape, offset)
	if err != nil {
		return Value{}, err
	}
	return FromHeap(h), nil
}

// discard drops a heap nobody else references.
func discard(h *Heap) {
	h.Attach()
	h.Detach()
}

// Window returns v as a view; plain arrays are wrapped as rank-1 views.
func (v Value) Window() (Value, error) {
	if v.IsView() {
		return v.Share(), nil
	}
	if v.heap == nil {
		return Value{}, errorf(ErrType, "window", "cannot view %v", v.kind)
	}
	h, err := WrapView(v.heap)
	if err != nil {
		return Value{}, err
	}
	return FromHeap(h), nil
}

// Subview keeps the trailing dim extents of v; see View.Subview.
func (v Value) Subview(dim, offset int) (Value, error) {
	if v.heap == nil {
		return Value{}, errorf(ErrType, "subview", "cannot view %v", v.kind)
	}
	vh := v.heap
	if vh.view == nil {
		wrapped, err := WrapView(vh)
		if err != nil {
			return Value{}, err
		}
		defer discard(wrapped)
		vh = wrapped
	}
	h, err := vh.view.Subview(dim, offset)
	if err != nil {
		return Value{}, err
	}
	return FromHeap(h), nil
}

func (v Value) viewOp(op string) (*View, error) {
	if !v.IsView() {
		return nil, errorf(ErrShape, op, "%v %v is not a view", v.kind, v.Dims())
	}
	if err := v.heap.check(op); err != nil {
		return nil, err
	}
	return v.heap.view, nil
}

// SetOffset relocates a view's window in place.
func (v Value) SetOffset(offset int) error {
	vw, err := v.viewOp("offset")
	if err != nil {
		return err
	}
	return vw.SetOffset(offset)
}

// Transpose swaps the trailing two dimensions of a view in place, moving no data.
func (v Value) Transpose() error {
	vw, err := v.viewOp("transpose")
	if err != nil {
		return err
	}
	return vw.Transpose()
}

// TransposeInto writes v transposed over its trailing two dimensions into out.
func (v Value) TransposeInto(out Value) error {
	dims := v.Dims()
	r := len(dims)
	if r < 2 {
		return errorf(ErrShape, "transpose", "rank %d value has no trailing pair", r)
	}
	want := slices.Clone(dims)
	want[r-1], want[r-2] = want[r-2], want[r-1]
	if got := out.Dims(); !slices.Equal(got, want) {
		return errorf(ErrShape, "transpose", "output shape %v, want %v", got, want)
	}
	if SameStorage(v, out) {
		return errorf(ErrAliasing, "transpose", "output shares storage with input")
	}
	idx := make([]int, r)
	outStride := rowMajor(want)
	for i := range product(dims) {
		rest := i
		for d := r - 1; d >= 0; d-- {
			idx[d] = rest % dims[d]
			rest /= dims[d]
		}
		idx[r-1], idx[r-2] = idx[r-2], idx[r-1]
		j := 0
		for d, n := range idx {
			j += n * outStride[d]
		}
		x, err := v.At(i)
		if err != nil {
			return err
		}
		if err := out.Set(j, x); err != nil {
			return err
		}
	}
	return nil
}

// All iterates elements in row-major order.
func (v Value) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i := range v.Size() {
			x, err := v.At(i)
			if err != nil {
				return
			}
			if !yield(i, x) {
				return
			}
		}
	}
}

// Pairs iterates the entries of an associative array in key order.
func (v Value) Pairs() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		h := v.heap
		if h == nil || !h.Live() {
			return
		}
		pairs, ok := h.data.([]Pair)
		if !ok {
			return
		}
		for i := 0; i < h.size; i++ {
			if !yield(pairs[i].Key, pairs[i].Value) {
				return
			}
		}
	}
}

// Str returns the contents of a char array.
func (v Value) Str() (string, bool) {
	if v.heap == nil || !v.heap.Live() || v.heap.Kind() != KindChar {
		return "", false
	}
	if v.heap.view == nil {
		return string(v.heap.data.([]byte)[:v.heap.size]), true
	}
	buf := make([]byte, 0, v.heap.Len())
	for _, x := range v.All() {
		buf = append(buf, byte(x.num))
	}
	return string(buf), true
}

func (v Value) Equal(o Value) bool {
	return Compare(v, o) == 0
}

// SameStorage reports whether a and b resolve to the same storage heap.
func SameStorage(a, b Value) bool {
	if a.heap == nil || b.heap == nil {
		return false
	}
	return a.heap.Root() == b.heap.Root()
}
