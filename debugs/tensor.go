package debugs

import (
	"fmt"

	"github.com/reusee/dynval/functors"
	"github.com/reusee/dynval/values"
	"github.com/samber/lo"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tensor exposes an array Value to Starlark. It owns one reference to the array.
type Tensor struct {
	value  values.Value
	frozen bool
}

var (
	_ starlark.Value       = (*Tensor)(nil)
	_ starlark.Indexable   = (*Tensor)(nil)
	_ starlark.HasSetIndex = (*Tensor)(nil)
	_ starlark.HasAttrs    = (*Tensor)(nil)
	_ starlark.HasBinary   = (*Tensor)(nil)
	_ starlark.HasUnary    = (*Tensor)(nil)
)

// NewTensor shares v.
func NewTensor(v values.Value) *Tensor {
	return &Tensor{
		value: v.Share(),
	}
}

// Release drops the reference held by t. Later use sees an undefined value.
func (t *Tensor) Release() {
	t.value.Release()
}

// Value returns the wrapped array, borrowed.
func (t *Tensor) Value() values.Value {
	return t.value
}

func (t *Tensor) String() string {
	return t.value.String()
}

func (t *Tensor) Type() string {
	return "tensor"
}

func (t *Tensor) Freeze() {
	t.frozen = true
}

func (t *Tensor) Truth() starlark.Bool {
	return t.value.Size() > 0
}

func (t *Tensor) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: tensor")
}

// Len is the leading extent.
func (t *Tensor) Len() int {
	if t.value.Dim() == 0 {
		return 0
	}
	n, _ := t.value.Shape(0)
	return n
}

// Index returns element i of a rank-1 array, or row i of a higher rank view.
func (t *Tensor) Index(i int) starlark.Value {
	if t.value.Dim() > 1 {
		stride, err := t.value.Stride(0)
		if err != nil {
			return starlark.None
		}
		row, err := t.value.Subview(t.value.Dim()-1, i*stride)
		if err != nil {
			return starlark.None
		}
		defer row.Release()
		return fromValue(row)
	}
	x, err := t.value.At(i)
	if err != nil {
		return starlark.None
	}
	return fromValue(x)
}

func (t *Tensor) SetIndex(i int, v starlark.Value) error {
	if t.frozen {
		return fmt.Errorf("cannot assign to element of frozen tensor")
	}
	if t.value.Dim() != 1 {
		return errorf(values.ErrShape, "set index", "rank %d tensor", t.value.Dim())
	}
	x, err := FromStarlark(v)
	if err != nil {
		return err
	}
	defer x.Release()
	return t.value.Set(i, x)
}

var tensorAttrs = []string{
	"dims",
	"kind",
	"size",
}

func (t *Tensor) AttrNames() []string {
	return tensorAttrs
}

func (t *Tensor) Attr(name string) (starlark.Value, error) {
	switch name {
	case "dims":
		return starlark.NewList(lo.Map(t.value.Dims(), func(d int, _ int) starlark.Value {
			return starlark.MakeInt(d)
		})), nil
	case "kind":
		return starlark.String(t.value.AType().String()), nil
	case "size":
		return starlark.MakeInt(t.value.Size()), nil
	}
	return nil, nil
}

var binaryOps = map[syntax.Token]functors.Binary{
	syntax.PLUS:  functors.Add,
	syntax.MINUS: functors.Sub,
	syntax.STAR:  functors.Mul,
	syntax.SLASH: functors.Div,
}

func (t *Tensor) Binary(op syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	f, ok := binaryOps[op]
	if !ok {
		return nil, nil
	}
	other, err := FromStarlark(y)
	if err != nil {
		return nil, err
	}
	defer other.Release()
	a, b := t.value, other
	if side == starlark.Right {
		a, b = b, a
	}
	return call(f.Call(a, b))
}

func (t *Tensor) Unary(op syntax.Token) (starlark.Value, error) {
	switch op {
	case syntax.MINUS:
		return call(functors.Neg.Call(t.value))
	case syntax.PLUS:
		return t, nil
	}
	return nil, nil
}

// call converts a freshly allocated result and drops the handle.
func call(v values.Value, err error) (starlark.Value, error) {
	if err != nil {
		return nil, err
	}
	defer v.Release()
	return fromValue(v), nil
}

// fromValue maps scalars and strings to native Starlark values and wraps other arrays.
func fromValue(v values.Value) starlark.Value {
	switch kind := v.Type(); {
	case kind == values.KindUndefined:
		return starlark.None
	case kind.Integral():
		n, _ := v.Int64()
		return starlark.MakeInt64(n)
	case kind.Primitive() && !kind.Complex():
		f, _ := v.Float64()
		return starlark.Float(f)
	}
	if v.IsView() && v.Dim() == 0 {
		x, err := v.At(0)
		if err != nil {
			return starlark.None
		}
		return fromValue(x)
	}
	if s, ok := v.Str(); ok && v.Dim() == 1 {
		return starlark.String(s)
	}
	if v.Heap() != nil && v.AType() == values.KindPair {
		d := starlark.NewDict(v.Size())
		for key, value := range v.Pairs() {
			k := fromValue(key)
			if _, err := k.Hash(); err != nil {
				k = starlark.String(key.String())
			}
			_ = d.SetKey(k, fromValue(value))
		}
		return d
	}
	return NewTensor(v)
}

// FromStarlark returns an owning handle. Homogeneous numeric lists become
// Long or Double arrays; other lists become arrays of Values.
func FromStarlark(x starlark.Value) (values.Value, error) {
	switch x := x.(type) {
	case starlark.NoneType:
		return values.Value{}, nil
	case starlark.Bool:
		if x {
			return values.Int(1), nil
		}
		return values.Int(0), nil
	case starlark.Int:
		n, ok := x.Int64()
		if !ok {
			return values.Value{}, errorf(values.ErrType, "from starlark", "integer %v overflows long", x)
		}
		return values.Long(n), nil
	case starlark.Float:
		return values.Double(float64(x)), nil
	case starlark.String:
		return values.String(string(x)), nil
	case starlark.Bytes:
		return values.Bytes([]byte(x)), nil
	case *Tensor:
		return x.value.Share(), nil
	case *starlark.List:
		return fromIterable(x, x.Len())
	case starlark.Tuple:
		return fromIterable(x, x.Len())
	case *starlark.Dict:
		return fromDict(x)
	}
	return values.Value{}, errorf(values.ErrType, "from starlark", "unsupported %s", x.Type())
}

func fromIterable(x starlark.Indexable, n int) (values.Value, error) {
	items := make([]starlark.Value, n)
	for i := range n {
		items[i] = x.Index(i)
	}

	if n > 0 && lo.EveryBy(items, isInt) {
		ns := make([]int64, 0, n)
		for _, item := range items {
			i, ok := item.(starlark.Int).Int64()
			if !ok {
				return values.Value{}, errorf(values.ErrType, "from starlark", "integer %v overflows long", item)
			}
			ns = append(ns, i)
		}
		return values.FromSlice(ns), nil
	}
	if n > 0 && lo.EveryBy(items, isNumber) {
		fs := make([]float64, 0, n)
		for _, item := range items {
			f, _ := starlark.AsFloat(item)
			fs = append(fs, f)
		}
		return values.FromSlice(fs), nil
	}

	elems := make([]values.Value, 0, n)
	defer func() {
		for i := range elems {
			elems[i].Release()
		}
	}()
	for _, item := range items {
		v, err := FromStarlark(item)
		if err != nil {
			return values.Value{}, err
		}
		elems = append(elems, v)
	}
	return values.List(elems...), nil
}

func isInt(x starlark.Value) bool {
	_, ok := x.(starlark.Int)
	return ok
}

func isNumber(x starlark.Value) bool {
	switch x.(type) {
	case starlark.Int, starlark.Float:
		return true
	}
	return false
}

func fromDict(x *starlark.Dict) (values.Value, error) {
	ret, err := values.Dict()
	if err != nil {
		return values.Value{}, err
	}
	for _, item := range x.Items() {
		if err := setItem(&ret, item[0], item[1]); err != nil {
			ret.Release()
			return values.Value{}, err
		}
	}
	return ret, nil
}

func setItem(m *values.Value, k, v starlark.Value) error {
	key, err := FromStarlark(k)
	if err != nil {
		return err
	}
	defer key.Release()
	value, err := FromStarlark(v)
	if err != nil {
		return err
	}
	defer value.Release()
	ref, err := m.Entry(key)
	if err != nil {
		return err
	}
	return ref.Set(value)
}
