package codecs

import (
	"math/big"
	"reflect"
	"time"

	"github.com/reusee/dynval/values"
	"github.com/samber/lo"
)

// FromAny converts a decoded document into an owning Value. Mappings become
// sorted pair arrays keyed by strings, sequences become arrays of Values.
func FromAny(x any) (values.Value, error) {
	switch x := x.(type) {
	case nil:
		return values.Value{}, nil
	case values.Value:
		return x.Share(), nil
	case bool:
		if x {
			return values.Int(1), nil
		}
		return values.Int(0), nil
	case string:
		return values.String(x), nil
	case []byte:
		return values.Bytes(x), nil
	case int:
		return values.Long(int64(x)), nil
	case int64:
		return values.Long(x), nil
	case float64:
		return values.Double(x), nil
	case *big.Int:
		if !x.IsInt64() {
			return values.Value{}, errorf(values.ErrBounds, "from any", "integer %v overflows long", x)
		}
		return values.Long(x.Int64()), nil
	case *big.Float:
		f, _ := x.Float64()
		return values.Double(f), nil
	case time.Time:
		return values.String(x.Format(time.RFC3339Nano)), nil
	case []any:
		return fromSeq(len(x), func(i int) any { return x[i] })
	case map[string]any:
		return fromMap(lo.ToAnySlice(lo.Keys(x)), func(k any) any { return x[k.(string)] })
	case map[any]any:
		return fromMap(lo.Keys(x), func(k any) any { return x[k] })
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return values.Long(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return values.Long(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return values.Double(rv.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		return values.CDouble(rv.Complex()), nil
	case reflect.Slice, reflect.Array:
		return fromSeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		keys := lo.Map(rv.MapKeys(), func(k reflect.Value, _ int) any {
			return k.Interface()
		})
		return fromMap(keys, func(k any) any {
			return rv.MapIndex(reflect.ValueOf(k)).Interface()
		})
	}
	return values.Value{}, errorf(values.ErrType, "from any", "unsupported %T", x)
}

func fromSeq(n int, get func(int) any) (values.Value, error) {
	ret := values.List()
	for i := range n {
		item, err := FromAny(get(i))
		if err != nil {
			ret.Release()
			return values.Value{}, err
		}
		err = ret.Push(item)
		item.Release()
		if err != nil {
			ret.Release()
			return values.Value{}, err
		}
	}
	return ret, nil
}

func fromMap(keys []any, get func(any) any) (values.Value, error) {
	ret, err := values.Dict()
	if err != nil {
		return values.Value{}, err
	}
	for _, k := range keys {
		if err := setEntry(&ret, k, get(k)); err != nil {
			ret.Release()
			return values.Value{}, err
		}
	}
	return ret, nil
}

func setEntry(m *values.Value, k, v any) error {
	key, err := FromAny(k)
	if err != nil {
		return err
	}
	defer key.Release()
	value, err := FromAny(v)
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

// ToAny converts a Value into plain Go data for the encoders. Char arrays
// become strings, maps become map[string]any, other arrays nest by shape.
// Complex scalars are rendered as literals that Parse reads back.
func ToAny(v values.Value) any {
	switch v.Type() {
	case values.KindUndefined:
		return nil
	case values.KindChar, values.KindInt, values.KindLong:
		n, _ := v.Int64()
		return n
	case values.KindFloat, values.KindDouble:
		f, _ := v.Float64()
		return f
	case values.KindCFloat, values.KindCDouble:
		return v.String()
	}
	if !v.Heap().Live() {
		return nil
	}
	if s, ok := v.Str(); ok && v.Dim() == 1 {
		return s
	}
	if v.AType() == values.KindPair {
		ret := make(map[string]any, v.Size())
		for k, x := range v.Pairs() {
			ret[keyString(k)] = ToAny(x)
		}
		return ret
	}
	dims := v.Dims()
	if len(dims) == 0 {
		x, _ := v.At(0)
		return ToAny(x)
	}
	return nest(v, dims, 0)
}

func keyString(k values.Value) string {
	if s, ok := k.Str(); ok {
		return s
	}
	return k.String()
}

func nest(v values.Value, dims []int, base int) []any {
	ret := make([]any, 0, dims[0])
	block := lo.Reduce(dims[1:], func(acc int, d int, _ int) int {
		return acc * d
	}, 1)
	for i := range dims[0] {
		if len(dims) > 1 {
			ret = append(ret, nest(v, dims[1:], base+i*block))
			continue
		}
		x, _ := v.At(base + i)
		ret = append(ret, ToAny(x))
	}
	return ret
}
