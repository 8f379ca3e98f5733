package debugs

import (
	"fmt"
	"reflect"

	"github.com/reusee/dynval/values"
	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
)

// ToStarlark converts Go data for a Starlark thread. Values go through
// fromValue, functions are wrapped as builtins, structs become dicts of their
// exported fields.
func ToStarlark(v any) starlark.Value {
	switch v := v.(type) {
	case nil:
		return starlark.None
	case starlark.Value:
		return v
	case values.Value:
		return fromValue(v)
	case []byte:
		return starlark.Bytes(v)
	case []any:
		return starlark.NewList(listOf(len(v), func(i int) any {
			return v[i]
		}))
	case map[string]any:
		d := starlark.NewDict(len(v))
		for k, e := range v {
			_ = d.SetKey(starlark.String(k), ToStarlark(e))
		}
		return d
	}
	return reflectToStarlark(reflect.ValueOf(v))
}

func listOf(n int, get func(int) any) []starlark.Value {
	elems := make([]starlark.Value, n)
	for i := range n {
		elems[i] = ToStarlark(get(i))
	}
	return elems
}

func reflectToStarlark(value reflect.Value) starlark.Value {
	switch value.Kind() {

	case reflect.Bool:
		return starlark.Bool(value.Bool())

	case reflect.String:
		return starlark.String(value.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(value.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return starlark.MakeUint64(value.Uint())

	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float())

	case reflect.Slice, reflect.Array:
		return starlark.NewList(listOf(value.Len(), func(i int) any {
			return value.Index(i).Interface()
		}))

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			_ = d.SetKey(
				ToStarlark(iter.Key().Interface()),
				ToStarlark(iter.Value().Interface()),
			)
		}
		return d

	case reflect.Struct:
		typ := value.Type()
		d := starlark.NewDict(typ.NumField())
		for i := range typ.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			_ = d.SetKey(
				starlark.String(field.Name),
				ToStarlark(value.Field(i).Interface()),
			)
		}
		return d

	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return starlark.None
		}
		return ToStarlark(value.Elem().Interface())

	case reflect.Func:
		return starlarkutil.MakeFunc("", value.Interface())

	}

	panic(fmt.Errorf("unsupported type for starlark: %v", value.Type()))
}
