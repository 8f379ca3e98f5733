package codecs

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/reusee/dynval/values"
)

// DecodeCUE evaluates a CUE or JSON document. name is used in diagnostics.
func DecodeCUE(name string, data []byte) (values.Value, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return values.Value{}, wrap(err)
	}
	return FromCUE(value)
}

// FromCUE converts a concrete CUE value.
func FromCUE(value cue.Value) (values.Value, error) {
	var x any
	if err := value.Decode(&x); err != nil {
		return values.Value{}, wrap(err)
	}
	return FromAny(x)
}

func EncodeJSON(v values.Value) ([]byte, error) {
	ctx := cuecontext.New()
	value := ctx.Encode(ToAny(v))
	if err := value.Err(); err != nil {
		return nil, wrap(err)
	}
	data, err := value.MarshalJSON()
	if err != nil {
		return nil, wrap(err)
	}
	return data, nil
}
