package codecs

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/reusee/dynval/values"
)

func DecodeTOML(data []byte) (values.Value, error) {
	var x map[string]any
	if _, err := toml.Decode(string(data), &x); err != nil {
		return values.Value{}, wrap(err)
	}
	return FromAny(x)
}

// EncodeTOML requires a map at the top level.
func EncodeTOML(v values.Value) ([]byte, error) {
	m, ok := ToAny(v).(map[string]any)
	if !ok {
		return nil, errorf(values.ErrType, "encode toml", "top level must be a map, got %v", v.AType())
	}
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(m); err != nil {
		return nil, wrap(err)
	}
	return buf.Bytes(), nil
}
