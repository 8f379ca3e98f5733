package codecs

import (
	"github.com/reusee/dynval/values"
	"gopkg.in/yaml.v3"
)

func DecodeYAML(data []byte) (values.Value, error) {
	var x any
	if err := yaml.Unmarshal(data, &x); err != nil {
		return values.Value{}, wrap(err)
	}
	return FromAny(x)
}

func EncodeYAML(v values.Value) ([]byte, error) {
	data, err := yaml.Marshal(ToAny(v))
	if err != nil {
		return nil, wrap(err)
	}
	return data, nil
}
