package codecs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/reusee/dynval/values"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

var extensions = map[string]Format{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
	".json": FormatJSON,
	".cue":  FormatCUE,
}

// FormatOf picks the format from a file name's extension.
func FormatOf(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	format, ok := extensions[ext]
	if !ok {
		return "", errorf(values.ErrType, "format", "unknown document extension %q", ext)
	}
	return format, nil
}

func ParseFormat(s string) (Format, error) {
	switch format := Format(strings.ToLower(s)); format {
	case FormatYAML, FormatTOML, FormatJSON, FormatCUE:
		return format, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errorf(values.ErrType, "format", "unknown format %q", s)
}

// Decode parses data according to the extension of name.
func Decode(name string, data []byte) (values.Value, error) {
	format, err := FormatOf(name)
	if err != nil {
		return values.Value{}, err
	}
	switch format {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatTOML:
		return DecodeTOML(data)
	}
	return DecodeCUE(name, data)
}

// Encode renders v; CUE output is written as JSON, which is valid CUE.
func Encode(format Format, v values.Value) ([]byte, error) {
	switch format {
	case FormatYAML:
		return EncodeYAML(v)
	case FormatTOML:
		return EncodeTOML(v)
	case FormatJSON, FormatCUE:
		return EncodeJSON(v)
	}
	return nil, errorf(values.ErrType, "encode", "unknown format %q", format)
}

func ReadFile(path string) (values.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return values.Value{}, wrap(err)
	}
	return Decode(path, data)
}
