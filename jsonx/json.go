package jsonx

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return jsonx.Marshal(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return jsonx.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v interface{}) error {
	return jsonx.Unmarshal(data, v)
}

// Convert re-encodes src into dst. Used to hand loosely typed provider
// results to typed callers.
func Convert(src interface{}, dst interface{}) error {
	data, err := jsonx.Marshal(src)
	if err != nil {
		return err
	}
	return jsonx.Unmarshal(data, dst)
}
