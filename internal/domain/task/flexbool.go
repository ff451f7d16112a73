package task

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// FlexBool accepts a JSON bool, the strings "true"/"false"/"1"/"0"
// (any case), or the numbers 0 and 1.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := strconv.ParseBool(s)
		if perr != nil {
			return typeError("string")
		}
		*b = FlexBool(parsed)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		switch n.String() {
		case "0":
			*b = false
			return nil
		case "1":
			*b = true
			return nil
		}
		return typeError("number")
	}

	return typeError("value")
}

func typeError(value string) error {
	return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(true)}
}
