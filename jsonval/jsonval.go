// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

// Package jsonval models JSON values with object member order preserved,
// which the ABI codec needs since struct fields are positional on the wire.
//
// A value is one of:
//
//	nil, bool, string, json.Number (parsed input),
//	int64, uint64, *big.Int, float32, float64 (decoder output),
//	[]any, Object
package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object whose members keep their source order.
type Object []Member

// Get returns the value for key and whether the key is present.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set appends or replaces the member with the given key.
func (o Object) Set(key string, value any) Object {
	for i, m := range o {
		if m.Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Member{Key: key, Value: value})
}

// Parse reads a single JSON value. Numbers are kept as json.Number so that
// 64-bit integers survive without a float round-trip; object member order is
// preserved.
func Parse(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	default:
		// nil, bool, string or json.Number
		return tok, nil
	}
}

func parseObject(dec *json.Decoder) (Object, error) {
	obj := Object{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

// Marshal writes a value in the codec's canonical JSON form:
//   - 128-bit integers (*big.Int) are double-quoted, 64-bit integers are not
//   - floats never use scientific notation and integral floats carry no
//     trailing ".0"
//   - object members appear in stored order
func Marshal(v any) (string, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case string:
		escaped, err := json.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(escaped)
	case json.Number:
		buf.WriteString(x.String())
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(x, 10))
	case *big.Int:
		buf.WriteByte('"')
		buf.WriteString(x.String())
		buf.WriteByte('"')
	case float32:
		buf.WriteString(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case float64:
		buf.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
	case []any:
		buf.WriteByte('[')
		for i, elem := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			escaped, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(escaped)
			buf.WriteByte(':')
			if err := writeValue(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot marshal value of type %T", v)
	}
	return nil
}
