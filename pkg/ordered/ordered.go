// Package ordered decodes JSON documents while preserving object key order.
//
// npm reports dependencies as JSON objects, and the order of their keys is
// the order in which the resolved tree must be traversed. encoding/json
// decodes objects into Go maps, which lose that order, so this package builds
// a small value tree from the token stream instead.
//
// Duplicate keys follow the usual JSON object semantics of JavaScript
// runtimes: the key keeps the position of its first appearance and takes the
// value of its last.
package ordered

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind identifies the JSON type of a [Value].
type Kind int

// JSON value kinds.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a decoded JSON value.
type Value struct {
	Kind Kind

	// Text holds the contents of a string, the literal of a number
	// (e.g. "0", "1.5e3") or "true"/"false" for booleans.
	Text string

	// Fields holds the members of an object in document order.
	Fields []Field

	// Items holds the elements of an array.
	Items []*Value

	index map[string]int
}

// Field is one member of a JSON object.
type Field struct {
	Key   string
	Value *Value
}

// ErrTrailingData is returned when a document holds more than one value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Parse decodes a single JSON document.
func Parse(data []byte) (*Value, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a single JSON document from r.
func Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, ErrTrailingData
		}
		return nil, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return &Value{Kind: String, Text: t}, nil
	case json.Number:
		return &Value{Kind: Number, Text: t.String()}, nil
	case bool:
		if t {
			return &Value{Kind: Bool, Text: "true"}, nil
		}
		return &Value{Kind: Bool, Text: "false"}, nil
	case nil:
		return &Value{Kind: Null}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	obj := &Value{Kind: Object}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	arr := &Value{Kind: Array}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func (v *Value) set(key string, val *Value) {
	if v.index == nil {
		v.index = make(map[string]int)
	}
	if i, ok := v.index[key]; ok {
		v.Fields[i].Value = val
		return
	}
	v.index[key] = len(v.Fields)
	v.Fields = append(v.Fields, Field{Key: key, Value: val})
}

// Get returns the member named key of an object.
// It reports false for missing keys and for values that are not objects.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	if v.index != nil {
		if i, ok := v.index[key]; ok {
			return v.Fields[i].Value, true
		}
		return nil, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// IsObject reports whether v is a JSON object.
func (v *Value) IsObject() bool { return v != nil && v.Kind == Object }

// IsString reports whether v is a JSON string.
func (v *Value) IsString() bool { return v != nil && v.Kind == String }
