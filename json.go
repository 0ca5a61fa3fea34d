package qstree

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// MarshalJSON encodes a tree as JSON. Object key order is preserved and gaps
// encode as null. Invalid UTF-8 left over from percent-decoding is replaced
// rather than rejected.
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(v, jsontext.AllowInvalidUTF8(true))
}

// Unmarshalers returns the JSON unmarshalers needed to decode into a Value
// (interface) target:
//   - objects  -> *Object, key order preserved
//   - arrays   -> *List
//   - strings  -> Scalar
//   - null     -> Gap
//   - numbers and booleans -> Scalar holding their literal text
//
// Targets of type *Object or *List decode through their own
// UnmarshalJSONFrom and need no option.
func Unmarshalers() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *Value) error {
		val, err := decodeValue(dec)
		if err != nil {
			return err
		}
		*v = val
		return nil
	})
}

// MarshalJSONTo writes the object as a JSON object in key order.
func (o *Object) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, e := range o.entries {
		if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
			return err
		}
		if err := encodeValue(enc, e.Value); err != nil {
			return fmt.Errorf("write value for key %q: %w", e.Key, err)
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

// MarshalJSONTo writes the list as a JSON array.
func (l *List) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for i, v := range l.items {
		if err := encodeValue(enc, v); err != nil {
			return fmt.Errorf("write element %d: %w", i, err)
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

// MarshalJSONTo writes the scalar as a JSON string.
func (s Scalar) MarshalJSONTo(enc *jsontext.Encoder) error {
	return enc.WriteToken(jsontext.String(string(s)))
}

// MarshalJSONTo writes null.
func (Gap) MarshalJSONTo(enc *jsontext.Encoder) error {
	return enc.WriteToken(jsontext.Null)
}

func encodeValue(enc *jsontext.Encoder, v Value) error {
	switch v := v.(type) {
	case nil:
		return enc.WriteToken(jsontext.Null)
	case *Object:
		return v.MarshalJSONTo(enc)
	case *List:
		return v.MarshalJSONTo(enc)
	case Scalar:
		return v.MarshalJSONTo(enc)
	case Gap:
		return v.MarshalJSONTo(enc)
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
}

// UnmarshalJSONFrom decodes a JSON object, keeping key order. Any other JSON
// kind is an error.
func (o *Object) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if k := dec.PeekKind(); k != '{' {
		return fmt.Errorf("decode object: unexpected %v", k)
	}
	val, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*o = *val
	return nil
}

// UnmarshalJSONFrom decodes a JSON array. Any other JSON kind is an error.
func (l *List) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if k := dec.PeekKind(); k != '[' {
		return fmt.Errorf("decode list: unexpected %v", k)
	}
	val, err := decodeArray(dec)
	if err != nil {
		return err
	}
	*l = *val
	return nil
}

func decodeValue(dec *jsontext.Decoder) (Value, error) {
	switch dec.PeekKind() {
	case '{':
		return decodeObject(dec)
	case '[':
		return decodeArray(dec)
	case 'n':
		if _, err := dec.ReadToken(); err != nil {
			return nil, fmt.Errorf("read null: %w", err)
		}
		return Gap{}, nil
	case '"':
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, fmt.Errorf("read string: %w", err)
		}
		return Scalar(tok.String()), nil
	default:
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("read literal: %w", err)
		}
		return Scalar(raw), nil
	}
}

// decodeObject decodes a JSON object into an *Object, keeping key order.
func decodeObject(dec *jsontext.Decoder) (*Object, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, fmt.Errorf("read object open: %w", err)
	}
	obj := NewObject()
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		key := tok.String()
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("read object value for key %q: %w", key, err)
		}
		obj.Set(key, val)
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, fmt.Errorf("read object close: %w", err)
	}
	return obj, nil
}

// decodeArray decodes a JSON array into a *List.
func decodeArray(dec *jsontext.Decoder) (*List, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	list := NewList()
	for dec.PeekKind() != ']' {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("read array element: %w", err)
		}
		list.Append(val)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return list, nil
}
