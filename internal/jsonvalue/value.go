// Package jsonvalue implements the order-preserving JSON value model
// that the query engine's matcher runs against. It is the one concrete
// implementation of query.Value the CLI uses; libraries embedding the
// engine may supply their own.
//
// A plain map[string]any loses object key order on decode, which breaks
// the matcher's document-order guarantee. Preserving it requires walking
// the decoder's token stream directly rather than unmarshaling into a
// map.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/micahkepe/jsongrep/internal/query"
)

// Value implements query.Value over a document decoded by Decode. It is
// built once and is immutable thereafter, exactly like a compiled DFA.
type Value struct {
	kind query.Kind
	b    bool
	num  json.Number
	str  string
	arr  []*Value
	obj  *orderedmap.OrderedMap[string, *Value]
}

// Kind reports the JSON variant v holds.
func (v *Value) Kind() query.Kind { return v.kind }

// ArrayLen reports v's element count, or 0 if v is not an array.
func (v *Value) ArrayLen() int {
	if v.kind != query.KindArray {
		return 0
	}
	return len(v.arr)
}

// ArrayAt returns v's i'th element. Panics if v is not an array or i is
// out of range, mirroring slice semantics.
func (v *Value) ArrayAt(i int) query.Value { return v.arr[i] }

// ObjectEach iterates v's members in source key order; a no-op if v is not
// an object.
func (v *Value) ObjectEach(fn func(key string, child query.Value)) {
	if v.kind != query.KindObject || v.obj == nil {
		return
	}
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// MarshalJSON renders v back to compact JSON, preserving source object key
// order. It lets a host print a matched sub-tree without depending on this
// package's concrete representation.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case query.KindNull:
		buf.WriteString("null")
	case query.KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case query.KindNumber:
		buf.WriteString(v.num.String())
	case query.KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case query.KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case query.KindObject:
		buf.WriteByte('{')
		i := 0
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(pair.Key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := pair.Value.encode(buf); err != nil {
				return err
			}
			i++
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsonvalue: unknown kind %d", v.kind)
	}
	return nil
}

// String renders v as compact JSON, or "<invalid>" if marshaling fails
// (which cannot happen for a value this package produced).
func (v *Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(b)
}

// Pretty renders v as indented JSON, two spaces per level.
func Pretty(v *Value) (string, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Depth walks v once and returns its tree depth, root counted as 1,
// mirroring the CLI's --depth flag.
func Depth(v *Value) int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case query.KindArray:
		max := 0
		for _, e := range v.arr {
			if d := Depth(e); d > max {
				max = d
			}
		}
		return 1 + max
	case query.KindObject:
		max := 0
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			if d := Depth(pair.Value); d > max {
				max = d
			}
		}
		return 1 + max
	default:
		return 1
	}
}

// Decode reads exactly one JSON value from r, preserving object key order.
// Decoding happens once via a single streaming pass over a json.Decoder
// token stream, the only encoding/json entry point that exposes object
// keys in source order; the resulting tree is then immutable.
func Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("jsonvalue: trailing data after top-level JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("jsonvalue: unexpected delimiter %q", t)
		}
	case nil:
		return &Value{kind: query.KindNull}, nil
	case bool:
		return &Value{kind: query.KindBool, b: t}, nil
	case json.Number:
		return &Value{kind: query.KindNumber, num: t}, nil
	case string:
		return &Value{kind: query.KindString, str: t}, nil
	default:
		return nil, fmt.Errorf("jsonvalue: unexpected token %T", tok)
	}
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	om := orderedmap.New[string, *Value]()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("jsonvalue: expected object key, got %v", keyTok)
		}
		child, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		om.Set(key, child)
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, err
	}
	return &Value{kind: query.KindObject, obj: om}, nil
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	var items []*Value
	for dec.More() {
		child, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, child)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, err
	}
	return &Value{kind: query.KindArray, arr: items}, nil
}
