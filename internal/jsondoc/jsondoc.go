// Package jsondoc edits JSON documents without going through the typed
// model. Objects keep their member order and numbers keep their literal
// text, so members the model does not know about are written back as
// they were read.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Object is a JSON object that remembers member order.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

func (o *Object) Keys() []string { return o.keys }

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set replaces an existing member in place or appends a new one.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", k, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Remove deletes the object member or array element pointer names.
func (o *Object) Remove(pointer string) error {
	tokens := Split(pointer)
	if len(tokens) == 0 {
		return errors.New("cannot remove the document root")
	}
	if _, err := remove(o, tokens); err != nil {
		return fmt.Errorf("remove %s: %w", pointer, err)
	}
	return nil
}

// remove returns the updated node. Arrays change identity when an element
// is dropped, so parents store the result back.
func remove(node any, tokens []string) (any, error) {
	head, rest := tokens[0], tokens[1:]
	switch n := node.(type) {
	case *Object:
		child, ok := n.Get(head)
		if !ok {
			return nil, fmt.Errorf("no member %q", head)
		}
		if len(rest) == 0 {
			n.Delete(head)
			return n, nil
		}
		updated, err := remove(child, rest)
		if err != nil {
			return nil, err
		}
		n.Set(head, updated)
		return n, nil
	case []any:
		i, err := strconv.Atoi(head)
		if err != nil || i < 0 || i >= len(n) {
			return nil, fmt.Errorf("index %q out of range", head)
		}
		if len(rest) == 0 {
			return append(n[:i], n[i+1:]...), nil
		}
		updated, err := remove(n[i], rest)
		if err != nil {
			return nil, err
		}
		n[i] = updated
		return n, nil
	default:
		return nil, fmt.Errorf("cannot descend into %T at %q", node, head)
	}
}

// Decode parses JSON or JSONC. The root must be an object.
func Decode(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	root, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, errors.New("unexpected data after the document")
	}
	obj, ok := root.(*Object)
	if !ok {
		return nil, errors.New("document root must be an object")
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := kt.(string)
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected %s", delim)
	}
}

// Encode writes v with two-space indentation and a trailing newline.
// HTML characters are not escaped.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromValue converts a typed value into the ordered representation.
func FromValue(v any) (any, error) {
	data, err := marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeValue(dec)
}

// Canonicalize rewrites integral numbers written with a fraction or an
// exponent ("1.0", "2e3") as plain integers, so they decode into int
// fields. It edits v in place and returns it.
func Canonicalize(v any) any {
	switch n := v.(type) {
	case *Object:
		for _, k := range n.keys {
			n.values[k] = Canonicalize(n.values[k])
		}
	case []any:
		for i := range n {
			n[i] = Canonicalize(n[i])
		}
	case json.Number:
		if !strings.ContainsAny(string(n), ".eE") {
			return n
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return n
		}
		return json.Number(strconv.FormatInt(int64(f), 10))
	}
	return v
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Split returns the unescaped tokens of a JSON pointer.
func Split(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, t := range tokens {
		t = strings.ReplaceAll(t, "~1", "/")
		tokens[i] = strings.ReplaceAll(t, "~0", "~")
	}
	return tokens
}

// Compare orders pointers token by token, comparing array indexes
// numerically so /tabs/2 sorts before /tabs/10. A pointer sorts before
// the pointers below it.
func Compare(a, b string) int {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if an < bn {
				return -1
			}
			return 1
		}
		if as[i] < bs[i] {
			return -1
		}
		return 1
	}
	return len(as) - len(bs)
}
