package schemakit

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Object is the compiled schema form: an insertion-ordered mapping from field
// key to either a type name (string) or a nested *Object. Objects decoded from
// storage may also hold any other JSON value; Decompile treats those leniently.
//
// The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object { return &Object{} }

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set stores v under key and returns the receiver. An existing key keeps its
// position. On a nil receiver Set allocates and returns a new Object.
func (o *Object) Set(key string, v any) *Object {
	if o == nil {
		o = NewObject()
	}
	if o.values == nil {
		o.values = map[string]any{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// Delete removes key, keeping the order of the remaining keys.
func (o *Object) Delete(key string) {
	if o == nil || o.values == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each entry in order until fn returns false.
func (o *Object) Range(fn func(key string, v any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy. Nested objects and arrays are copied; other
// leaves are immutable values.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{keys: append([]string(nil), o.keys...), values: make(map[string]any, len(o.values))}
	for k, v := range o.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = cloneValue(t[i])
		}
		return arr
	default:
		return v
	}
}

// Equal reports whether both objects hold the same keys in the same order with
// equal values.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	if o.Len() == 0 {
		return true
	}
	for i, k := range o.keys {
		if other.keys[i] != k {
			return false
		}
		if !valuesEqual(o.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valuesEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// MarshalJSON writes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("schemakit: marshal %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object preserving key order, using DefaultDecodeOpt.
func (o *Object) UnmarshalJSON(data []byte) error {
	obj, _, err := DecodeObject(data, DefaultDecodeOpt())
	if err != nil {
		return err
	}
	*o = *obj
	return nil
}

// MarshalYAML emits a block mapping with keys in insertion order.
func (o *Object) MarshalYAML() (any, error) {
	return o.yamlNode()
}

func (o *Object) yamlNode() (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var err error
	o.Range(func(k string, v any) bool {
		var vn *yaml.Node
		switch t := v.(type) {
		case *Object:
			vn, err = t.yamlNode()
		case json.Number:
			vn = &yaml.Node{Kind: yaml.ScalarNode, Value: t.String()}
		default:
			vn = &yaml.Node{}
			err = vn.Encode(t)
		}
		if err != nil {
			return false
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, vn)
		return true
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// UnmarshalYAML decodes a mapping node preserving key order. Later duplicate
// keys overwrite earlier ones.
func (o *Object) UnmarshalYAML(n *yaml.Node) error {
	obj, err := objectFromYAML(n)
	if err != nil {
		return err
	}
	*o = *obj
	return nil
}

func objectFromYAML(n *yaml.Node) (*Object, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return NewObject(), nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schemakit: expected a YAML mapping at line %d, got kind %d", n.Line, n.Kind)
	}
	obj := NewObject()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind == yaml.AliasNode {
			v = v.Alias
		}
		if v.Kind == yaml.MappingNode {
			child, err := objectFromYAML(v)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, child)
			continue
		}
		var leaf any
		if err := v.Decode(&leaf); err != nil {
			return nil, fmt.Errorf("schemakit: yaml key %q: %w", k.Value, err)
		}
		obj.Set(k.Value, leaf)
	}
	return obj, nil
}

// Depth returns the container nesting depth of o as counted by DecodeOpt.MaxDepth:
// an object holding only leaves has depth 1, and every nested object or array
// adds one. A nil object has depth 0.
func (o *Object) Depth() int {
	if o == nil {
		return 0
	}
	deepest := 0
	for _, v := range o.values {
		deepest = max(deepest, valueDepth(v))
	}
	return 1 + deepest
}

func valueDepth(v any) int {
	switch t := v.(type) {
	case *Object:
		return t.Depth()
	case []any:
		deepest := 0
		for _, e := range t {
			deepest = max(deepest, valueDepth(e))
		}
		return 1 + deepest
	default:
		return 0
	}
}

// Fingerprint hashes the canonical JSON form of o. Equal objects have equal
// fingerprints.
func (o *Object) Fingerprint() uint64 {
	b, err := o.MarshalJSON()
	if err != nil {
		return 0
	}
	return xxhash.Sum64(b)
}
