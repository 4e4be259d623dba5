package schemakit

import (
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	js "github.com/reoring/schemakit/jsonschema"
)

// Compile flattens t into its schema object. Fields with a blank key are
// skipped together with their subtree; nested fields compile recursively (an
// empty group compiles to {}); primitive fields map to their type name.
// Duplicate sibling keys are not detected: the last one wins and the first one
// fixes the position.
func Compile(t Tree) *Object {
	return compileNodes(t.roots)
}

func compileNodes(list []*node) *Object {
	obj := NewObject()
	for _, n := range list {
		if isBlank(n.key) {
			continue
		}
		if n.typ == TypeNested {
			obj.Set(n.key, compileNodes(n.children))
			continue
		}
		obj.Set(n.key, string(n.typ))
	}
	return obj
}

// Decompile rebuilds an editable tree from a schema object. A mapping value
// becomes a nested field; any other value becomes a primitive field typed by
// the value when it names a primitive type and string otherwise. Lock state is
// not persisted, so every field comes back unlocked.
func Decompile(o *Object) Tree {
	return Tree{roots: decompileObject(o)}
}

func decompileObject(o *Object) []*node {
	if o.Len() == 0 {
		return nil
	}
	out := make([]*node, 0, o.Len())
	o.Range(func(k string, v any) bool {
		if child, ok := v.(*Object); ok {
			out = append(out, &node{key: k, typ: TypeNested, children: decompileObject(child)})
			return true
		}
		typ := TypeString
		if s, ok := v.(string); ok && FieldType(s).IsPrimitive() {
			typ = FieldType(s)
		}
		out = append(out, &node{key: k, typ: typ})
		return true
	})
	return out
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// PreviewJSON renders the compiled form of t as JSON indented by two spaces.
func PreviewJSON(t Tree) ([]byte, error) {
	return json.MarshalIndent(Compile(t), "", "  ")
}

// PreviewYAML renders the compiled form of t as a YAML block mapping.
func PreviewYAML(t Tree) ([]byte, error) {
	return yaml.Marshal(Compile(t))
}

// objectIDPattern matches a 24 digit hex object identifier.
const objectIDPattern = "^[0-9a-fA-F]{24}$"

// JSONSchema projects o into a JSON Schema document. Every compiled key is
// required and unknown properties are rejected, mirroring the closed shape of
// the compiled object. Leaves that name no known type project to strings, as
// Decompile treats them.
func (o *Object) JSONSchema() *js.Schema {
	s := objectSchema(o)
	s.Dialect = js.Draft
	return s
}

// PreviewJSONSchema renders the JSON Schema projection of t's compiled form.
func PreviewJSONSchema(t Tree) ([]byte, error) {
	return js.Marshal(Compile(t).JSONSchema())
}

func objectSchema(o *Object) *js.Schema {
	closed := false
	s := &js.Schema{Type: "object", Properties: &js.Properties{}, AdditionalProperties: &closed}
	o.Range(func(k string, v any) bool {
		s.Properties.Set(k, valueSchema(v))
		s.Required = append(s.Required, k)
		return true
	})
	return s
}

func valueSchema(v any) *js.Schema {
	if child, ok := v.(*Object); ok {
		return objectSchema(child)
	}
	name, _ := v.(string)
	switch FieldType(name) {
	case TypeNumber:
		return &js.Schema{Type: "number"}
	case TypeFloat:
		return &js.Schema{Type: "number", Format: "float"}
	case TypeBoolean:
		return &js.Schema{Type: "boolean"}
	case TypeObjectID:
		return &js.Schema{Type: "string", Pattern: objectIDPattern}
	default:
		return &js.Schema{Type: "string"}
	}
}
