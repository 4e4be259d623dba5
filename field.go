package schemakit

import "fmt"

// Field is a detached, mutable description of one node and its subtree. It is
// how callers seed a Tree and how snapshots leave it; a Tree never aliases a
// Field's Children slice.
type Field struct {
	Key      string    `json:"key" yaml:"key"`
	Type     FieldType `json:"type" yaml:"type"`
	Children []Field   `json:"children,omitempty" yaml:"children,omitempty"`
	Locked   bool      `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// NewField returns the default field appended by AddField.
func NewField() Field { return Field{Type: TypeString} }

// node is the immutable tree representation. Nodes are never written after
// construction, so subtrees are shared freely between Tree values.
type node struct {
	key      string
	typ      FieldType
	children []*node
	locked   bool
}

func newNode(f Field) *node {
	n := &node{key: f.Key, typ: f.Type, locked: f.Locked}
	if !n.typ.Valid() {
		n.typ = TypeString
	}
	if n.typ == TypeNested {
		n.children = newNodes(f.Children)
	}
	return n
}

func newNodes(fs []Field) []*node {
	if len(fs) == 0 {
		return nil
	}
	out := make([]*node, len(fs))
	for i := range fs {
		out[i] = newNode(fs[i])
	}
	return out
}

func (n *node) field() Field {
	f := Field{Key: n.key, Type: n.typ, Locked: n.locked}
	if n.typ == TypeNested {
		f.Children = fieldsOf(n.children)
		if f.Children == nil {
			f.Children = []Field{}
		}
	}
	return f
}

func fieldsOf(ns []*node) []Field {
	if ns == nil {
		return nil
	}
	out := make([]Field, len(ns))
	for i, n := range ns {
		out[i] = n.field()
	}
	return out
}

// Node is a read-only view of one tree node. The zero Node reports empty
// values.
type Node struct{ n *node }

func (v Node) Exists() bool { return v.n != nil }

func (v Node) Key() string {
	if v.n == nil {
		return ""
	}
	return v.n.key
}

func (v Node) Type() FieldType {
	if v.n == nil {
		return ""
	}
	return v.n.typ
}

func (v Node) Locked() bool { return v.n != nil && v.n.locked }

// Len returns the number of children.
func (v Node) Len() int {
	if v.n == nil {
		return 0
	}
	return len(v.n.children)
}

// Child returns the i-th child, or the zero Node when i is out of range.
func (v Node) Child(i int) Node {
	if v.n == nil || i < 0 || i >= len(v.n.children) {
		return Node{}
	}
	return Node{v.n.children[i]}
}

// Field returns a deep snapshot of the subtree rooted at v.
func (v Node) Field() Field {
	if v.n == nil {
		return Field{}
	}
	return v.n.field()
}

// FieldPatch carries a partial update; nil members are left unchanged.
type FieldPatch struct {
	Key      *string
	Type     *FieldType
	Children *[]Field
	Locked   *bool
}

func PatchKey(key string) FieldPatch       { return FieldPatch{Key: &key} }
func PatchType(t FieldType) FieldPatch     { return FieldPatch{Type: &t} }
func PatchLocked(locked bool) FieldPatch   { return FieldPatch{Locked: &locked} }
func PatchChildren(fs ...Field) FieldPatch { return FieldPatch{Children: &fs} }

// Merge returns p overlaid with the members set in o.
func (p FieldPatch) Merge(o FieldPatch) FieldPatch {
	if o.Key != nil {
		p.Key = o.Key
	}
	if o.Type != nil {
		p.Type = o.Type
	}
	if o.Children != nil {
		p.Children = o.Children
	}
	if o.Locked != nil {
		p.Locked = o.Locked
	}
	return p
}

// ChangesIdentity reports whether applying p to v would change its key or type.
func (p FieldPatch) ChangesIdentity(v Node) bool {
	return (p.Key != nil && *p.Key != v.Key()) || (p.Type != nil && *p.Type != v.Type())
}

func (p FieldPatch) apply(n *node) (*node, error) {
	cp := *n
	if p.Key != nil {
		cp.key = *p.Key
	}
	if p.Type != nil {
		if !p.Type.Valid() {
			return nil, fmt.Errorf("%w %q", ErrUnknownType, *p.Type)
		}
		cp.typ = *p.Type
	}
	if p.Children != nil {
		cp.children = newNodes(*p.Children)
	}
	if p.Locked != nil {
		cp.locked = *p.Locked
	}
	// primitive kinds never carry children
	if cp.typ != TypeNested {
		cp.children = nil
	}
	return &cp, nil
}
