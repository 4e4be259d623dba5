package schemakit

import (
	"errors"
	"fmt"
)

// Tree is an ordered forest of fields. A Tree is a persistent value: every
// mutation returns a new Tree that shares all untouched subtrees with the
// receiver, and the receiver stays valid and unchanged. The zero Tree is empty.
type Tree struct {
	roots []*node
}

// NewTree builds a tree from detached fields. The input is copied.
func NewTree(fields ...Field) Tree {
	return Tree{roots: newNodes(fields)}
}

// Len returns the number of root fields.
func (t Tree) Len() int { return len(t.roots) }

// Root returns the i-th root field, or the zero Node when out of range.
func (t Tree) Root(i int) Node {
	if i < 0 || i >= len(t.roots) {
		return Node{}
	}
	return Node{t.roots[i]}
}

// At resolves p to a node.
func (t Tree) At(p Path) (Node, error) {
	if len(p) == 0 {
		return Node{}, invalidPath(p, 0, "path addresses the root list")
	}
	list := t.roots
	var n *node
	for depth, i := range p {
		if i < 0 || i >= len(list) {
			return Node{}, invalidPath(p, depth, "index out of range")
		}
		n = list[i]
		list = n.children
	}
	return Node{n}, nil
}

// Fields returns a deep snapshot of the roots.
func (t Tree) Fields() []Field {
	fs := fieldsOf(t.roots)
	if fs == nil {
		return []Field{}
	}
	return fs
}

// SkipChildren may be returned by a Walk callback to skip a node's subtree.
var SkipChildren = errors.New("skip children")

// Walk visits every node in document order, parents before their children and
// siblings in order. The Path handed to fn is freshly allocated.
func (t Tree) Walk(fn func(Path, Node) error) error {
	return walk(t.roots, Path{}, fn)
}

func walk(list []*node, parent Path, fn func(Path, Node) error) error {
	for i, n := range list {
		p := parent.Append(i)
		if err := fn(p, Node{n}); err != nil {
			if errors.Is(err, SkipChildren) {
				continue
			}
			return err
		}
		if err := walk(n.children, p, fn); err != nil {
			return err
		}
	}
	return nil
}

// Add appends a default field under the nested node at p, or as the last root
// when p is empty.
func (t Tree) Add(p Path) (Tree, error) {
	return t.AddField(p, NewField())
}

// AddField appends f under the nested node at p, or as the last root when p is
// empty.
func (t Tree) AddField(p Path, f Field) (Tree, error) {
	n := newNode(f)
	roots, err := editList(t.roots, p, p, 0, func(list []*node) ([]*node, error) {
		out := make([]*node, len(list), len(list)+1)
		copy(out, list)
		return append(out, n), nil
	})
	if err != nil {
		return t, err
	}
	return Tree{roots: roots}, nil
}

// Update merges patch into the node at p.
func (t Tree) Update(p Path, patch FieldPatch) (Tree, error) {
	return t.editNode(p, func(n *node) (*node, error) {
		out, err := patch.apply(n)
		if err != nil {
			return nil, fmt.Errorf("%w at %s", err, p)
		}
		return out, nil
	})
}

// Remove deletes the node at p; later siblings shift down by one.
func (t Tree) Remove(p Path) (Tree, error) {
	parent, idx, ok := p.Parent()
	if !ok {
		return t, invalidPath(p, 0, "path addresses the root list")
	}
	roots, err := editList(t.roots, parent, p, 0, func(list []*node) ([]*node, error) {
		if idx < 0 || idx >= len(list) {
			return nil, invalidPath(p, len(parent), "index out of range")
		}
		out := make([]*node, 0, len(list)-1)
		out = append(out, list[:idx]...)
		return append(out, list[idx+1:]...), nil
	})
	if err != nil {
		return t, err
	}
	return Tree{roots: roots}, nil
}

// ToggleLock flips the locked flag of the node at p.
func (t Tree) ToggleLock(p Path) (Tree, error) {
	return t.editNode(p, func(n *node) (*node, error) {
		cp := *n
		cp.locked = !cp.locked
		return &cp, nil
	})
}

func (t Tree) editNode(p Path, fn func(*node) (*node, error)) (Tree, error) {
	parent, idx, ok := p.Parent()
	if !ok {
		return t, invalidPath(p, 0, "path addresses the root list")
	}
	roots, err := editList(t.roots, parent, p, 0, func(list []*node) ([]*node, error) {
		if idx < 0 || idx >= len(list) {
			return nil, invalidPath(p, len(parent), "index out of range")
		}
		n, err := fn(list[idx])
		if err != nil {
			return nil, err
		}
		out := make([]*node, len(list))
		copy(out, list)
		out[idx] = n
		return out, nil
	})
	if err != nil {
		return t, err
	}
	return Tree{roots: roots}, nil
}

// editList copies the spine from list down to the child list addressed by p
// and replaces that list with fn's result. Only nested nodes are descended.
func editList(list []*node, p, full Path, depth int, fn func([]*node) ([]*node, error)) ([]*node, error) {
	if len(p) == 0 {
		return fn(list)
	}
	i := p[0]
	if i < 0 || i >= len(list) {
		return nil, invalidPath(full, depth, "index out of range")
	}
	n := list[i]
	if n.typ != TypeNested {
		return nil, invalidPath(full, depth, "field "+n.key+" is not nested")
	}
	kids, err := editList(n.children, p[1:], full, depth+1, fn)
	if err != nil {
		return nil, err
	}
	cp := *n
	cp.children = kids
	out := make([]*node, len(list))
	copy(out, list)
	out[i] = &cp
	return out, nil
}

// AddField appends a default field under p. See Tree.Add.
func AddField(t Tree, p Path) (Tree, error) { return t.Add(p) }

// UpdateField merges patch into the node at p. Locked fields are not
// rejected; see editor.WithStrictLocks for a guarded variant.
func UpdateField(t Tree, p Path, patch FieldPatch) (Tree, error) { return t.Update(p, patch) }

// RemoveField deletes the node at p. See Tree.Remove.
func RemoveField(t Tree, p Path) (Tree, error) { return t.Remove(p) }

// ToggleLock flips the locked flag of the node at p.
func ToggleLock(t Tree, p Path) (Tree, error) { return t.ToggleLock(p) }
