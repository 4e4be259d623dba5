package schemakit

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node by descending child index from the root list. The empty
// path addresses the root list itself.
type Path []int

// Append returns a new path with i appended; p is left untouched.
func (p Path) Append(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Parent returns the path of the containing list and the index within it.
// ok is false for the empty path.
func (p Path) Parent() (parent Path, index int, ok bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	return p[:len(p)-1:len(p)-1], p[len(p)-1], true
}

// Equal reports whether both paths address the same position.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders p as a JSON Pointer over child indices ("/" for the root list).
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// ParsePath is the inverse of Path.String.
func ParsePath(s string) (Path, error) {
	if s == "" || s == "/" {
		return Path{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w %q: must start with '/'", ErrInvalidPath, s)
	}
	parts := strings.Split(s[1:], "/")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w %q: bad index %q", ErrInvalidPath, s, part)
		}
		p = append(p, i)
	}
	return p, nil
}

// Issue creates an Issue at p. kv are key/value pairs stored in Params.
func (p Path) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: append(Path{}, p...), Code: code, Message: msg, Params: m}
}
