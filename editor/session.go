// Package editor drives one schema editing session: a field tree, a title and
// optionally the saved entry being edited.
package editor

import (
	"errors"
	"fmt"
	"strings"

	sk "github.com/reoring/schemakit"
	"github.com/reoring/schemakit/store"
)

// Option configures a Session.
type Option func(*Session)

// WithStrictLocks makes Update reject key or type changes on locked fields.
func WithStrictLocks(on bool) Option {
	return func(s *Session) { s.strictLocks = on }
}

// Session is not safe for concurrent use.
type Session struct {
	store       *store.Store
	tree        sk.Tree
	title       string
	id          string
	baseline    uint64
	strictLocks bool
}

// New starts a session for a new schema.
func New(st *store.Store, opts ...Option) *Session {
	s := &Session{store: st}
	for _, o := range opts {
		o(s)
	}
	s.baseline = s.fingerprint()
	return s
}

// Load starts a session editing the saved entry id.
func Load(st *store.Store, id string, opts ...Option) (*Session, error) {
	e, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	s := New(st, opts...)
	s.tree = sk.Decompile(e.Schema)
	s.title = e.Title
	s.id = e.ID
	s.baseline = s.fingerprint()
	return s, nil
}

func (s *Session) Tree() sk.Tree { return s.tree }
func (s *Session) Title() string { return s.title }

// EntryID returns the id of the entry under edit, or "" for a new schema.
func (s *Session) EntryID() string { return s.id }

func (s *Session) SetTitle(title string) { s.title = title }

func (s *Session) Add(p sk.Path) error {
	return s.apply(func(t sk.Tree) (sk.Tree, error) { return t.Add(p) })
}

func (s *Session) Remove(p sk.Path) error {
	return s.apply(func(t sk.Tree) (sk.Tree, error) { return t.Remove(p) })
}

func (s *Session) ToggleLock(p sk.Path) error {
	return s.apply(func(t sk.Tree) (sk.Tree, error) { return t.ToggleLock(p) })
}

// Update patches the field at p. With strict locks a locked field keeps its key
// and type; lock state and children may still change.
func (s *Session) Update(p sk.Path, patch sk.FieldPatch) error {
	if s.strictLocks {
		n, err := s.tree.At(p)
		if err != nil {
			return err
		}
		if n.Locked() && patch.ChangesIdentity(n) {
			return fmt.Errorf("%w at %s", sk.ErrFieldLocked, p)
		}
	}
	return s.apply(func(t sk.Tree) (sk.Tree, error) { return t.Update(p, patch) })
}

func (s *Session) apply(fn func(sk.Tree) (sk.Tree, error)) error {
	t, err := fn(s.tree)
	if err != nil {
		return err
	}
	s.tree = t
	return nil
}

// Preview renders the compiled schema as indented JSON.
func (s *Session) Preview() ([]byte, error) { return sk.PreviewJSON(s.tree) }

// Dirty reports whether the compiled schema or the title differ from what was
// loaded or last submitted.
func (s *Session) Dirty() bool { return s.fingerprint() != s.baseline }

func (s *Session) fingerprint() uint64 {
	o := sk.NewObject().Set("title", strings.TrimSpace(s.title)).Set("schema", sk.Compile(s.tree))
	return o.Fingerprint()
}

// Submit validates the session and saves it: a new entry is created, an edited
// entry is updated in place. A blank title and field issues (including fields
// nested beyond the store's decode depth) are reported together; use errors.Is
// with ErrMissingTitle or ErrFieldValidationFailed and AsIssues for the
// details. After creating, the session edits the new entry.
func (s *Session) Submit() (store.Entry, error) {
	title := strings.TrimSpace(s.title)
	var errs []error
	if err := sk.ValidateTitle(title); err != nil {
		errs = append(errs, err)
	}
	iss := sk.Validate(s.tree)
	iss = append(iss, sk.ValidateDepth(s.tree, s.store.DecodeOpt().MaxDepth)...)
	if len(iss) > 0 {
		errs = append(errs, iss)
	}
	if err := errors.Join(errs...); err != nil {
		return store.Entry{}, err
	}

	schema := sk.Compile(s.tree)
	if schema.Len() == 0 {
		return store.Entry{}, sk.ErrEmptySchema
	}

	var (
		e   store.Entry
		err error
	)
	if s.id == "" {
		e, err = s.store.Create(title, schema)
	} else {
		e, err = s.store.Update(s.id, title, schema)
	}
	if err != nil {
		return store.Entry{}, err
	}
	s.id = e.ID
	s.title = title
	s.baseline = s.fingerprint()
	return e, nil
}
