// Package store persists named schemas as a single collection in a key-value
// backend. Every mutation loads the whole collection, edits it and writes it
// back.
package store

import (
	"bytes"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	sk "github.com/reoring/schemakit"
)

// Entry is one saved schema.
type Entry struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Schema *sk.Object `json:"schema"`
}

func (e Entry) clone() Entry {
	e.Schema = e.Schema.Clone()
	return e
}

// rawEntry defers schema decoding so the store's decode limits apply.
type rawEntry struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Schema json.RawMessage `json:"schema"`
}

// Store is the SchemaStore repository.
type Store struct {
	mu                 sync.Mutex
	backend            Backend
	collection         string
	newID              func() string
	log                logrus.FieldLogger
	decodeOpt          sk.DecodeOpt
	titleCheckOnUpdate bool
}

// New returns a Store persisting through b.
func New(b Backend, opts ...Option) *Store {
	s := &Store{
		backend:    b,
		collection: DefaultCollection,
		newID:      newUUID,
		log:        logrus.StandardLogger(),
		decodeOpt:  sk.DefaultDecodeOpt(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Collection returns the backend key in use.
func (s *Store) Collection() string { return s.collection }

// DecodeOpt returns the limits applied to persisted schemas. Create and Update
// refuse schemas that could not be read back under them.
func (s *Store) DecodeOpt() sk.DecodeOpt { return s.decodeOpt }

// checkDepth rejects a schema that load could not decode back.
func (s *Store) checkDepth(schema *sk.Object) error {
	limit := s.decodeOpt.MaxDepth
	if limit <= 0 {
		return nil
	}
	if d := schema.Depth(); d > limit {
		return fmt.Errorf("%w: depth %d exceeds limit %d", sk.ErrSchemaTooDeep, d, limit)
	}
	return nil
}

// List returns all entries in storage order.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	i := indexByID(entries, id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: id %q", sk.ErrNotFound, id)
	}
	return entries[i].clone(), nil
}

// Create appends a new entry. The title must not match (exactly) the title of
// any existing entry, and the schema must fit the decode depth limit.
func (s *Store) Create(title string, schema *sk.Object) (Entry, error) {
	if err := s.checkDepth(schema); err != nil {
		return Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	if indexByTitle(entries, title, "") >= 0 {
		return Entry{}, fmt.Errorf("%w: %q", sk.ErrDuplicateTitle, title)
	}
	e := Entry{ID: s.newID(), Title: title, Schema: cloneOrEmpty(schema)}
	if err := s.save(append(entries, e)); err != nil {
		return Entry{}, err
	}
	s.log.WithFields(logrus.Fields{"collection": s.collection, "id": e.ID, "title": title}).Debug("schema created")
	return e.clone(), nil
}

// Update replaces title and schema of the entry with the given id, keeping its
// position. Title uniqueness is only enforced with WithTitleCheckOnUpdate.
func (s *Store) Update(id, title string, schema *sk.Object) (Entry, error) {
	if err := s.checkDepth(schema); err != nil {
		return Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	i := indexByID(entries, id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: id %q", sk.ErrNotFound, id)
	}
	if s.titleCheckOnUpdate && indexByTitle(entries, title, id) >= 0 {
		return Entry{}, fmt.Errorf("%w: %q", sk.ErrDuplicateTitle, title)
	}
	entries[i] = Entry{ID: id, Title: title, Schema: cloneOrEmpty(schema)}
	if err := s.save(entries); err != nil {
		return Entry{}, err
	}
	s.log.WithFields(logrus.Fields{"collection": s.collection, "id": id, "title": title}).Debug("schema updated")
	return entries[i].clone(), nil
}

// Delete removes the entry with the given id. Deleting an unknown id is a no-op
// and does not write to the backend.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	i := indexByID(entries, id)
	if i < 0 {
		return nil
	}
	entries = append(entries[:i], entries[i+1:]...)
	if err := s.save(entries); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"collection": s.collection, "id": id}).Debug("schema deleted")
	return nil
}

func (s *Store) load() ([]Entry, error) {
	data, ok, err := s.backend.Get(s.collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.collection, err)
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raws []rawEntry
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: collection %s: %w", sk.ErrMalformedSchema, s.collection, err)
	}
	entries := make([]Entry, 0, len(raws))
	for _, r := range raws {
		obj, err := s.decodeSchema(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: r.ID, Title: r.Title, Schema: obj})
	}
	return entries, nil
}

func (s *Store) decodeSchema(r rawEntry) (*sk.Object, error) {
	raw := bytes.TrimSpace(r.Schema)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return sk.NewObject(), nil
	}
	obj, warns, err := sk.DecodeObject(raw, s.decodeOpt)
	if err != nil {
		return nil, fmt.Errorf("collection %s, id %q: %w", s.collection, r.ID, err)
	}
	for _, w := range warns {
		s.log.WithFields(logrus.Fields{
			"collection": s.collection,
			"id":         r.ID,
			"code":       w.Code,
			"pointer":    w.Where(),
		}).Warn(w.Message)
	}
	return obj, nil
}

func (s *Store) save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.collection, err)
	}
	if err := s.backend.Set(s.collection, data); err != nil {
		return fmt.Errorf("save %s: %w", s.collection, err)
	}
	return nil
}

func indexByID(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// indexByTitle finds an entry titled title, ignoring the entry with id except.
func indexByTitle(entries []Entry, title, except string) int {
	for i, e := range entries {
		if e.Title == title && (except == "" || e.ID != except) {
			return i
		}
	}
	return -1
}

func cloneOrEmpty(o *sk.Object) *sk.Object {
	if o == nil {
		return sk.NewObject()
	}
	return o.Clone()
}
