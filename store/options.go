package store

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	sk "github.com/reoring/schemakit"
)

// DefaultCollection is the backend key holding the saved schemas.
const DefaultCollection = "savedSchemas"

// Option configures a Store.
type Option func(*Store)

// WithCollection overrides the backend key the collection is stored under.
func WithCollection(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.collection = key
		}
	}
}

// WithIDGenerator replaces the uuid v4 id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets the logger used for mutation and decode diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDecodeOpt sets the limits applied when decoding persisted schemas.
func WithDecodeOpt(opt sk.DecodeOpt) Option {
	return func(s *Store) { s.decodeOpt = opt }
}

// WithTitleCheckOnUpdate makes Update reject a title used by another entry.
func WithTitleCheckOnUpdate(on bool) Option {
	return func(s *Store) { s.titleCheckOnUpdate = on }
}

func newUUID() string { return uuid.NewString() }
