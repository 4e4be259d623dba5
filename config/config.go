// Package config loads the YAML configuration and builds the logger, store and
// editor options from it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	sk "github.com/reoring/schemakit"
	"github.com/reoring/schemakit/editor"
	"github.com/reoring/schemakit/store"
)

// Backend kinds.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
)

type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Decode DecodeConfig `yaml:"decode"`
	Editor EditorConfig `yaml:"editor"`
	Log    LogConfig    `yaml:"log"`
}

type StoreConfig struct {
	Backend            string `yaml:"backend"`
	Path               string `yaml:"path"`
	Collection         string `yaml:"collection"`
	CheckTitleOnUpdate bool   `yaml:"checkTitleOnUpdate"`
}

type DecodeConfig struct {
	MaxDepth      int    `yaml:"maxDepth"`
	DuplicateKeys string `yaml:"duplicateKeys"`
}

type EditorConfig struct {
	StrictLocks bool `yaml:"strictLocks"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used for absent settings.
func Default() Config {
	return Config{
		Store:  StoreConfig{Backend: BackendMemory, Collection: store.DefaultCollection},
		Decode: DecodeConfig{MaxDepth: sk.DefaultMaxDepth, DuplicateKeys: "ignore"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile, BackendBolt:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for backend %q", c.Store.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	if c.Decode.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("decode.maxDepth must not be negative, got %d", c.Decode.MaxDepth))
	}
	if _, err := parseSeverity(c.Decode.DuplicateKeys); err != nil {
		errs = append(errs, err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func parseSeverity(s string) (sk.Severity, error) {
	switch strings.ToLower(s) {
	case "", "ignore":
		return sk.Ignore, nil
	case "warn":
		return sk.Warn, nil
	case "error":
		return sk.Error, nil
	}
	return sk.Ignore, fmt.Errorf("decode.duplicateKeys: unknown policy %q", s)
}

// DecodeOpt returns the decode limits for persisted schemas.
func (c Config) DecodeOpt() sk.DecodeOpt {
	sev, _ := parseSeverity(c.Decode.DuplicateKeys)
	return sk.DecodeOpt{MaxDepth: c.Decode.MaxDepth, OnDuplicateKey: sev}
}

// Logger builds a logrus logger with the configured level and format.
func (c Config) Logger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	if strings.EqualFold(c.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore opens the configured backend and wraps it in a Store. The returned
// Closer releases the backend.
func (c Config) OpenStore(log logrus.FieldLogger) (*store.Store, io.Closer, error) {
	var (
		b      store.Backend
		closer io.Closer = nopCloser{}
	)
	switch c.Store.Backend {
	case BackendMemory, "":
		b = store.NewMemoryBackend()
	case BackendFile:
		fb, err := store.NewFileBackend(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		b = fb
	case BackendBolt:
		bb, err := store.OpenBoltBackend(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		b, closer = bb, bb
	default:
		return nil, nil, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if log == nil {
		log = c.Logger()
	}
	log.WithFields(logrus.Fields{"backend": c.Store.Backend, "collection": c.Store.Collection}).Debug("store opened")
	st := store.New(b,
		store.WithCollection(c.Store.Collection),
		store.WithLogger(log),
		store.WithDecodeOpt(c.DecodeOpt()),
		store.WithTitleCheckOnUpdate(c.Store.CheckTitleOnUpdate),
	)
	return st, closer, nil
}

// SessionOptions returns the editor options for new sessions.
func (c Config) SessionOptions() []editor.Option {
	return []editor.Option{editor.WithStrictLocks(c.Editor.StrictLocks)}
}
