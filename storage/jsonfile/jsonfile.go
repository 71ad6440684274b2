// Package jsonfile implements schedule.Store as a single JSON document on
// disk: a dependency-light reference backend for embedding hosts that
// want persistence without pulling in an embedded database engine.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-logr/logr"

	"github.com/zjw-zhuangjiawei/uni-schedule/schedule"
)

// Store persists every schedule.Record as one JSON array in a single
// file, rewritten in full on every mutation. It is a reference backend,
// not a scalable one: fine for an embedding host's single data file, not
// for a write-heavy workload.
type Store struct {
	mu   sync.Mutex
	path string
	log  logr.Logger
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger injects a logger used for load/save diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New returns a Store backed by the file at path. The file and its parent
// directory are created on first write if they don't yet exist.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, log: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type document struct {
	Records []schedule.Record `json:"records"`
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return document{}, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) LoadAll(ctx context.Context) ([]schedule.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		s.log.Error(err, "failed to read schedule store", "path", s.path)
		return nil, err
	}
	return doc.Records, nil
}

func (s *Store) Upsert(ctx context.Context, rec schedule.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range doc.Records {
		if existing.ID == rec.ID {
			doc.Records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Records = append(doc.Records, rec)
	}
	if err := s.write(doc); err != nil {
		s.log.Error(err, "failed to write schedule store", "path", s.path)
		return err
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id schedule.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	out := make([]schedule.Record, 0, len(doc.Records))
	for _, rec := range doc.Records {
		if rec.ID != id {
			out = append(out, rec)
		}
	}
	doc.Records = out
	if err := s.write(doc); err != nil {
		s.log.Error(err, "failed to write schedule store", "path", s.path)
		return err
	}
	return nil
}
