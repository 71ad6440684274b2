// Package memory implements schedule.Store backed by a plain in-memory
// map: a dependency-light double for tests and for embedding hosts that
// don't need persistence across restarts.
package memory

import (
	"context"
	"sync"

	"github.com/zjw-zhuangjiawei/uni-schedule/schedule"
)

// Store is a sync.Mutex-guarded map of schedule.Record keyed by id. The
// zero value is ready to use.
type Store struct {
	mu      sync.Mutex
	records map[schedule.ID]schedule.Record
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[schedule.ID]schedule.Record)}
}

func (s *Store) LoadAll(ctx context.Context) ([]schedule.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schedule.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, rec schedule.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[schedule.ID]schedule.Record)
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *Store) Remove(ctx context.Context, id schedule.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}
