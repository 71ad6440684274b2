package schedule

import (
	"context"
	"errors"
)

// fakeStore is a minimal in-memory Store double for manager tests, not
// meant as a reference implementation — see storage/memory for that.
type fakeStore struct {
	records    map[ID]Record
	failUpsert bool
	failRemove bool
}

func newFakeStore(seed []Record) *fakeStore {
	s := &fakeStore{records: make(map[ID]Record, len(seed))}
	for _, rec := range seed {
		s.records[rec.ID] = rec
	}
	return s
}

func (s *fakeStore) LoadAll(ctx context.Context) ([]Record, error) {
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (s *fakeStore) Upsert(ctx context.Context, rec Record) error {
	if s.failUpsert {
		return errors.New("fake upsert failure")
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *fakeStore) Remove(ctx context.Context, id ID) error {
	if s.failRemove {
		return errors.New("fake remove failure")
	}
	delete(s.records, id)
	return nil
}
