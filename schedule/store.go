package schedule

import (
	"context"
	"time"
)

// Record is the flat, on-wire form of a Schedule used by the persistence
// port. Children is advisory only: the loader recomputes it from every
// record's Parents and never trusts the persisted value, in case it has
// drifted from reality.
type Record struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Level     Level     `json:"level"`
	Exclusive bool      `json:"exclusive"`
	Parents   []ID      `json:"parents"`
	Children  []ID      `json:"children"`
}

// Store is the persistence contract the manager loads from and writes
// through to. Implementations are free to be as simple as an in-memory
// map or as involved as a real database; the manager only ever calls
// these three methods and treats every error as non-fatal to its own
// in-memory state.
type Store interface {
	LoadAll(ctx context.Context) ([]Record, error)
	Upsert(ctx context.Context, rec Record) error
	Remove(ctx context.Context, id ID) error
}
