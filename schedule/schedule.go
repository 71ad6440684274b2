// Package schedule implements the hierarchical time-range indexer: a
// manager that validates admission of named, leveled time ranges against
// parent-containment and exclusivity rules, keeps a per-level interval
// index for fast overlap queries, and cascades deletion through the
// parent/child hierarchy it maintains.
package schedule

import (
	"time"

	"github.com/google/uuid"
)

// ID identifies a schedule. It is time-ordered (generated with UUIDv7) so
// that ids sort roughly by creation time, which is convenient for logs and
// for loaders that want a stable-ish ordering without a separate field.
type ID uuid.UUID

// Nil is the zero ID, returned alongside an error from the creation
// methods when no schedule was actually created.
var Nil = ID(uuid.Nil)

// NewID generates a fresh time-ordered id.
func NewID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the runtime's random source is broken,
		// which no caller can recover from meaningfully.
		panic(err)
	}
	return ID(u)
}

// ParseID parses the canonical string form of an id.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return ID(u), nil
}

func (id ID) String() string { return uuid.UUID(id).String() }

func (id ID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ID) UnmarshalText(data []byte) error {
	u, err := uuid.Parse(string(data))
	if err != nil {
		return err
	}
	*id = ID(u)
	return nil
}

// Level is the hierarchy rank of a schedule. Lower numbers sit nearer the
// root; a child's level must be strictly greater than every parent's.
type Level uint32

// Schedule is a named half-open time range at a given level, optionally
// exclusive.
type Schedule struct {
	Name      string
	Start     time.Time
	End       time.Time
	Level     Level
	Exclusive bool
}

// normalized returns sch with Start and End pinned to UTC, the only zone
// this package ever reasons about.
func (sch Schedule) normalized() Schedule {
	sch.Start = sch.Start.UTC()
	sch.End = sch.End.UTC()
	return sch
}

// Entry pairs an id with its schedule, returned from queries.
type Entry struct {
	ID       ID
	Schedule Schedule
}
