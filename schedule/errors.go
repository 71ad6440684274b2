package schedule

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, comparable with errors.Is. Every validation and
// lookup failure the manager returns wraps exactly one of these.
var (
	ErrStartAfterEnd          = errors.New("schedule: start does not precede end")
	ErrLevelExceedsParent     = errors.New("schedule: level does not exceed parent level")
	ErrTimeRangeExceedsParent = errors.New("schedule: time range is not contained in parent range")
	ErrParentNotFound         = errors.New("schedule: parent not found")
	ErrTimeRangeOverlaps      = errors.New("schedule: time range overlaps an exclusive schedule")
	ErrScheduleNotFound       = errors.New("schedule: schedule not found")
	ErrDuplicateID            = errors.New("schedule: duplicate id")
	ErrStorage                = errors.New("schedule: storage error")
	ErrInternal               = errors.New("schedule: internal invariant violated")
)

// storageErrorf wraps a backend error so callers can test errors.Is(err,
// ErrStorage) without caring about the underlying store's error type. The
// mutation that triggered it has already been applied in memory; storage
// failures never roll back in-memory state.
func storageErrorf(op string, id ID, cause error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrStorage, op, id, cause)
}

func internalErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

func notFoundErrorf(id ID) error {
	return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
}

func parentNotFoundErrorf(id ID) error {
	return fmt.Errorf("%w: %s", ErrParentNotFound, id)
}

func levelExceedsParentErrorf(parent ID) error {
	return fmt.Errorf("%w: parent %s", ErrLevelExceedsParent, parent)
}

func timeRangeExceedsParentErrorf(parent ID) error {
	return fmt.Errorf("%w: parent %s", ErrTimeRangeExceedsParent, parent)
}
