package schedule

import (
	"strings"
	"time"
)

// QueryOptions narrows a QuerySchedule call. Every field is optional; an
// unset QueryOptions matches everything. Matcher is never persisted or
// serialized — it is a pure in-process predicate.
type QueryOptions struct {
	Name      string
	Start     *time.Time
	Stop      *time.Time
	Level     *Level
	Exclusive *bool
	Matcher   func(*Schedule) bool
}

func (o QueryOptions) matchesWindow(sch Schedule) bool {
	switch {
	case o.Start != nil && o.Stop != nil:
		return sch.Start.Before(*o.Stop) && sch.End.After(*o.Start)
	case o.Start != nil:
		return sch.End.After(*o.Start)
	case o.Stop != nil:
		return sch.Start.Before(*o.Stop)
	default:
		return true
	}
}

func (o QueryOptions) matches(sch Schedule) bool {
	if o.Name != "" && !strings.Contains(sch.Name, o.Name) {
		return false
	}
	if !o.matchesWindow(sch) {
		return false
	}
	if o.Matcher != nil && !o.Matcher(&sch) {
		return false
	}
	return true
}
