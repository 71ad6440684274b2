package schedule

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/zjw-zhuangjiawei/uni-schedule/interval"
)

// Manager owns every schedule, its per-level interval indices, and the
// parent/child adjacency between schedules. It is not safe for concurrent
// use on its own — see package guard for the readers-writer wrapper this
// module expects an embedding host to hold.
type Manager struct {
	log   logr.Logger
	store Store

	schedules      map[ID]Schedule
	allIndex       map[Level]*interval.Lapper[ID]
	exclusiveIndex map[Level]*interval.Lapper[ID]
	parents        map[ID]map[ID]struct{}
	children       map[ID]map[ID]struct{}
	levelIndex     map[Level]map[ID]struct{}
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger injects a logr.Logger the manager uses for admission
// rejections, cascading deletions, and storage failures. The default is
// logr.Discard().
func WithLogger(log logr.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager returns an empty manager with no persistence backing.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		log:            logr.Discard(),
		schedules:      make(map[ID]Schedule),
		allIndex:       make(map[Level]*interval.Lapper[ID]),
		exclusiveIndex: make(map[Level]*interval.Lapper[ID]),
		parents:        make(map[ID]map[ID]struct{}),
		children:       make(map[ID]map[ID]struct{}),
		levelIndex:     make(map[Level]map[ID]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewManagerFromStorage builds a manager and loads it from store in two
// passes: first every record is created with its persisted id and no
// parents, then every record's parents are attached. This order tolerates
// records arriving in any order, including a child listed before its
// parent.
func NewManagerFromStorage(ctx context.Context, store Store, opts ...Option) (*Manager, error) {
	m := NewManager(opts...)
	m.store = store

	records, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load all: %v", ErrStorage, err)
	}

	for _, rec := range records {
		sch := Schedule{Name: rec.Name, Start: rec.Start, End: rec.End, Level: rec.Level, Exclusive: rec.Exclusive}
		if _, err := m.createScheduleWithID(ctx, rec.ID, sch, nil, false); err != nil {
			return nil, fmt.Errorf("loading schedule %s: %w", rec.ID, err)
		}
	}
	for _, rec := range records {
		if len(rec.Parents) == 0 {
			continue
		}
		if err := m.addParents(ctx, rec.ID, toSet(rec.Parents), false); err != nil {
			return nil, fmt.Errorf("attaching parents to %s: %w", rec.ID, err)
		}
	}
	m.log.Info("loaded schedules from store", "count", len(records))
	return m, nil
}

// CreateSchedule assigns a fresh id and admits the schedule under the
// supplied parent set.
func (m *Manager) CreateSchedule(ctx context.Context, sch Schedule, parents map[ID]struct{}) (ID, error) {
	const maxIDAttempts = 5
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := NewID()
		if _, exists := m.schedules[id]; exists {
			continue
		}
		return m.CreateScheduleWithID(ctx, id, sch, parents)
	}
	return Nil, ErrDuplicateID
}

// CreateScheduleWithID admits the schedule under the caller-supplied id,
// failing ErrDuplicateID if that id is already in use.
func (m *Manager) CreateScheduleWithID(ctx context.Context, id ID, sch Schedule, parents map[ID]struct{}) (ID, error) {
	return m.createScheduleWithID(ctx, id, sch, parents, true)
}

func (m *Manager) createScheduleWithID(ctx context.Context, id ID, sch Schedule, parents map[ID]struct{}, persist bool) (ID, error) {
	sch = sch.normalized()
	if !sch.Start.Before(sch.End) {
		return Nil, ErrStartAfterEnd
	}
	if _, exists := m.schedules[id]; exists {
		return Nil, ErrDuplicateID
	}
	if err := m.validateParents(sch, parents); err != nil {
		m.log.V(1).Info("rejected schedule", "name", sch.Name, "reason", err)
		return Nil, err
	}
	if err := m.validateExclusivity(sch, parents); err != nil {
		m.log.V(1).Info("rejected schedule", "name", sch.Name, "reason", err)
		return Nil, err
	}
	if err := m.commit(ctx, id, sch, parents, persist); err != nil {
		return id, err
	}
	return id, nil
}

func (m *Manager) validateParents(sch Schedule, parents map[ID]struct{}) error {
	for p := range parents {
		parentSch, ok := m.schedules[p]
		if !ok {
			return parentNotFoundErrorf(p)
		}
		if !(parentSch.Level < sch.Level) {
			return levelExceedsParentErrorf(p)
		}
		if parentSch.Start.After(sch.Start) || parentSch.End.Before(sch.End) {
			return timeRangeExceedsParentErrorf(p)
		}
	}
	return nil
}

func (m *Manager) validateExclusivity(sch Schedule, parents map[ID]struct{}) error {
	startNS, endNS := sch.Start.UnixNano(), sch.End.UnixNano()

	inbound := levelsAtMost(m.exclusiveIndex, sch.Level)
	if m.disqualifyingOverlap(m.exclusiveIndex, inbound, startNS, endNS, parents) {
		return ErrTimeRangeOverlaps
	}
	if sch.Exclusive {
		outbound := levelsAtLeast(m.allIndex, sch.Level)
		if m.disqualifyingOverlap(m.allIndex, outbound, startNS, endNS, parents) {
			return ErrTimeRangeOverlaps
		}
	}
	return nil
}

// disqualifyingOverlap reports whether any level's Lapper holds an
// interval overlapping [startNS, endNS) whose id is not in allowed. Levels
// are fanned out across scanLevels; a single offending id anywhere is
// sufficient, and no offending id is reported to the caller.
func (m *Manager) disqualifyingOverlap(indices map[Level]*interval.Lapper[ID], levels []Level, startNS, endNS int64, allowed map[ID]struct{}) bool {
	hits := scanLevels(levels, func(lv Level) []ID {
		lp := indices[lv]
		if lp == nil {
			return nil
		}
		var bad []ID
		for iv := range lp.Find(startNS, endNS) {
			if _, ok := allowed[iv.Val]; !ok {
				bad = append(bad, iv.Val)
			}
		}
		return bad
	})
	return len(hits) > 0
}

func levelsAtMost(idx map[Level]*interval.Lapper[ID], max Level) []Level {
	out := make([]Level, 0, len(idx))
	for lv := range idx {
		if lv <= max {
			out = append(out, lv)
		}
	}
	return out
}

func levelsAtLeast(idx map[Level]*interval.Lapper[ID], min Level) []Level {
	out := make([]Level, 0, len(idx))
	for lv := range idx {
		if lv >= min {
			out = append(out, lv)
		}
	}
	return out
}

// commit applies every effect of admission atomically with respect to any
// caller holding the manager's write lock: every in-memory structure is
// updated before the best-effort persistence call, so a storage failure
// never leaves the in-memory state only partially updated.
func (m *Manager) commit(ctx context.Context, id ID, sch Schedule, parents map[ID]struct{}, persist bool) error {
	startNS, endNS := sch.Start.UnixNano(), sch.End.UnixNano()

	lp := m.allIndex[sch.Level]
	if lp == nil {
		lp = &interval.Lapper[ID]{}
		m.allIndex[sch.Level] = lp
	}
	lp.Insert(interval.Interval[ID]{Start: startNS, Stop: endNS, Val: id})

	if sch.Exclusive {
		elp := m.exclusiveIndex[sch.Level]
		if elp == nil {
			elp = &interval.Lapper[ID]{}
			m.exclusiveIndex[sch.Level] = elp
		}
		elp.Insert(interval.Interval[ID]{Start: startNS, Stop: endNS, Val: id})
	}

	for p := range parents {
		if m.children[p] == nil {
			m.children[p] = make(map[ID]struct{})
		}
		m.children[p][id] = struct{}{}
	}
	if len(parents) > 0 {
		m.parents[id] = copySet(parents)
	}

	m.schedules[id] = sch

	if m.levelIndex[sch.Level] == nil {
		m.levelIndex[sch.Level] = make(map[ID]struct{})
	}
	m.levelIndex[sch.Level][id] = struct{}{}

	if persist && m.store != nil {
		if err := m.store.Upsert(ctx, m.toRecord(id, sch)); err != nil {
			m.log.Error(err, "persist schedule failed", "id", id)
			return storageErrorf("upsert", id, err)
		}
	}
	return nil
}

// AddParents attaches additional parents to an existing schedule,
// re-validating the effective parent set (existing plus new) against the
// hierarchy and exclusivity rules.
func (m *Manager) AddParents(ctx context.Context, id ID, parents map[ID]struct{}) error {
	return m.addParents(ctx, id, parents, true)
}

func (m *Manager) addParents(ctx context.Context, id ID, newParents map[ID]struct{}, persist bool) error {
	sch, ok := m.schedules[id]
	if !ok {
		return notFoundErrorf(id)
	}
	effective := copySet(m.parents[id])
	for p := range newParents {
		effective[p] = struct{}{}
	}

	if err := m.validateParents(sch, effective); err != nil {
		return err
	}
	// The schedule is already indexed, so its own interval must not count
	// as an overlap against itself.
	allowed := copySet(effective)
	allowed[id] = struct{}{}
	if err := m.validateExclusivity(sch, allowed); err != nil {
		return err
	}

	for p := range newParents {
		if m.children[p] == nil {
			m.children[p] = make(map[ID]struct{})
		}
		m.children[p][id] = struct{}{}
	}
	m.parents[id] = effective

	if persist && m.store != nil {
		if err := m.store.Upsert(ctx, m.toRecord(id, sch)); err != nil {
			m.log.Error(err, "persist parent attachment failed", "id", id)
			return storageErrorf("upsert", id, err)
		}
	}
	return nil
}

// DeleteSchedule removes id and cascades to every descendant whose last
// parent was id, returning the full set of ids actually removed.
func (m *Manager) DeleteSchedule(ctx context.Context, id ID) (map[ID]struct{}, error) {
	removed := make(map[ID]struct{})
	if err := m.deleteOne(ctx, id, removed); err != nil {
		return removed, err
	}
	return removed, nil
}

func (m *Manager) deleteOne(ctx context.Context, id ID, removed map[ID]struct{}) error {
	sch, ok := m.schedules[id]
	if !ok {
		return notFoundErrorf(id)
	}

	startNS, endNS := sch.Start.UnixNano(), sch.End.UnixNano()
	lp := m.allIndex[sch.Level]
	if lp == nil || !lp.Remove(interval.Interval[ID]{Start: startNS, Stop: endNS, Val: id}) {
		return internalErrorf("schedule %s missing from level %d index", id, sch.Level)
	}
	if sch.Exclusive {
		elp := m.exclusiveIndex[sch.Level]
		if elp == nil || !elp.Remove(interval.Interval[ID]{Start: startNS, Stop: endNS, Val: id}) {
			return internalErrorf("schedule %s missing from exclusive index at level %d", id, sch.Level)
		}
	}

	victims := m.children[id]
	delete(m.children, id)
	for child := range victims {
		ps := m.parents[child]
		if ps == nil {
			continue
		}
		delete(ps, id)
		if len(ps) == 0 {
			delete(m.parents, child)
			if err := m.deleteOne(ctx, child, removed); err != nil {
				return err
			}
		}
	}
	for p := range m.parents[id] {
		if cs := m.children[p]; cs != nil {
			delete(cs, id)
			if len(cs) == 0 {
				delete(m.children, p)
			}
		}
	}
	delete(m.parents, id)

	if lvlSet := m.levelIndex[sch.Level]; lvlSet != nil {
		delete(lvlSet, id)
		if len(lvlSet) == 0 {
			delete(m.levelIndex, sch.Level)
		}
	}
	delete(m.schedules, id)
	removed[id] = struct{}{}

	m.log.V(0).Info("cascading delete", "id", id, "name", sch.Name)

	if m.store != nil {
		if err := m.store.Remove(ctx, id); err != nil {
			m.log.Error(err, "persist delete failed", "id", id)
			return storageErrorf("remove", id, err)
		}
	}
	return nil
}

// GetSchedule returns the schedule for id, if it exists.
func (m *Manager) GetSchedule(id ID) (Schedule, bool) {
	sch, ok := m.schedules[id]
	return sch, ok
}

// QuerySchedule narrows candidates by level and exclusivity using the
// inverted indices, then applies the remaining filters linearly.
func (m *Manager) QuerySchedule(opts QueryOptions) []Entry {
	var candidates map[ID]struct{}
	seeded := false

	if opts.Level != nil {
		lvlSet, ok := m.levelIndex[*opts.Level]
		if !ok {
			return nil
		}
		candidates = copySet(lvlSet)
		seeded = true
	}

	if opts.Exclusive != nil {
		exclusiveIDs := m.allExclusiveIDs()
		switch {
		case !seeded && *opts.Exclusive:
			candidates, seeded = exclusiveIDs, true
		case !seeded && !*opts.Exclusive:
			candidates, seeded = subtractSet(m.allIDs(), exclusiveIDs), true
		case *opts.Exclusive:
			candidates = intersectSet(candidates, exclusiveIDs)
		default:
			candidates = subtractSet(candidates, exclusiveIDs)
		}
	}

	if !seeded {
		candidates = m.allIDs()
	}

	out := make([]Entry, 0, len(candidates))
	for id := range candidates {
		sch, ok := m.schedules[id]
		if !ok {
			continue
		}
		if opts.matches(sch) {
			out = append(out, Entry{ID: id, Schedule: sch})
		}
	}
	return out
}

func (m *Manager) allExclusiveIDs() map[ID]struct{} {
	levels := make([]Level, 0, len(m.exclusiveIndex))
	for lv := range m.exclusiveIndex {
		levels = append(levels, lv)
	}
	ids := scanLevels(levels, func(lv Level) []ID {
		ivs := m.exclusiveIndex[lv].Intervals()
		out := make([]ID, len(ivs))
		for i, iv := range ivs {
			out[i] = iv.Val
		}
		return out
	})
	return toSet(ids)
}

func (m *Manager) allIDs() map[ID]struct{} {
	out := make(map[ID]struct{}, len(m.schedules))
	for id := range m.schedules {
		out[id] = struct{}{}
	}
	return out
}

// Parents returns a deep copy of the child->parents adjacency map.
func (m *Manager) Parents() map[ID]map[ID]struct{} { return deepCopyAdjacency(m.parents) }

// Children returns a deep copy of the parent->children adjacency map.
func (m *Manager) Children() map[ID]map[ID]struct{} { return deepCopyAdjacency(m.children) }

func (m *Manager) toRecord(id ID, sch Schedule) Record {
	parentIDs := make([]ID, 0, len(m.parents[id]))
	for p := range m.parents[id] {
		parentIDs = append(parentIDs, p)
	}
	childIDs := make([]ID, 0, len(m.children[id]))
	for c := range m.children[id] {
		childIDs = append(childIDs, c)
	}
	return Record{
		ID:        id,
		Name:      sch.Name,
		Start:     sch.Start,
		End:       sch.End,
		Level:     sch.Level,
		Exclusive: sch.Exclusive,
		Parents:   parentIDs,
		Children:  childIDs,
	}
}
