// Package guard wraps a *schedule.Manager in a readers-writer lock: any
// number of concurrent readers, one writer at a time. It is the shape an
// embedding host reaches for to share a single manager across goroutines
// or request handlers.
package guard

import (
	"context"
	"sync"

	"github.com/zjw-zhuangjiawei/uni-schedule/schedule"
)

// Manager guards a *schedule.Manager behind a sync.RWMutex. Every mutating
// method takes the exclusive writer slot; Get and Query take the shared
// reader slot.
type Manager struct {
	mu sync.RWMutex
	m  *schedule.Manager
}

// New wraps an already-constructed manager.
func New(m *schedule.Manager) *Manager {
	return &Manager{m: m}
}

func (g *Manager) CreateSchedule(ctx context.Context, sch schedule.Schedule, parents map[schedule.ID]struct{}) (schedule.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.CreateSchedule(ctx, sch, parents)
}

func (g *Manager) CreateScheduleWithID(ctx context.Context, id schedule.ID, sch schedule.Schedule, parents map[schedule.ID]struct{}) (schedule.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.CreateScheduleWithID(ctx, id, sch, parents)
}

func (g *Manager) AddParents(ctx context.Context, id schedule.ID, parents map[schedule.ID]struct{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.AddParents(ctx, id, parents)
}

func (g *Manager) DeleteSchedule(ctx context.Context, id schedule.ID) (map[schedule.ID]struct{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.DeleteSchedule(ctx, id)
}

func (g *Manager) GetSchedule(id schedule.ID) (schedule.Schedule, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.m.GetSchedule(id)
}

func (g *Manager) QuerySchedule(opts schedule.QueryOptions) []schedule.Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.m.QuerySchedule(opts)
}

func (g *Manager) Parents() map[schedule.ID]map[schedule.ID]struct{} {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.m.Parents()
}

func (g *Manager) Children() map[schedule.ID]map[schedule.ID]struct{} {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.m.Children()
}
