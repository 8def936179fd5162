package store

import (
	"context"
	"sort"
	"sync"

	"github.com/seoaudit/engine/internal/model"
)

// InMemoryStore is the default Store: a mutex-guarded map, good for one
// process's lifetime only. cmd/seoaudit run uses this — the CLI prints
// the report and exits, so nothing needs to outlive the process.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*model.AuditReport
}

// NewInMemoryStore builds an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reports: make(map[string]*model.AuditReport)}
}

func (s *InMemoryStore) Save(_ context.Context, report *model.AuditReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *report
	s.reports[report.ID] = &cp
	return nil
}

func (s *InMemoryStore) Load(_ context.Context, id string) (*model.AuditReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *report
	return &cp, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*model.AuditReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.AuditReport, 0, len(s.reports))
	for _, report := range s.reports {
		cp := *report
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

var _ Store = (*InMemoryStore)(nil)
