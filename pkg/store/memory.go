package store

import (
	"context"
	"sync"

	"github.com/matzehuels/bundlescope/pkg/report"
)

// MemoryStore keeps snapshots in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*report.Report
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*report.Report)}
}

func (s *MemoryStore) Save(_ context.Context, r *report.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepare(r)
	c := *r
	s.snapshots[r.ID] = &c
	return r.ID, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.snapshots[id]
	if !ok {
		return nil, notFound(id)
	}
	c := *r
	return &c, nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*report.Report, 0, len(s.snapshots))
	for _, r := range s.snapshots {
		all = append(all, r)
	}
	return selectSummaries(all, opts), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
