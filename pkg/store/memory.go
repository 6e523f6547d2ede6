package store

import (
	"context"
	"sort"
	"sync"

	"github.com/depwalk/depwalk/pkg/report"
)

// MemoryStore keeps reports in memory. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]report.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]report.Report)}
}

// Save stores a report.
func (s *MemoryStore) Save(ctx context.Context, r report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

// Get retrieves a report by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return report.Report{}, ErrNotFound
	}
	return r, nil
}

// List returns up to limit reports for pkg, newest first.
func (s *MemoryStore) List(ctx context.Context, pkg string, limit int) ([]report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []report.Report
	for _, r := range s.reports {
		if pkg == "" || r.Package == pkg {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the in-memory backend.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
