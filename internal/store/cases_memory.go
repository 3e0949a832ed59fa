package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryCaseStore keeps cases in a map. Used for tests and demo runs
// without a database.
type MemoryCaseStore struct {
	mu    sync.RWMutex
	cases map[string]*FraudCase
}

// NewMemoryCaseStore returns an empty store.
func NewMemoryCaseStore() *MemoryCaseStore {
	return &MemoryCaseStore{cases: make(map[string]*FraudCase)}
}

// Get implements CaseStore.
func (s *MemoryCaseStore) Get(_ context.Context, id string) (*FraudCase, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneCase(c), nil
}

// FindPendingByUser implements CaseStore.
func (s *MemoryCaseStore) FindPendingByUser(ctx context.Context, userName string) (*FraudCase, error) {
	cases, _ := s.List(ctx)
	for _, c := range cases {
		if strings.EqualFold(c.UserName, userName) && c.Status == StatusPending {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// List implements CaseStore.
func (s *MemoryCaseStore) List(_ context.Context) ([]*FraudCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*FraudCase, 0, len(s.cases))
	for _, c := range s.cases {
		out = append(out, cloneCase(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put implements CaseStore.
func (s *MemoryCaseStore) Put(_ context.Context, c *FraudCase) error {
	if c == nil || c.ID == "" {
		return ErrInvalidID
	}
	c.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = cloneCase(c)
	return nil
}

// Close implements CaseStore.
func (s *MemoryCaseStore) Close() error { return nil }
