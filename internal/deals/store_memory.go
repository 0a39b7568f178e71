package deals

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"homeleads/pkg/sentinel"
)

// InMemoryStore is a map-backed Store for unit tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	deals map[uuid.UUID]*Deal
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{deals: make(map[uuid.UUID]*Deal)}
}

func (s *InMemoryStore) Insert(_ context.Context, deal *Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *deal
	s.deals[deal.ID] = &clone
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (*Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deal, ok := s.deals[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *deal
	return &clone, nil
}

func (s *InMemoryStore) Update(_ context.Context, deal *Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[deal.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *deal
	s.deals[deal.ID] = &clone
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.deals, id)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Deal
	for _, deal := range s.deals {
		if deal.UserID == userID {
			result = append(result, *deal)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}
