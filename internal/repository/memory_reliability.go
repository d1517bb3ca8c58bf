package repository

import (
	"context"
	"sync"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
)

// MemoryReliabilityStore keeps trust weights in process memory. Used when
// Redis is disabled and as the substitute in tests. The mutex serializes
// updates, which satisfies the per-source ordering guarantee trivially.
type MemoryReliabilityStore struct {
	mu sync.RWMutex
	m  map[string]models.SourceReliability
}

func NewMemoryReliabilityStore() domrepo.ReliabilityStore {
	return &MemoryReliabilityStore{m: make(map[string]models.SourceReliability)}
}

func (s *MemoryReliabilityStore) Get(_ context.Context, sourceName string) (*models.SourceReliability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, ok := s.m[sourceName]
	if !ok {
		return nil, nil
	}
	cp := rel
	return &cp, nil
}

func (s *MemoryReliabilityStore) GetAll(_ context.Context) ([]*models.SourceReliability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.SourceReliability, 0, len(s.m))
	for _, rel := range s.m {
		cp := rel
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryReliabilityStore) Update(_ context.Context, sourceName string, fn func(cur *models.SourceReliability) *models.SourceReliability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur *models.SourceReliability
	if rel, ok := s.m[sourceName]; ok {
		cp := rel
		cur = &cp
	}
	next := fn(cur)
	if next != nil {
		s.m[sourceName] = *next
	}
	return nil
}

func (s *MemoryReliabilityStore) Close() error { return nil }
