package memory

import (
	"context"
	"sync"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
)

// Store keeps plan responses and the embedding cache snapshot in process
// memory. Intended for tests and single-node development setups.
type Store struct {
	mu    sync.RWMutex
	plans map[string]*domain.PlanResponse
	snap  *domain.CacheSnapshot
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		plans: make(map[string]*domain.PlanResponse),
	}
}

// SavePlan stores a copy of the plan response.
func (s *Store) SavePlan(ctx context.Context, plan *domain.PlanResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *plan
	s.plans[plan.PlanID] = &copied
	return nil
}

// GetPlan retrieves a stored plan response.
func (s *Store) GetPlan(ctx context.Context, planID string) (*domain.PlanResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[planID]
	if !ok {
		return nil, ports.ErrPlanNotFound
	}
	copied := *plan
	return &copied, nil
}

// Load returns the stored cache snapshot.
func (s *Store) Load(ctx context.Context) (*domain.CacheSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ports.ErrCacheMiss
	}
	copied := *s.snap
	return &copied, nil
}

// Save replaces the stored cache snapshot.
func (s *Store) Save(ctx context.Context, snap *domain.CacheSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *snap
	s.snap = &copied
	return nil
}
