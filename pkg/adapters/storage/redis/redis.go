package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cacheKey is the single key holding the embedding cache snapshot.
const cacheKey = "naqo:embeddings"

// Store persists plan responses and embedding cache snapshots in Redis.
// Plans expire after the configured TTL; the cache snapshot carries its own
// freshness stamp and is stored without expiry.
type Store struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewStore creates a Redis-backed store. ttl bounds plan retention.
func NewStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// SavePlan stores the plan response under its ID with the retention TTL.
func (s *Store) SavePlan(ctx context.Context, plan *domain.PlanResponse) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := s.client.Set(ctx, planKey(plan.PlanID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	s.logger.Debug("plan saved",
		zap.String("plan_id", plan.PlanID),
		zap.String("status", string(plan.Status)))
	return nil
}

// GetPlan retrieves a stored plan response.
func (s *Store) GetPlan(ctx context.Context, planID string) (*domain.PlanResponse, error) {
	data, err := s.client.Get(ctx, planKey(planID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("plan %s: %w", planID, ports.ErrPlanNotFound)
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	var plan domain.PlanResponse
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &plan, nil
}

// ListPlans returns every retained plan response.
func (s *Store) ListPlans(ctx context.Context) ([]*domain.PlanResponse, error) {
	var cursor uint64
	var keys []string
	for {
		batch, next, err := s.client.Scan(ctx, cursor, "naqo:plan:*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	plans := make([]*domain.PlanResponse, 0, len(keys))
	for _, key := range keys {
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var plan domain.PlanResponse
		if err := json.Unmarshal(data, &plan); err != nil {
			continue
		}
		plans = append(plans, &plan)
	}
	return plans, nil
}

// Load retrieves the embedding cache snapshot. A missing or corrupt value is
// a cache miss.
func (s *Store) Load(ctx context.Context) (*domain.CacheSnapshot, error) {
	data, err := s.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ports.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache snapshot: %w", err)
	}

	var snap domain.CacheSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("corrupt cache snapshot, treating as miss", zap.Error(err))
		return nil, ports.ErrCacheMiss
	}
	return &snap, nil
}

// Save stores the embedding cache snapshot.
func (s *Store) Save(ctx context.Context, snap *domain.CacheSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal cache snapshot: %w", err)
	}

	if err := s.client.Set(ctx, cacheKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cache snapshot: %w", err)
	}

	s.logger.Debug("cache snapshot saved",
		zap.Int("tables", len(snap.Tables)),
		zap.Int("columns", len(snap.Columns)))
	return nil
}

// planKey returns the Redis key for a plan response.
func planKey(planID string) string {
	return fmt.Sprintf("naqo:plan:%s", planID)
}
