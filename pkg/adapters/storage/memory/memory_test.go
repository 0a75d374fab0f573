package memory

import (
	"context"
	"testing"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PlanRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	plan := &domain.PlanResponse{
		PlanID:    "p1",
		UserQuery: "show sales",
		Status:    domain.PlanCompleted,
	}
	require.NoError(t, store.SavePlan(ctx, plan))

	loaded, err := store.GetPlan(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "show sales", loaded.UserQuery)
	assert.Equal(t, domain.PlanCompleted, loaded.Status)

	// The stored plan is a copy; mutating the returned value must not leak
	// back into the store.
	loaded.UserQuery = "mutated"
	again, err := store.GetPlan(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "show sales", again.UserQuery)
}

func TestStore_GetPlanMissing(t *testing.T) {
	_, err := NewStore().GetPlan(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)
}

func TestStore_CacheSnapshotRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, store.Save(ctx, &domain.CacheSnapshot{Model: "m1"}))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m1", snap.Model)
}
