package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheStore_RoundTrip(t *testing.T) {
	store := NewCacheStore(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	snap := &domain.CacheSnapshot{
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Model:      "text-embedding-3-small",
		Dimensions: 2,
		Tables:     map[string][]float32{"orders": {0.5, 0.5}},
		Columns:    map[string][]float32{"orders.id": {1, 0}},
	}

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Model, loaded.Model)
	assert.Equal(t, snap.Dimensions, loaded.Dimensions)
	assert.Equal(t, snap.Tables, loaded.Tables)
	assert.Equal(t, snap.Columns, loaded.Columns)
	assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
}

func TestCacheStore_MissingFileIsMiss(t *testing.T) {
	store := NewCacheStore(t.TempDir(), zap.NewNop())

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCacheStore_CorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{not json"), 0o644))

	store := NewCacheStore(dir, zap.NewNop())
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCacheStore_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	store := NewCacheStore(dir, zap.NewNop())

	require.NoError(t, store.Save(context.Background(), &domain.CacheSnapshot{
		CreatedAt: time.Now(),
		Tables:    map[string][]float32{"t": {1}},
	}))

	_, err := os.Stat(filepath.Join(dir, snapshotFile))
	assert.NoError(t, err)
}

func TestCacheStore_SaveReplacesSnapshot(t *testing.T) {
	store := NewCacheStore(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.CacheSnapshot{Model: "first"}))
	require.NoError(t, store.Save(ctx, &domain.CacheSnapshot{Model: "second"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Model)
}
