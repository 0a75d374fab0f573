package vector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// loadedMatcher builds a matcher whose index comes from a hand-built
// snapshot, with query embeddings supplied by fn.
func loadedMatcher(t *testing.T, snap *domain.CacheSnapshot, fn func(text string) []float32) *Matcher {
	t.Helper()
	snap.CreatedAt = time.Now()

	provider := &fakeProvider{dims: snap.Dimensions, fn: fn}
	m := NewMatcher(provider, &fakeStore{snap: snap}, &fakeCatalog{}, nopMetrics(), zap.NewNop(), Options{CacheMaxAge: time.Hour})
	require.NoError(t, m.BuildOrLoad(context.Background(), false))
	return m
}

func nopMetrics() ports.MetricsCollector { return ports.NopMetrics{} }

func TestFindSimilarTables_RanksAndFilters(t *testing.T) {
	snap := &domain.CacheSnapshot{
		Dimensions: 2,
		Tables: map[string][]float32{
			"sales":     {1, 0},
			"inventory": {0.7, 0.7},
			"logs":      {0, 1},
		},
	}
	m := loadedMatcher(t, snap, func(string) []float32 { return []float32{1, 0} })

	matches, err := m.FindSimilarTables(context.Background(), "sales by region", 10, 0.5)
	require.NoError(t, err)

	require.Len(t, matches, 2, "below-threshold tables are dropped")
	assert.Equal(t, "sales", matches[0].TableName)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
	assert.Equal(t, "vector_semantic", matches[0].MatchType)
	assert.Equal(t, "inventory", matches[1].TableName)
}

func TestFindSimilarTables_TopK(t *testing.T) {
	snap := &domain.CacheSnapshot{
		Dimensions: 2,
		Tables: map[string][]float32{
			"a": {1, 0},
			"b": {0.9, 0.1},
			"c": {0.8, 0.2},
		},
	}
	m := loadedMatcher(t, snap, func(string) []float32 { return []float32{1, 0} })

	matches, err := m.FindSimilarTables(context.Background(), "q", 2, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFindSimilarTables_EmptyIndex(t *testing.T) {
	m := NewMatcher(&fakeProvider{dims: 2}, &fakeStore{}, &fakeCatalog{}, nopMetrics(), zap.NewNop(), Options{})

	matches, err := m.FindSimilarTables(context.Background(), "q", 5, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindRelevantColumns_RanksDateAboveID(t *testing.T) {
	snap := &domain.CacheSnapshot{
		Dimensions: 2,
		Columns: map[string][]float32{
			"orders.created_at": {1, 0},
			"orders.id":         {0, 1},
		},
		Tables: map[string][]float32{"orders": {1, 0}},
	}
	m := loadedMatcher(t, snap, func(string) []float32 { return []float32{0.9, 0.1} })

	matches, err := m.FindRelevantColumns(context.Background(), "orders over time", "", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "created_at", matches[0].ColumnName)
	assert.Equal(t, "id", matches[1].ColumnName)
}

func TestFindRelevantColumns_TableFilter(t *testing.T) {
	snap := &domain.CacheSnapshot{
		Dimensions: 2,
		Columns: map[string][]float32{
			"orders.total":   {1, 0},
			"customers.name": {1, 0},
		},
		Tables: map[string][]float32{"orders": {1, 0}},
	}
	m := loadedMatcher(t, snap, func(string) []float32 { return []float32{1, 0} })

	matches, err := m.FindRelevantColumns(context.Background(), "q", "orders", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "orders", matches[0].TableName)
	assert.Equal(t, "total", matches[0].ColumnName)
}

func TestHybridSearch_CombinesTablesAndColumns(t *testing.T) {
	snap := &domain.CacheSnapshot{
		Dimensions: 2,
		Tables: map[string][]float32{
			"sales": {1, 0},
			"logs":  {0, 1},
		},
		Columns: map[string][]float32{
			"sales.amount": {1, 0},
			"sales.region": {0.8, 0.2},
			"logs.message": {0, 1},
		},
	}
	m := loadedMatcher(t, snap, func(string) []float32 { return []float32{1, 0} })

	result, err := m.HybridSearch(context.Background(), "sales by region", 2)
	require.NoError(t, err)

	assert.Equal(t, "vector_embeddings", result.Method)
	require.NotEmpty(t, result.Tables)
	assert.Equal(t, "sales", result.Tables[0].TableName)
	assert.NotEmpty(t, result.Columns)

	cols, ok := result.TableColumns["sales"]
	require.True(t, ok)
	assert.Equal(t, "amount", cols[0].ColumnName)
}

func TestEmbedQuery_FailureDegradesToZeroVector(t *testing.T) {
	snap := &domain.CacheSnapshot{
		Dimensions: 2,
		Tables:     map[string][]float32{"sales": {1, 0}},
	}
	m := loadedMatcher(t, snap, nil)
	m.provider = &fakeProvider{dims: 2, err: errors.New("provider down")}

	// Zero query vector matches nothing above a positive threshold, but the
	// call itself still succeeds.
	matches, err := m.FindSimilarTables(context.Background(), "q", 5, 0.1)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSanitizeTexts(t *testing.T) {
	out := sanitizeTexts([]string{"  padded  ", "", "ok"})
	assert.Equal(t, []string{"padded", "empty text", "ok"}, out)
}
