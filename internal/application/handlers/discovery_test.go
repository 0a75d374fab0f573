package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/datanaut/naqo/internal/application/vector"
	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchemaDiscovery_VectorPath(t *testing.T) {
	catalog := &tableCatalog{
		tables: []string{"sales_data", "logs"},
		columns: map[string][]domain.Column{
			"sales_data": {{Name: "amount", DataType: "REAL"}, {Name: "region", DataType: "TEXT"}},
		},
	}
	h := NewSchemaDiscovery(lazyMatcher(catalog), catalog, zap.NewNop(), 0, 0)

	result, err := h.Execute(context.Background(), map[string]any{
		"query": "show sales by region",
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status())

	discovered, ok := result["discovered_tables"].([]string)
	require.True(t, ok)
	require.NotEmpty(t, discovered)
	assert.Equal(t, "sales_data", discovered[0], "best similarity match ranks first")

	suggestions, ok := result["table_suggestions"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, suggestions[0]["rank"])
	assert.Equal(t, "sales_data", suggestions[0]["table_name"])
	assert.Equal(t, "High", suggestions[0]["estimated_relevance"])
	assert.Equal(t, []string{"table", "column"}, suggestions[0]["chunk_types"])

	details, ok := result["table_details"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sales_data", details[0]["name"])
	assert.Len(t, details[0]["columns"], 2)
	assert.Equal(t, "Table containing sales data data", details[0]["description"])
}

func TestSchemaDiscovery_FallbackWhenIndexEmpty(t *testing.T) {
	// The matcher's own catalog is empty, so the rebuilt index stays empty
	// and discovery degrades to a plain catalog listing.
	handlerCatalog := &tableCatalog{
		tables: []string{"t1", "t2", "t3", "t4", "t5", "t6"},
	}
	h := NewSchemaDiscovery(emptyMatcher(), handlerCatalog, zap.NewNop(), 0, 0)

	result, err := h.Execute(context.Background(), map[string]any{"query": "q"})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status())

	discovered := result["discovered_tables"].([]string)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, discovered)

	suggestions := result["table_suggestions"].([]map[string]any)
	assert.Equal(t, 0.5, suggestions[0]["relevance_score"])
	assert.Equal(t, "Medium", suggestions[0]["estimated_relevance"])
	assert.Equal(t, []string{"fallback"}, suggestions[0]["chunk_types"])
}

func TestSchemaDiscovery_CatalogErrorFailsTask(t *testing.T) {
	catalog := &tableCatalog{err: errors.New("connection refused")}
	h := NewSchemaDiscovery(emptyMatcher(), catalog, zap.NewNop(), 0, 0)

	_, err := h.Execute(context.Background(), map[string]any{"query": "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all schema discovery methods failed")
}

// lazyMatcher builds a matcher over the given catalog without populating the
// index, exercising the rebuild-on-demand path inside discovery.
func lazyMatcher(catalog *tableCatalog) *vector.Matcher {
	return vector.NewMatcher(fakeEmbedder{}, missStore{}, catalog, ports.NopMetrics{}, zap.NewNop(), vector.Options{})
}
