package handlers

import (
	"context"
	"testing"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimilarityMatching_RanksDiscoveredTables(t *testing.T) {
	matcher := builtMatcher(t, &tableCatalog{tables: []string{"sales_data", "logs"}})
	h := NewSimilarityMatching(matcher, zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"original_query": "show sales by region",
		"1_discover_schema": domain.TaskResult{
			"discovered_tables": []string{"sales_data", "logs"},
		},
		"2_semantic_analysis": domain.TaskResult{
			"entities": []string{"sales", "region"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status())
	assert.Equal(t, []string{"sales_data", "logs"}, result["matched_tables"])
	assert.Equal(t, "high", result["confidence"])
	assert.Equal(t, []string{"sales", "region"}, result["entities_matched"])

	scores, ok := result["similarity_scores"].([]float64)
	require.True(t, ok)
	require.Len(t, scores, 2)
	assert.Greater(t, scores[0], scores[1])
}

func TestSimilarityMatching_DegradedScoresWithoutIndex(t *testing.T) {
	h := NewSimilarityMatching(emptyMatcher(), zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"original_query": "q",
		"schema": map[string]any{
			"discovered_tables": []string{"a", "b", "c", "d"},
		},
	})
	require.NoError(t, err)

	// Discovery order survives, capped at three, with default scores.
	assert.Equal(t, []string{"a", "b", "c"}, result["matched_tables"])
	assert.Equal(t, []float64{0.95, 0.87, 0.82}, result["similarity_scores"])
	assert.Equal(t, "high", result["confidence"])
}

func TestSimilarityMatching_NoTablesDiscovered(t *testing.T) {
	h := NewSimilarityMatching(emptyMatcher(), zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"original_query": "q",
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status())
	assert.Equal(t, []string{}, result["matched_tables"])
	assert.Equal(t, "low", result["confidence"])
	assert.Contains(t, result["error"], "no tables discovered")
}
