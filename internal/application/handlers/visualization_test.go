package handlers

import (
	"context"
	"testing"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVisualization_BarAndLineCharts(t *testing.T) {
	h := NewVisualization(zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"original_query": "revenue by month",
		"6_query_execution": domain.TaskResult{
			"results": []map[string]any{
				{"month": "2026-01", "region": "north", "revenue": 120.5},
				{"month": "2026-02", "region": "north", "revenue": 140.0},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status())
	assert.Contains(t, result["summary"], "2 records")

	types, ok := result["chart_types"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"table", "bar", "line"}, types)

	charts, ok := result["charts"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, charts, 3)
	assert.Equal(t, "region", charts[1]["x"])
	assert.Equal(t, "revenue", charts[1]["y"])
	assert.Equal(t, "month", charts[2]["x"])
}

func TestVisualization_TableOnlyForTextRows(t *testing.T) {
	h := NewVisualization(zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"6_query_execution": domain.TaskResult{
			"results": []map[string]any{
				{"name": "alice", "city": "berlin"},
			},
		},
	})
	require.NoError(t, err)

	types := result["chart_types"].([]string)
	assert.Equal(t, []string{"table"}, types)
}

func TestVisualization_NoData(t *testing.T) {
	h := NewVisualization(zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"results": map[string]any{"results": []any{}},
	})
	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status())
	assert.Contains(t, result["error"], "no data")
}
