package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubRunner serves a fixed result set and records the executed SQL.
type stubRunner struct {
	rs      *domain.ResultSet
	err     error
	lastSQL string
	maxRows int
}

func (r *stubRunner) Query(ctx context.Context, query string, maxRows int) (*domain.ResultSet, error) {
	r.lastSQL = query
	r.maxRows = maxRows
	return r.rs, r.err
}

func TestQueryExecution_RunsGeneratedSQL(t *testing.T) {
	runner := &stubRunner{rs: &domain.ResultSet{
		Columns: []string{"region", "total"},
		Rows: [][]any{
			{"north", 120.5},
			{"south", 80.0},
		},
	}}
	h := NewQueryExecution(runner, zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"5_query_generation": domain.TaskResult{
			"sql_query": "SELECT * FROM sales LIMIT 10",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM sales LIMIT 10", runner.lastSQL)
	assert.Equal(t, 10000, runner.maxRows)
	assert.Equal(t, "completed", result.Status())
	assert.Equal(t, 2, result["row_count"])

	rows, ok := result["results"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, "north", rows[0]["region"])
	assert.Equal(t, 120.5, rows[0]["total"])
}

func TestQueryExecution_ReadsValidatedQueryReference(t *testing.T) {
	runner := &stubRunner{rs: &domain.ResultSet{Columns: []string{"n"}, Rows: [][]any{{1}}}}
	h := NewQueryExecution(runner, zap.NewNop())

	_, err := h.Execute(context.Background(), map[string]any{
		"validated_query": map[string]any{"sql_query": "SELECT 1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", runner.lastSQL)
}

func TestQueryExecution_NoSQL(t *testing.T) {
	h := NewQueryExecution(&stubRunner{}, zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status())
	assert.Contains(t, result["error"], "no SQL query")
}

func TestQueryExecution_RunnerErrorPropagates(t *testing.T) {
	h := NewQueryExecution(&stubRunner{err: errors.New("table locked")}, zap.NewNop())

	_, err := h.Execute(context.Background(), map[string]any{
		"validated_query": map[string]any{"sql_query": "SELECT 1"},
	})
	require.Error(t, err)
}
