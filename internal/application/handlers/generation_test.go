package handlers

import (
	"context"
	"testing"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueryGeneration_FromVerificationResult(t *testing.T) {
	h := NewQueryGeneration(zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"4_user_verification": domain.TaskResult{
			"approved_tables": []string{"sales", "regions"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status())
	assert.Equal(t, "SELECT * FROM sales LIMIT 10", result["sql_query"])
	assert.Equal(t, []string{"sales", "regions"}, result["tables_used"])
	assert.Equal(t, "safe", result["safety_level"])
	assert.Contains(t, result["explanation"], "sales")
}

func TestQueryGeneration_ReadsConfirmedTablesKey(t *testing.T) {
	h := NewQueryGeneration(zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"confirmed_schema": map[string]any{
			"confirmed_tables": []string{"orders"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM orders LIMIT 10", result["sql_query"])
}

func TestQueryGeneration_NoTables(t *testing.T) {
	h := NewQueryGeneration(zap.NewNop())

	result, err := h.Execute(context.Background(), map[string]any{
		"confirmed_schema": map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status())
	assert.Contains(t, result["error"], "no confirmed tables")
}
