package handlers

import (
	"context"
	"time"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"go.uber.org/zap"
)

// defaultMaxRows caps result size when the task carries no explicit limit.
const defaultMaxRows = 10000

// QueryExecution runs the generated statement through the query runner.
type QueryExecution struct {
	runner ports.QueryRunner
	logger *zap.Logger
}

func NewQueryExecution(runner ports.QueryRunner, logger *zap.Logger) *QueryExecution {
	return &QueryExecution{runner: runner, logger: logger}
}

// Execute runs the SQL produced by query generation.
func (h *QueryExecution) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	sqlQuery := generatedSQL(input)
	if sqlQuery == "" {
		h.logger.Warn("no SQL query to execute")
		return domain.TaskResult{
			"error":  "no SQL query to execute",
			"status": domain.StatusFailed,
		}, nil
	}

	started := time.Now()
	rs, err := h.runner.Query(ctx, sqlQuery, defaultMaxRows)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(started)

	rows := make([]map[string]any, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		record := make(map[string]any, len(rs.Columns))
		for i, col := range rs.Columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		rows = append(rows, record)
	}

	h.logger.Info("query executed",
		zap.String("sql", sqlQuery),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", elapsed))

	return domain.TaskResult{
		"results":        rows,
		"row_count":      len(rows),
		"columns":        rs.Columns,
		"execution_time": elapsed.Seconds(),
		"status":         domain.StatusCompleted,
	}, nil
}

// generatedSQL pulls the statement from the generation result.
func generatedSQL(input map[string]any) string {
	if gen := section(input, "5_query_generation"); gen != nil {
		if sql := stringValue(gen, "sql_query"); sql != "" {
			return sql
		}
	}
	if ref := asMap(input["validated_query"]); ref != nil {
		return stringValue(ref, "sql_query")
	}
	return ""
}
