package handlers

import (
	"context"
	"fmt"

	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// QueryGeneration builds the SQL statement for the approved tables. Generated
// statements are plain bounded SELECTs; nothing mutating can come out of this
// step.
type QueryGeneration struct {
	logger *zap.Logger
}

func NewQueryGeneration(logger *zap.Logger) *QueryGeneration {
	return &QueryGeneration{logger: logger}
}

// Execute generates SQL from the verification result.
func (h *QueryGeneration) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	tables := approvedTables(input)
	if len(tables) == 0 {
		h.logger.Warn("no approved tables for query generation")
		return domain.TaskResult{
			"error":  "no confirmed tables for query generation",
			"status": domain.StatusFailed,
		}, nil
	}

	mainTable := tables[0]
	sqlQuery := fmt.Sprintf("SELECT * FROM %s LIMIT 10", mainTable)

	h.logger.Info("generated query",
		zap.String("table", mainTable),
		zap.String("sql", sqlQuery))

	return domain.TaskResult{
		"sql_query":    sqlQuery,
		"explanation":  fmt.Sprintf("Generated query to fetch data from %s", mainTable),
		"tables_used":  tables,
		"safety_level": "safe",
		"status":       domain.StatusCompleted,
	}, nil
}

// approvedTables pulls the confirmed table set from the verification result.
// Older callers emitted the set under "confirmed_tables"; both keys are read.
func approvedTables(input map[string]any) []string {
	sources := []map[string]any{
		section(input, "4_user_verification"),
		asMap(input["confirmed_schema"]),
	}
	for _, src := range sources {
		if src == nil {
			continue
		}
		if tables := stringSlice(src["approved_tables"]); len(tables) > 0 {
			return tables
		}
		if tables := stringSlice(src["confirmed_tables"]); len(tables) > 0 {
			return tables
		}
	}
	return nil
}
