package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// Visualization turns execution results into chart specifications and a
// narrative summary. Chart choice is shape-driven: numeric columns get bars,
// date-like columns get lines, and every result gets a plain table view.
type Visualization struct {
	logger *zap.Logger
}

func NewVisualization(logger *zap.Logger) *Visualization {
	return &Visualization{logger: logger}
}

// Execute builds chart specs from the execution result.
func (h *Visualization) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	var rows []any
	if exec := section(input, "6_query_execution"); exec != nil {
		rows = anySlice(exec["results"])
	} else if ref := asMap(input["results"]); ref != nil {
		rows = anySlice(ref["results"])
	}

	if len(rows) == 0 {
		h.logger.Warn("no data for visualization")
		return domain.TaskResult{
			"error":  "no data for visualization",
			"status": domain.StatusFailed,
		}, nil
	}

	query := stringValue(input, "original_query")
	charts := buildCharts(rows, query)

	chartTypes := make([]string, len(charts))
	for i, chart := range charts {
		chartTypes[i] = stringValue(chart, "type")
	}

	summary := fmt.Sprintf("Analysis completed with %d records. Generated %d visualizations.", len(rows), len(charts))

	return domain.TaskResult{
		"charts":      charts,
		"summary":     summary,
		"chart_types": chartTypes,
		"status":      domain.StatusCompleted,
	}, nil
}

// buildCharts derives chart specs from the first row's column shapes.
func buildCharts(rows []any, query string) []map[string]any {
	charts := []map[string]any{
		{
			"type":  "table",
			"title": "Result rows",
			"rows":  len(rows),
		},
	}

	first := asMap(rows[0])
	if first == nil {
		return charts
	}

	columns := make([]string, 0, len(first))
	for col := range first {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var numeric, temporal, categorical []string
	for _, col := range columns {
		switch first[col].(type) {
		case float64, float32, int, int64:
			numeric = append(numeric, col)
		default:
			if isTemporalName(col) {
				temporal = append(temporal, col)
			} else {
				categorical = append(categorical, col)
			}
		}
	}

	if len(numeric) > 0 {
		x := ""
		if len(categorical) > 0 {
			x = categorical[0]
		}
		charts = append(charts, map[string]any{
			"type":  "bar",
			"title": query,
			"x":     x,
			"y":     numeric[0],
		})
	}

	if len(temporal) > 0 && len(numeric) > 0 {
		charts = append(charts, map[string]any{
			"type":  "line",
			"title": query,
			"x":     temporal[0],
			"y":     numeric[0],
		})
	}

	return charts
}

// isTemporalName reports whether a column name looks date-valued.
func isTemporalName(col string) bool {
	lowered := strings.ToLower(col)
	for _, marker := range []string{"date", "time", "month", "year", "day"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
