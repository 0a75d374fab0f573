package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/datanaut/naqo/internal/application/vector"
	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"go.uber.org/zap"
)

// discoveryTopK bounds how many tables a discovery pass proposes.
const discoveryTopK = 4

// fallbackTableLimit bounds how many tables the catalog fallback lists.
const fallbackTableLimit = 10

// SchemaDiscovery proposes the tables most relevant to the query. The primary
// path ranks tables through the similarity index; when the index cannot serve,
// a plain catalog listing takes over with default relevance scores.
type SchemaDiscovery struct {
	matcher        *vector.Matcher
	catalog        ports.CatalogSource
	logger         *zap.Logger
	chunksPerTable int
	rebuildBelow   float64
}

// NewSchemaDiscovery creates the discovery handler. chunksPerTable is the
// expected vector count per table used to judge index completeness;
// rebuildBelow is the completeness ratio under which the index is rebuilt.
func NewSchemaDiscovery(matcher *vector.Matcher, catalog ports.CatalogSource, logger *zap.Logger, chunksPerTable int, rebuildBelow float64) *SchemaDiscovery {
	if chunksPerTable <= 0 {
		chunksPerTable = 4
	}
	if rebuildBelow <= 0 {
		rebuildBelow = 0.8
	}
	return &SchemaDiscovery{
		matcher:        matcher,
		catalog:        catalog,
		logger:         logger,
		chunksPerTable: chunksPerTable,
		rebuildBelow:   rebuildBelow,
	}
}

// Execute discovers relevant tables for the query in the resolved input.
func (h *SchemaDiscovery) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	query := stringValue(input, "original_query")
	if q := stringValue(input, "query"); q != "" {
		query = q
	}

	if err := h.ensureIndexed(ctx); err != nil {
		h.logger.Warn("similarity index unavailable, using catalog fallback", zap.Error(err))
		return h.fallbackDiscovery(ctx)
	}

	matches, err := h.matcher.FindSimilarTables(ctx, query, discoveryTopK, 0)
	if err != nil || len(matches) == 0 {
		if err != nil {
			h.logger.Warn("vector table search failed, using catalog fallback", zap.Error(err))
		}
		return h.fallbackDiscovery(ctx)
	}

	discovered := make([]string, 0, len(matches))
	details := make([]map[string]any, 0, len(matches))
	suggestions := make([]map[string]any, 0, len(matches))

	for i, match := range matches {
		discovered = append(discovered, match.TableName)

		columns := make([]map[string]any, 0)
		for _, col := range h.matcher.TableColumns(match.TableName) {
			columns = append(columns, map[string]any{
				"name":      col.Name,
				"data_type": col.DataType,
			})
		}

		details = append(details, map[string]any{
			"name":        match.TableName,
			"columns":     columns,
			"description": tableDescription(match.TableName),
		})

		suggestions = append(suggestions, map[string]any{
			"rank":                i + 1,
			"table_name":          match.TableName,
			"relevance_score":     match.Similarity,
			"description":         tableDescription(match.TableName),
			"chunk_types":         []string{"table", "column"},
			"estimated_relevance": relevanceLabel(match.Similarity),
		})
	}

	h.logger.Info("schema discovery completed",
		zap.String("query", query),
		zap.Int("tables", len(discovered)))

	return domain.TaskResult{
		"discovered_tables": discovered,
		"table_details":     details,
		"table_suggestions": suggestions,
		"status":            domain.StatusCompleted,
	}, nil
}

// ensureIndexed rebuilds the similarity index when it is empty or too
// incomplete relative to the catalog.
func (h *SchemaDiscovery) ensureIndexed(ctx context.Context) error {
	tables, err := h.catalog.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if len(tables) == 0 {
		return fmt.Errorf("catalog has no tables")
	}

	indexed := h.matcher.IndexedCount()
	expected := len(tables) * h.chunksPerTable
	completeness := float64(indexed) / float64(expected)

	if indexed == 0 || completeness < h.rebuildBelow {
		h.logger.Info("similarity index incomplete, rebuilding",
			zap.Int("indexed", indexed),
			zap.Int("expected", expected),
			zap.Float64("completeness", completeness))
		if err := h.matcher.Rebuild(ctx); err != nil {
			return fmt.Errorf("index rebuild failed: %w", err)
		}
	}
	return nil
}

// fallbackDiscovery lists a bounded slice of the catalog with default
// relevance when similarity search cannot serve.
func (h *SchemaDiscovery) fallbackDiscovery(ctx context.Context) (domain.TaskResult, error) {
	tables, err := h.catalog.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("all schema discovery methods failed: %w", err)
	}

	if len(tables) > fallbackTableLimit {
		tables = tables[:fallbackTableLimit]
	}
	if len(tables) > discoveryTopK {
		tables = tables[:discoveryTopK]
	}

	discovered := make([]string, 0, len(tables))
	details := make([]map[string]any, 0, len(tables))
	suggestions := make([]map[string]any, 0, len(tables))

	for i, table := range tables {
		discovered = append(discovered, table)

		columns := make([]map[string]any, 0)
		cols, err := h.catalog.DescribeColumns(ctx, table)
		if err != nil {
			h.logger.Warn("failed to describe table in fallback",
				zap.String("table", table),
				zap.Error(err))
		} else {
			for _, col := range cols {
				columns = append(columns, map[string]any{
					"name":      col.Name,
					"data_type": col.DataType,
				})
			}
		}

		details = append(details, map[string]any{
			"name":        table,
			"columns":     columns,
			"description": tableDescription(table),
		})

		suggestions = append(suggestions, map[string]any{
			"rank":                i + 1,
			"table_name":          table,
			"relevance_score":     0.5,
			"description":         tableDescription(table),
			"chunk_types":         []string{"fallback"},
			"estimated_relevance": "Medium",
		})
	}

	h.logger.Info("fallback schema discovery completed", zap.Int("tables", len(discovered)))

	return domain.TaskResult{
		"discovered_tables": discovered,
		"table_details":     details,
		"table_suggestions": suggestions,
		"status":            domain.StatusCompleted,
	}, nil
}

// tableDescription renders the human description used in suggestions.
func tableDescription(table string) string {
	return "Table containing " + strings.ToLower(strings.ReplaceAll(table, "_", " ")) + " data"
}

// relevanceLabel buckets a similarity score for display.
func relevanceLabel(score float64) string {
	switch {
	case score > 0.8:
		return "High"
	case score > 0.6:
		return "Medium"
	default:
		return "Low"
	}
}
