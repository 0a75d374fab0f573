package handlers

import (
	"context"
	"strings"
	"unicode"

	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// aggregationKeywords map query words to the aggregation they imply.
var aggregationKeywords = map[string]string{
	"count":   "count",
	"how":     "count",
	"many":    "count",
	"total":   "sum",
	"sum":     "sum",
	"average": "avg",
	"avg":     "avg",
	"mean":    "avg",
	"maximum": "max",
	"max":     "max",
	"highest": "max",
	"top":     "max",
	"minimum": "min",
	"min":     "min",
	"lowest":  "min",
}

// stopwords are query words that carry no entity meaning.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"for": true, "by": true, "to": true, "with": true, "and": true, "or": true,
	"is": true, "are": true, "was": true, "were": true, "show": true,
	"me": true, "all": true, "list": true, "give": true, "get": true,
	"what": true, "which": true, "who": true, "per": true, "from": true,
	"how": true, "many": true, "much": true, "do": true, "does": true,
	"have": true, "has": true,
}

// SemanticAnalysis extracts entities, intent, and aggregation hints from the
// raw query text. It is fully local; no model call is involved.
type SemanticAnalysis struct {
	logger *zap.Logger
}

func NewSemanticAnalysis(logger *zap.Logger) *SemanticAnalysis {
	return &SemanticAnalysis{logger: logger}
}

// Execute analyzes the query in the resolved input.
func (h *SemanticAnalysis) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	query := stringValue(input, "original_query")
	if q := stringValue(input, "query"); q != "" {
		query = q
	}

	words := tokenize(query)

	var entities []string
	var aggregations []string
	var filters []string
	seenAgg := map[string]bool{}

	for _, word := range words {
		if agg, ok := aggregationKeywords[word]; ok {
			if !seenAgg[agg] {
				aggregations = append(aggregations, agg)
				seenAgg[agg] = true
			}
			continue
		}
		if stopwords[word] {
			continue
		}
		if isNumeric(word) {
			filters = append(filters, word)
			continue
		}
		entities = append(entities, word)
	}

	intent := classifyIntent(query, aggregations)

	complexity := 0.2 + 0.05*float64(len(entities)) + 0.1*float64(len(aggregations)) + 0.1*float64(len(filters))
	if complexity > 1 {
		complexity = 1
	}

	h.logger.Debug("semantic analysis completed",
		zap.String("intent", intent),
		zap.Int("entities", len(entities)))

	return domain.TaskResult{
		"entities":         entities,
		"intent":           intent,
		"business_terms":   entities,
		"filters":          filters,
		"aggregations":     aggregations,
		"complexity_score": complexity,
		"status":           domain.StatusCompleted,
	}, nil
}

// classifyIntent picks the dominant intent of the query.
func classifyIntent(query string, aggregations []string) string {
	lowered := strings.ToLower(query)
	switch {
	case strings.Contains(lowered, "compare") || strings.Contains(lowered, " vs ") || strings.Contains(lowered, "versus"):
		return "comparison"
	case strings.Contains(lowered, "trend") || strings.Contains(lowered, "over time") || strings.Contains(lowered, "by month") || strings.Contains(lowered, "by year"):
		return "trend"
	case len(aggregations) > 0:
		return "aggregation"
	default:
		return "exploration"
	}
}

// tokenize lowercases and splits the query on non-alphanumeric runs.
func tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(word) > 0
}
