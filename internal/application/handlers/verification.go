package handlers

import (
	"context"

	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// autoSelectThreshold is the relevance score above which the top suggestion
// is approved without asking for an explicit choice.
const autoSelectThreshold = 0.7

// UserVerification confirms the table selection before any query is built.
// The handler approves the best available candidate: ranked suggestions
// first, then raw discovered tables, then similarity matches.
type UserVerification struct {
	logger *zap.Logger
}

func NewUserVerification(logger *zap.Logger) *UserVerification {
	return &UserVerification{logger: logger}
}

// Execute resolves the approved table set from upstream results.
func (h *UserVerification) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	var suggestions []any
	var discovered []string
	if schema := section(input, "1_discover_schema"); schema != nil {
		suggestions = anySlice(schema["table_suggestions"])
		discovered = stringSlice(schema["discovered_tables"])
	}

	var matched []string
	if similarity := section(input, "3_similarity_matching"); similarity != nil {
		matched = stringSlice(similarity["matched_tables"])
	} else if ref := asMap(input["proposed_matches"]); ref != nil {
		matched = stringSlice(ref["matched_tables"])
	}

	var selected []string
	var userChoice string

	switch {
	case len(suggestions) > 0:
		top := asMap(suggestions[0])
		table := stringValue(top, "table_name")
		score := floatValue(top["relevance_score"])

		selected = []string{table}
		if score > autoSelectThreshold {
			userChoice = "auto_selected"
			h.logger.Info("auto-selecting highest relevance table",
				zap.String("table", table),
				zap.Float64("score", score))
		} else {
			userChoice = "default_first"
			h.logger.Info("low confidence, defaulting to first suggestion",
				zap.String("table", table),
				zap.Float64("score", score))
		}

	case len(discovered) > 0:
		selected = discovered[:1]
		userChoice = "discovered_fallback"
		h.logger.Info("using first discovered table", zap.String("table", selected[0]))

	case len(matched) > 0:
		selected = matched[:1]
		userChoice = "similarity_fallback"
		h.logger.Info("using first similarity-matched table", zap.String("table", selected[0]))

	default:
		h.logger.Warn("no tables available for selection")
		return domain.TaskResult{
			"approved_tables": []string{},
			"user_choice":     "none_available",
			"confidence":      "none",
			"error":           "no tables available for selection",
			"status":          domain.StatusFailed,
		}, nil
	}

	confidence := "medium"
	selectionMethod := "fallback"
	if len(suggestions) > 0 {
		confidence = "high"
		selectionMethod = "vector_ranked"
	}

	return domain.TaskResult{
		"approved_tables":   selected,
		"user_choice":       userChoice,
		"table_suggestions": suggestions,
		"confidence":        confidence,
		"selection_method":  selectionMethod,
		"status":            domain.StatusCompleted,
	}, nil
}
