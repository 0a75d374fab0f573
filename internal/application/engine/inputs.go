package engine

import (
	"strings"

	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// taskRefPrefix marks an input value that references another task's output,
// e.g. "from_task_2" resolves to the result of the task whose ID starts with
// "2_".
const taskRefPrefix = "from_task_"

// resolveInputs assembles the input map for one task: the original query,
// every completed task's full result keyed by its ID, and the task's
// declared input spec with cross-task references substituted. An
// unresolvable reference becomes an empty mapping plus a warning, never a
// hard failure.
func resolveInputs(
	task domain.AgentTask,
	results map[string]domain.TaskResult,
	userQuery string,
	logger *zap.Logger,
) map[string]any {
	resolved := map[string]any{
		"original_query": userQuery,
	}

	for prevID, prevResult := range results {
		resolved[prevID] = prevResult
	}

	for key, value := range task.InputData {
		ref, ok := value.(string)
		if !ok || !strings.HasPrefix(ref, taskRefPrefix) {
			resolved[key] = value
			continue
		}

		taskNumber := strings.TrimPrefix(ref, taskRefPrefix)
		if result, found := lookupByNumber(results, taskNumber); found {
			resolved[key] = result
			continue
		}

		logger.Warn("unresolvable task reference",
			zap.String("task_id", task.ID),
			zap.String("input_key", key),
			zap.String("reference", ref))
		resolved[key] = map[string]any{}
	}

	return resolved
}

// lookupByNumber finds the completed result whose task ID starts with
// "<number>_".
func lookupByNumber(results map[string]domain.TaskResult, number string) (domain.TaskResult, bool) {
	prefix := number + "_"
	for id, result := range results {
		if strings.HasPrefix(id, prefix) {
			return result, true
		}
	}
	return nil, false
}
