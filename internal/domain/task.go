package domain

// TaskType identifies one kind of analytical task. The set is closed: the
// engine dispatches on it through the handler registry.
type TaskType string

const (
	TaskSchemaDiscovery       TaskType = "schema_discovery"
	TaskSemanticUnderstanding TaskType = "semantic_understanding"
	TaskSimilarityMatching    TaskType = "similarity_matching"
	TaskQueryGeneration       TaskType = "query_generation"
	TaskValidation            TaskType = "validation"
	TaskExecution             TaskType = "execution"
	TaskVisualization         TaskType = "visualization"
	TaskUserInteraction       TaskType = "user_interaction"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskSchemaDiscovery, TaskSemanticUnderstanding, TaskSimilarityMatching,
		TaskQueryGeneration, TaskValidation, TaskExecution,
		TaskVisualization, TaskUserInteraction:
		return true
	}
	return false
}

// Critical reports whether a failure of this task type must abort the plan.
// Confirmation and validation steps gate everything downstream of them.
func (t TaskType) Critical() bool {
	return t == TaskUserInteraction || t == TaskValidation
}

// AgentTask is one node of an execution plan. Tasks are produced once by the
// planner, are immutable, and are consumed exactly once by the engine.
// Dependencies reference task IDs within the same plan.
type AgentTask struct {
	ID             string         `json:"task_id"`
	Type           TaskType       `json:"task_type"`
	InputData      map[string]any `json:"input_data,omitempty"`
	RequiredOutput map[string]any `json:"required_output,omitempty"`
	Constraints    map[string]any `json:"constraints,omitempty"`
	Dependencies   []string       `json:"dependencies,omitempty"`
}

// Task result status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// TaskResult is the opaque outcome of a single task. It always carries a
// "status" entry; failures additionally carry "error" and "fallback_used".
type TaskResult map[string]any

// Status returns the result's status entry, or StatusFailed when absent.
func (r TaskResult) Status() string {
	if s, ok := r["status"].(string); ok {
		return s
	}
	return StatusFailed
}

// Failed reports whether the result carries a failed status.
func (r TaskResult) Failed() bool {
	return r.Status() == StatusFailed
}

// FallbackResult builds the result recorded for a non-critical task whose
// handler returned an error. The task still counts as completed so that
// downstream tasks proceed with degraded input.
func FallbackResult(err error) TaskResult {
	return TaskResult{
		"status":        StatusFailed,
		"error":         err.Error(),
		"fallback_used": true,
	}
}
