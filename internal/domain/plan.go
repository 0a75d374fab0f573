package domain

import "time"

// PlanStatus is the terminal status of one plan execution.
type PlanStatus string

const (
	PlanCompleted PlanStatus = "completed"
	PlanFailed    PlanStatus = "failed"
	PlanPartial   PlanStatus = "partial"
	PlanDeadlock  PlanStatus = "deadlock"
)

// TaskSummary is the per-task line of a plan response.
type TaskSummary struct {
	TaskID string   `json:"task_id"`
	Type   TaskType `json:"task_type"`
	Agent  string   `json:"agent"`
}

// PlanResponse is the structured answer of ProcessQuery. It always carries a
// status; no error escapes the facade unwrapped.
type PlanResponse struct {
	PlanID         string                `json:"plan_id"`
	UserQuery      string                `json:"user_query"`
	UserID         string                `json:"user_id,omitempty"`
	SessionID      string                `json:"session_id,omitempty"`
	ReasoningSteps []string              `json:"reasoning_steps,omitempty"`
	Tasks          []TaskSummary         `json:"tasks"`
	Status         PlanStatus            `json:"status"`
	Results        map[string]TaskResult `json:"results"`
	Error          string                `json:"error,omitempty"`
	SubmittedAt    time.Time             `json:"submitted_at"`
	CompletedAt    time.Time             `json:"completed_at"`
}
