package ports

import (
	"context"
	"time"

	"github.com/datanaut/naqo/internal/domain"
)

// EmbeddingProvider turns text into fixed-dimensional vectors. Embed may fail
// per call; callers sanitize inputs (non-empty, trimmed) before sending and
// degrade to zero vectors on failure.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Model() string
}

// CatalogSource is the live source of truth for schema metadata. Either call
// may fail independently; a per-table DescribeColumns failure is non-fatal to
// index construction.
type CatalogSource interface {
	ListTables(ctx context.Context) ([]string, error)
	DescribeColumns(ctx context.Context, table string) ([]domain.Column, error)
}

// QueryRunner executes a validated query against the data source.
type QueryRunner interface {
	Query(ctx context.Context, query string, maxRows int) (*domain.ResultSet, error)
}

// Planner produces an execution plan for a query, or a typed failure. Any
// error deterministically triggers the default plan; the planner never hands
// unstructured text to the scheduler.
type Planner interface {
	Plan(ctx context.Context, query string, planContext map[string]any) ([]domain.AgentTask, error)
}

// TaskHandler executes one task type against its resolved input.
type TaskHandler interface {
	Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error)
}

// CacheStore persists embedding cache snapshots. Load returns ErrCacheMiss
// (possibly wrapped) when no usable snapshot exists; corruption is a miss,
// never an abort.
type CacheStore interface {
	Load(ctx context.Context) (*domain.CacheSnapshot, error)
	Save(ctx context.Context, snap *domain.CacheSnapshot) error
}

// PlanStore persists finished plan responses for later retrieval.
type PlanStore interface {
	SavePlan(ctx context.Context, plan *domain.PlanResponse) error
	GetPlan(ctx context.Context, planID string) (*domain.PlanResponse, error)
}

// EventType identifies one lifecycle event.
type EventType string

const (
	EventPlanSubmitted EventType = "plan.submitted"
	EventPlanCompleted EventType = "plan.completed"
	EventPlanFailed    EventType = "plan.failed"
	EventTaskStarted   EventType = "task.started"
	EventTaskCompleted EventType = "task.completed"
	EventTaskFailed    EventType = "task.failed"
)

// Event is one task or plan lifecycle notification.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	PlanID    string         `json:"plan_id"`
	TaskID    string         `json:"task_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventHandler consumes one event.
type EventHandler func(ctx context.Context, event Event) error

// EventBus carries lifecycle events between the engine and API consumers.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Close() error
}

// MetricsCollector records orchestrator metrics.
type MetricsCollector interface {
	RecordQueryProcessed(status string, duration time.Duration)
	RecordTaskExecuted(taskType, status string, duration time.Duration)
	RecordPlannerFallback()
	RecordDeadlock()
	RecordCacheBuild(status string, items int, duration time.Duration)
	RecordEmbeddingBatch(status string, size int)
	RecordSimilarityQuery(kind string, duration time.Duration)
}

// NopMetrics is a MetricsCollector that discards everything. Useful in tests
// and when metrics are disabled.
type NopMetrics struct{}

func (NopMetrics) RecordQueryProcessed(string, time.Duration)         {}
func (NopMetrics) RecordTaskExecuted(string, string, time.Duration)   {}
func (NopMetrics) RecordPlannerFallback()                             {}
func (NopMetrics) RecordDeadlock()                                    {}
func (NopMetrics) RecordCacheBuild(string, int, time.Duration)        {}
func (NopMetrics) RecordEmbeddingBatch(string, int)                   {}
func (NopMetrics) RecordSimilarityQuery(string, time.Duration)        {}
