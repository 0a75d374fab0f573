package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/datanaut/naqo/internal/application/engine"
	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// echoHandler completes every task with a fixed payload.
type echoHandler struct{}

func (echoHandler) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	return domain.TaskResult{"status": domain.StatusCompleted}, nil
}

type stubPlanner struct {
	tasks []domain.AgentTask
	err   error
}

func (p *stubPlanner) Plan(ctx context.Context, query string, planContext map[string]any) ([]domain.AgentTask, error) {
	return p.tasks, p.err
}

// countingMetrics records planner fallbacks.
type countingMetrics struct {
	ports.NopMetrics
	fallbacks atomic.Int64
}

func (m *countingMetrics) RecordPlannerFallback() { m.fallbacks.Add(1) }

func fullRegistry() *engine.Registry {
	registry := engine.NewRegistry()
	for _, taskType := range []domain.TaskType{
		domain.TaskSchemaDiscovery,
		domain.TaskSemanticUnderstanding,
		domain.TaskSimilarityMatching,
		domain.TaskUserInteraction,
		domain.TaskValidation,
		domain.TaskQueryGeneration,
		domain.TaskExecution,
		domain.TaskVisualization,
	} {
		registry.Register(taskType, echoHandler{})
	}
	return registry
}

func newTestOrchestrator(planner ports.Planner, metrics ports.MetricsCollector) *Orchestrator {
	logger := zap.NewNop()
	eng := engine.New(fullRegistry(), nil, metrics, logger)
	return New(planner, eng, NewValidator(), nil, nil, metrics, logger, time.Minute)
}

func TestProcessQuery_DefaultPlanWithoutPlanner(t *testing.T) {
	orch := newTestOrchestrator(nil, ports.NopMetrics{})

	response := orch.ProcessQuery(context.Background(), "show monthly revenue", "u1", "s1")
	require.NotNil(t, response)

	assert.NotEmpty(t, response.PlanID)
	assert.Equal(t, "show monthly revenue", response.UserQuery)
	assert.Equal(t, "u1", response.UserID)
	assert.Equal(t, domain.PlanCompleted, response.Status)
	assert.Empty(t, response.Error)
	assert.Len(t, response.Tasks, 7)
	assert.Len(t, response.Results, 7)
	assert.False(t, response.CompletedAt.Before(response.SubmittedAt))
}

func TestProcessQuery_PlannerErrorFallsBack(t *testing.T) {
	metrics := &countingMetrics{}
	orch := newTestOrchestrator(&stubPlanner{err: errors.New("rate limited")}, metrics)

	response := orch.ProcessQuery(context.Background(), "q", "u1", "s1")
	assert.Equal(t, domain.PlanCompleted, response.Status)
	assert.Len(t, response.Tasks, 7)
	assert.Equal(t, int64(1), metrics.fallbacks.Load())
	assert.Contains(t, response.ReasoningSteps[0], "planner failed")
}

func TestProcessQuery_InvalidPlanFallsBack(t *testing.T) {
	metrics := &countingMetrics{}
	planner := &stubPlanner{tasks: []domain.AgentTask{
		{ID: "1_a", Type: domain.TaskSchemaDiscovery, Dependencies: []string{"9_missing"}},
	}}
	orch := newTestOrchestrator(planner, metrics)

	response := orch.ProcessQuery(context.Background(), "q", "u1", "s1")
	assert.Equal(t, domain.PlanCompleted, response.Status)
	assert.Len(t, response.Tasks, 7)
	assert.Equal(t, int64(1), metrics.fallbacks.Load())
}

func TestProcessQuery_UsesPlannerPlan(t *testing.T) {
	planner := &stubPlanner{tasks: []domain.AgentTask{
		{ID: "1_discover", Type: domain.TaskSchemaDiscovery},
		{ID: "2_visualize", Type: domain.TaskVisualization, Dependencies: []string{"1_discover"}},
	}}
	orch := newTestOrchestrator(planner, ports.NopMetrics{})

	response := orch.ProcessQuery(context.Background(), "q", "u1", "s1")
	assert.Equal(t, domain.PlanCompleted, response.Status)
	require.Len(t, response.Tasks, 2)
	assert.Equal(t, "1_discover", response.Tasks[0].TaskID)
	assert.Equal(t, "schema_discoverer", response.Tasks[0].Agent)
	assert.Equal(t, "visualizer", response.Tasks[1].Agent)
}

func TestGetPlan_NoStore(t *testing.T) {
	orch := newTestOrchestrator(nil, ports.NopMetrics{})
	_, err := orch.GetPlan(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)
}
