package orchestrator

import (
	"context"
	"time"

	"github.com/datanaut/naqo/internal/application/engine"
	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// planEventsTopic carries plan lifecycle events.
const planEventsTopic = "plan.events"

// Orchestrator is the query facade: it plans, validates, executes, persists,
// and always answers with a structured PlanResponse. Failures surface as a
// response status and error field, never as a returned error.
type Orchestrator struct {
	planner     ports.Planner
	engine      *engine.Engine
	validator   *Validator
	store       ports.PlanStore
	bus         ports.EventBus
	metrics     ports.MetricsCollector
	logger      *zap.Logger
	planTimeout time.Duration
}

// New creates the orchestrator. The plan store and bus may be nil when
// persistence or event streaming is disabled.
func New(
	planner ports.Planner,
	eng *engine.Engine,
	validator *Validator,
	store ports.PlanStore,
	bus ports.EventBus,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	planTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		planner:     planner,
		engine:      eng,
		validator:   validator,
		store:       store,
		bus:         bus,
		metrics:     metrics,
		logger:      logger,
		planTimeout: planTimeout,
	}
}

// ProcessQuery runs the full pipeline for one natural language query.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query, userID, sessionID string) *domain.PlanResponse {
	started := time.Now()
	planID := uuid.New().String()

	o.logger.Info("processing query",
		zap.String("plan_id", planID),
		zap.String("user_id", userID),
		zap.String("query", query))

	tasks, reasoning := o.plan(ctx, query)

	response := &domain.PlanResponse{
		PlanID:         planID,
		UserQuery:      query,
		UserID:         userID,
		SessionID:      sessionID,
		ReasoningSteps: reasoning,
		Tasks:          summarize(tasks),
		Results:        map[string]domain.TaskResult{},
		SubmittedAt:    started,
	}

	o.publish(ctx, ports.EventPlanSubmitted, planID, map[string]any{
		"query": query,
		"tasks": len(tasks),
	})

	execCtx := ctx
	if o.planTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, o.planTimeout)
		defer cancel()
	}

	results, status, err := o.engine.Execute(execCtx, planID, query, tasks)
	response.Results = results
	response.Status = status
	response.CompletedAt = time.Now()
	if err != nil {
		response.Error = err.Error()
	}

	if status == domain.PlanCompleted {
		o.publish(ctx, ports.EventPlanCompleted, planID, map[string]any{"tasks": len(tasks)})
	} else {
		o.publish(ctx, ports.EventPlanFailed, planID, map[string]any{
			"status": string(status),
			"error":  response.Error,
		})
	}

	o.persist(ctx, response)
	o.metrics.RecordQueryProcessed(string(status), time.Since(started))

	o.logger.Info("query processed",
		zap.String("plan_id", planID),
		zap.String("status", string(status)),
		zap.Duration("duration", time.Since(started)))
	return response
}

// GetPlan retrieves a persisted plan response.
func (o *Orchestrator) GetPlan(ctx context.Context, planID string) (*domain.PlanResponse, error) {
	if o.store == nil {
		return nil, ports.ErrPlanNotFound
	}
	return o.store.GetPlan(ctx, planID)
}

// plan asks the planner for an execution plan and falls back to the default
// pipeline when planning fails or the produced plan does not validate.
func (o *Orchestrator) plan(ctx context.Context, query string) ([]domain.AgentTask, []string) {
	if o.planner == nil {
		return DefaultPlan(query), []string{"planner disabled, using default pipeline"}
	}

	planContext := map[string]any{
		"available_agents": domain.Capabilities(),
	}

	tasks, err := o.planner.Plan(ctx, query, planContext)
	if err != nil {
		o.metrics.RecordPlannerFallback()
		o.logger.Warn("planning failed, using default plan", zap.Error(err))
		return DefaultPlan(query), []string{"planner failed: " + err.Error(), "using default pipeline"}
	}

	if err := o.validator.Validate(tasks); err != nil {
		o.metrics.RecordPlannerFallback()
		o.logger.Warn("planned tasks failed validation, using default plan", zap.Error(err))
		return DefaultPlan(query), []string{"planned tasks invalid: " + err.Error(), "using default pipeline"}
	}

	steps := make([]string, 0, len(tasks)+1)
	steps = append(steps, "planner produced execution plan")
	for _, task := range tasks {
		steps = append(steps, task.ID+" via "+domain.AgentForTask(task.Type))
	}
	return tasks, steps
}

// persist stores the finished response. Storage failure is logged and
// swallowed; the caller still gets the in-memory response.
func (o *Orchestrator) persist(ctx context.Context, response *domain.PlanResponse) {
	if o.store == nil {
		return
	}
	if err := o.store.SavePlan(ctx, response); err != nil {
		o.logger.Warn("failed to persist plan response",
			zap.String("plan_id", response.PlanID),
			zap.Error(err))
	}
}

// publish emits a plan lifecycle event; failures are logged, never propagated.
func (o *Orchestrator) publish(ctx context.Context, eventType ports.EventType, planID string, data map[string]any) {
	if o.bus == nil {
		return
	}

	event := ports.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		PlanID:    planID,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := o.bus.Publish(ctx, planEventsTopic, event); err != nil {
		o.logger.Warn("failed to publish event",
			zap.String("event_type", string(eventType)),
			zap.String("plan_id", planID),
			zap.Error(err))
	}
}

// summarize reduces the plan to its per-task response lines.
func summarize(tasks []domain.AgentTask) []domain.TaskSummary {
	summaries := make([]domain.TaskSummary, len(tasks))
	for i, task := range tasks {
		summaries[i] = domain.TaskSummary{
			TaskID: task.ID,
			Type:   task.Type,
			Agent:  domain.AgentForTask(task.Type),
		}
	}
	return summaries
}
