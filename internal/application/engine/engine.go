package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrDeadlock marks a plan whose remaining tasks can never become ready:
// an unresolvable or circular dependency.
var ErrDeadlock = errors.New("no ready tasks remain: unresolvable or circular dependency")

// planEventsTopic carries task and plan lifecycle events.
const planEventsTopic = "plan.events"

// Engine executes a plan wave by wave: every pass dispatches the tasks whose
// dependencies are all completed, waits for the whole wave, then recomputes
// readiness. Tasks within one wave are independent and run concurrently.
type Engine struct {
	registry *Registry
	bus      ports.EventBus
	metrics  ports.MetricsCollector
	logger   *zap.Logger
}

// New creates an execution engine. The bus may be nil when no consumer
// listens for lifecycle events.
func New(registry *Registry, bus ports.EventBus, metrics ports.MetricsCollector, logger *zap.Logger) *Engine {
	return &Engine{
		registry: registry,
		bus:      bus,
		metrics:  metrics,
		logger:   logger,
	}
}

// waveOutcome is the raw outcome of one task dispatch within a wave.
type waveOutcome struct {
	task   domain.AgentTask
	result domain.TaskResult
	err    error
}

// Execute runs the plan to completion and returns every task's result plus
// the plan status. Results are partial when the status is not completed:
// deadlock, critical failure, and timeout all return whatever finished.
func (e *Engine) Execute(ctx context.Context, planID, userQuery string, tasks []domain.AgentTask) (map[string]domain.TaskResult, domain.PlanStatus, error) {
	results := make(map[string]domain.TaskResult, len(tasks))
	completed := make(map[string]bool, len(tasks))

	e.logger.Info("executing plan",
		zap.String("plan_id", planID),
		zap.Int("tasks", len(tasks)))

	for len(completed) < len(tasks) {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("plan execution cancelled",
				zap.String("plan_id", planID),
				zap.Int("completed", len(completed)),
				zap.Int("total", len(tasks)),
				zap.Error(err))
			return results, domain.PlanPartial, err
		}

		ready := readyTasks(tasks, completed)
		if len(ready) == 0 {
			e.metrics.RecordDeadlock()
			e.logger.Error("scheduling deadlock",
				zap.String("plan_id", planID),
				zap.Int("completed", len(completed)),
				zap.Int("total", len(tasks)))
			return results, domain.PlanDeadlock, ErrDeadlock
		}

		outcomes := e.dispatchWave(ctx, planID, userQuery, ready, results)

		// Apply outcomes after the whole wave has finished: the next
		// readiness computation needs the complete completed-set.
		for _, out := range outcomes {
			if out.err != nil {
				if out.task.Type.Critical() {
					results[out.task.ID] = domain.FallbackResult(out.err)
					e.logger.Error("critical task failed, aborting plan",
						zap.String("plan_id", planID),
						zap.String("task_id", out.task.ID),
						zap.String("task_type", string(out.task.Type)),
						zap.Error(out.err))
					return results, domain.PlanFailed, fmt.Errorf("critical task %s failed: %w", out.task.ID, out.err)
				}

				// Non-critical failure: record the fallback and keep
				// going so downstream tasks see degraded input.
				results[out.task.ID] = domain.FallbackResult(out.err)
				completed[out.task.ID] = true
				e.logger.Warn("task failed, continuing with fallback",
					zap.String("plan_id", planID),
					zap.String("task_id", out.task.ID),
					zap.Error(out.err))
				continue
			}

			results[out.task.ID] = out.result
			completed[out.task.ID] = true
		}
	}

	e.logger.Info("plan execution completed",
		zap.String("plan_id", planID),
		zap.Int("tasks", len(tasks)))
	return results, domain.PlanCompleted, nil
}

// dispatchWave runs every ready task concurrently and collects the outcomes
// once all of them have finished.
func (e *Engine) dispatchWave(
	ctx context.Context,
	planID, userQuery string,
	ready []domain.AgentTask,
	results map[string]domain.TaskResult,
) []waveOutcome {
	outcomes := make([]waveOutcome, len(ready))
	var wg sync.WaitGroup

	for i, task := range ready {
		wg.Add(1)
		go func(i int, task domain.AgentTask) {
			defer wg.Done()
			outcomes[i] = e.runTask(ctx, planID, userQuery, task, results)
		}(i, task)
	}

	wg.Wait()
	return outcomes
}

// runTask resolves one task's input, executes its handler, and records
// metrics and lifecycle events.
func (e *Engine) runTask(
	ctx context.Context,
	planID, userQuery string,
	task domain.AgentTask,
	results map[string]domain.TaskResult,
) waveOutcome {
	started := time.Now()

	e.logger.Info("executing task",
		zap.String("plan_id", planID),
		zap.String("task_id", task.ID),
		zap.String("task_type", string(task.Type)))
	e.publish(ctx, ports.EventTaskStarted, planID, task.ID, nil)

	handler, ok := e.registry.Get(task.Type)
	if !ok {
		err := fmt.Errorf("no handler registered for task type %q", task.Type)
		e.metrics.RecordTaskExecuted(string(task.Type), domain.StatusFailed, time.Since(started))
		e.publish(ctx, ports.EventTaskFailed, planID, task.ID, map[string]any{"error": err.Error()})
		return waveOutcome{task: task, err: err}
	}

	input := resolveInputs(task, results, userQuery, e.logger)

	result, err := handler.Execute(ctx, input)
	duration := time.Since(started)

	if err != nil {
		e.metrics.RecordTaskExecuted(string(task.Type), domain.StatusFailed, duration)
		e.publish(ctx, ports.EventTaskFailed, planID, task.ID, map[string]any{"error": err.Error()})
		return waveOutcome{task: task, err: err}
	}

	if result == nil {
		result = domain.TaskResult{"status": domain.StatusCompleted}
	}

	e.metrics.RecordTaskExecuted(string(task.Type), result.Status(), duration)
	e.publish(ctx, ports.EventTaskCompleted, planID, task.ID, map[string]any{"status": result.Status()})
	e.logger.Info("task completed",
		zap.String("plan_id", planID),
		zap.String("task_id", task.ID),
		zap.String("status", result.Status()),
		zap.Duration("duration", duration))

	return waveOutcome{task: task, result: result}
}

// publish emits a lifecycle event; failures are logged, never propagated.
func (e *Engine) publish(ctx context.Context, eventType ports.EventType, planID, taskID string, data map[string]any) {
	if e.bus == nil {
		return
	}

	event := ports.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		PlanID:    planID,
		TaskID:    taskID,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := e.bus.Publish(ctx, planEventsTopic, event); err != nil {
		e.logger.Warn("failed to publish event",
			zap.String("event_type", string(eventType)),
			zap.String("plan_id", planID),
			zap.Error(err))
	}
}

// readyTasks returns the pending tasks whose dependencies are all completed,
// in plan order.
func readyTasks(tasks []domain.AgentTask, completed map[string]bool) []domain.AgentTask {
	var ready []domain.AgentTask
	for _, task := range tasks {
		if completed[task.ID] {
			continue
		}
		ok := true
		for _, dep := range task.Dependencies {
			if !completed[dep] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, task)
		}
	}
	return ready
}
