package orchestrator

import (
	"fmt"

	"github.com/datanaut/naqo/internal/domain"
)

// Validator validates execution plans before they reach the engine.
type Validator struct{}

// NewValidator creates a new plan validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that a plan is executable: at least one task, unique IDs,
// known task types, dependencies that reference tasks within the plan, and no
// dependency cycle.
func (v *Validator) Validate(tasks []domain.AgentTask) error {
	if len(tasks) == 0 {
		return fmt.Errorf("plan must have at least one task")
	}

	ids := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		if task.ID == "" {
			return fmt.Errorf("task ID is required")
		}
		if ids[task.ID] {
			return fmt.Errorf("duplicate task ID: %s", task.ID)
		}
		ids[task.ID] = true

		if !task.Type.Valid() {
			return fmt.Errorf("task %s has unknown type %q", task.ID, task.Type)
		}
	}

	for _, task := range tasks {
		for _, dep := range task.Dependencies {
			if !ids[dep] {
				return fmt.Errorf("task %s depends on unknown task %s", task.ID, dep)
			}
			if dep == task.ID {
				return fmt.Errorf("task %s depends on itself", task.ID)
			}
		}
	}

	if err := v.checkAcyclic(tasks); err != nil {
		return err
	}

	return nil
}

// checkAcyclic runs Kahn's algorithm: if topological elimination cannot
// consume every task, the remainder forms a cycle.
func (v *Validator) checkAcyclic(tasks []domain.AgentTask) error {
	indegree := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))

	for _, task := range tasks {
		indegree[task.ID] = len(task.Dependencies)
		for _, dep := range task.Dependencies {
			dependents[dep] = append(dependents[dep], task.ID)
		}
	}

	var queue []string
	for _, task := range tasks {
		if indegree[task.ID] == 0 {
			queue = append(queue, task.ID)
		}
	}

	seen := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		seen++

		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if seen != len(tasks) {
		return fmt.Errorf("plan contains a dependency cycle")
	}
	return nil
}
