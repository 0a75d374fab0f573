package engine

import (
	"sync"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
)

// Registry maps task types to their handlers. New task kinds are supported
// by registering an implementation, not by growing a conditional.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.TaskType]ports.TaskHandler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[domain.TaskType]ports.TaskHandler),
	}
}

// Register binds a handler to a task type, replacing any previous binding.
func (r *Registry) Register(taskType domain.TaskType, handler ports.TaskHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[taskType] = handler
}

// Get returns the handler for a task type.
func (r *Registry) Get(taskType domain.TaskType) (ports.TaskHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[taskType]
	return h, ok
}

// Types returns the registered task types.
func (r *Registry) Types() []domain.TaskType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.TaskType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}
