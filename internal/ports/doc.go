// Package ports defines the narrow contracts between the orchestration core
// and its collaborators: embedding provider, catalog source, planner, task
// handlers, persistence, events, and metrics.
//
// The application packages consume these interfaces; implementations live
// under pkg/adapters.
package ports
