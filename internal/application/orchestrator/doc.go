// Package orchestrator implements the query processing facade.
//
// ProcessQuery coordinates the full pipeline by:
//   - Planning the task graph via the reasoning planner, with a fixed
//     seven-step default plan as fallback
//   - Validating plan structure and dependencies
//   - Executing the plan through the wave engine
//   - Publishing lifecycle events and persisting the finished response
//
// The validator ensures plans are well-formed with no cycles and valid
// dependencies.
package orchestrator
