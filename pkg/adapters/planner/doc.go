// Package planner provides reasoning-model planner implementations.
//
// The factory creates planners based on provider configuration.
// Currently supports:
//   - Anthropic Claude
//
// With no API key configured the factory returns no planner and the
// orchestrator runs on the built-in default plan.
package planner
