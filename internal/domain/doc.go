// Package domain holds the value types shared across the orchestrator:
// schema items and matches, agent tasks and results, plan responses, and the
// static agent capability registry. The package is a leaf with no
// dependencies beyond the standard library.
package domain
