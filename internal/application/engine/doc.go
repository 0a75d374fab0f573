// Package engine schedules and executes plan tasks in dependency waves.
//
// Each wave runs every task whose dependencies are completed; tasks within a
// wave run concurrently. Non-critical handler failures degrade to fallback
// results and the plan continues; failures of confirmation or validation
// tasks abort the plan. An iteration with no ready task is a deadlock.
package engine
