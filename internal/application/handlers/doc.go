// Package handlers implements the per-task-type execution steps of the query
// pipeline: schema discovery, semantic analysis, similarity matching, user
// verification, query generation, execution, and visualization.
//
// Handlers read their upstream results from the resolved input map and always
// answer with a structured result carrying a status. Recoverable problems
// become failed results, not errors; an error return is reserved for cases
// where the step produced nothing usable at all.
package handlers
