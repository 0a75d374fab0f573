// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Query submission and plan retrieval
//   - Similarity index status and reindexing
//   - Health checks
//   - Prometheus metrics
package http
