// Package workers provides a bounded fan-out pool for independent jobs.
//
// The pool is used by the catalog indexer to fetch per-table metadata
// concurrently without overwhelming the source database.
package workers
