// Package catalog provides database catalog and query runner implementations.
//
// Implementations:
//   - sqlite: schema metadata via sqlite_master and PRAGMA table_info, plus
//     bounded query execution
package catalog
