// Package storage provides plan and embedding cache persistence.
//
// Implementations:
//   - redis: Redis with JSON serialization and TTL on plans
//   - file: local JSON file for the embedding cache snapshot
//   - memory: in-memory for testing
package storage
