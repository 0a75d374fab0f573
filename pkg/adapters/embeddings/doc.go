// Package embeddings provides embedding provider implementations.
//
// Implementations:
//   - openai: any OpenAI-compatible /embeddings HTTP endpoint
//   - deterministic: local token-hash vectors for development and tests
package embeddings
