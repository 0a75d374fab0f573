// Package vector maintains the embedding cache and similarity index over
// schema elements.
//
// The matcher builds its index from the catalog source (or a fresh persisted
// snapshot), embedding generated item descriptions in batches through the
// embedding provider. Queries compute cosine similarity against the cached
// vectors and annotate matches with a confidence equal to the clamped
// similarity. Rebuilds install a new index generation atomically; readers
// never observe a partially built index.
//
// Provider failure is never fatal here: failed batches and failed query
// embeddings degrade to zero vectors, which simply match nothing strongly.
package vector
