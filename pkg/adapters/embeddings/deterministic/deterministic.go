package deterministic

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Provider generates embeddings locally by hashing tokens into a fixed-size
// vector. The vectors carry no real semantics beyond token overlap, but they
// are stable across runs and need no credentials, which makes them usable for
// development and tests.
type Provider struct {
	dims int
}

// NewProvider creates a local token-hash embedding provider.
func NewProvider(dims int) *Provider {
	if dims <= 0 {
		dims = 256
	}
	return &Provider{dims: dims}
}

// Model returns the synthetic model name.
func (p *Provider) Model() string { return "deterministic-hash" }

// Dimensions returns the vector dimensionality.
func (p *Provider) Dimensions() int { return p.dims }

// Embed hashes each text's tokens into a normalized vector.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = p.embedText(text)
	}
	return vecs, nil
}

func (p *Provider) embedText(text string) []float32 {
	vec := make([]float32, p.dims)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		sum := h.Sum32()
		vec[int(sum)%p.dims] += 1
		vec[int(sum>>16)%p.dims] += 0.5
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
