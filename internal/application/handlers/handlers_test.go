package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/datanaut/naqo/internal/application/vector"
	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEmbedder embeds texts mentioning "sales" onto one axis and everything
// else onto the other, which makes ranking assertions exact.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.Contains(strings.ToLower(text), "sales") {
			vecs[i] = []float32{1, 0}
		} else {
			vecs[i] = []float32{0, 1}
		}
	}
	return vecs, nil
}

func (fakeEmbedder) Dimensions() int { return 2 }
func (fakeEmbedder) Model() string   { return "fake-model" }

// missStore is a cache store with no snapshot.
type missStore struct{}

func (missStore) Load(ctx context.Context) (*domain.CacheSnapshot, error) {
	return nil, ports.ErrCacheMiss
}
func (missStore) Save(ctx context.Context, snap *domain.CacheSnapshot) error { return nil }

// tableCatalog serves a fixed catalog.
type tableCatalog struct {
	tables  []string
	columns map[string][]domain.Column
	err     error
}

func (c *tableCatalog) ListTables(ctx context.Context) ([]string, error) {
	return c.tables, c.err
}

func (c *tableCatalog) DescribeColumns(ctx context.Context, table string) ([]domain.Column, error) {
	return c.columns[table], nil
}

// builtMatcher returns a matcher whose index is populated from the catalog.
func builtMatcher(t *testing.T, catalog ports.CatalogSource) *vector.Matcher {
	t.Helper()
	m := vector.NewMatcher(fakeEmbedder{}, missStore{}, catalog, ports.NopMetrics{}, zap.NewNop(), vector.Options{})
	require.NoError(t, m.BuildOrLoad(context.Background(), false))
	return m
}

// emptyMatcher returns a matcher with nothing indexed.
func emptyMatcher() *vector.Matcher {
	return vector.NewMatcher(fakeEmbedder{}, missStore{}, &tableCatalog{}, ports.NopMetrics{}, zap.NewNop(), vector.Options{})
}
