package vector

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"go.uber.org/zap"
)

// Matcher maintains the embedding cache and serves similarity queries over
// it. The index is written only by BuildOrLoad/Rebuild; queries read a
// pointer snapshot, so a rebuild is atomic from a reader's perspective.
type Matcher struct {
	provider ports.EmbeddingProvider
	store    ports.CacheStore
	catalog  ports.CatalogSource
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	opts Options

	mu  sync.RWMutex
	idx *index
}

// Options configures index construction.
type Options struct {
	// CacheMaxAge bounds snapshot freshness; older snapshots are misses.
	CacheMaxAge time.Duration
	// MaxTables truncates the catalog after priority ordering; 0 keeps all.
	MaxTables int
	// ImportantTables are embedded first and survive truncation.
	ImportantTables []string
	// Workers bounds the per-table column fan-out.
	Workers int
}

// index is one immutable generation of the similarity index.
type index struct {
	items     []domain.SchemaItem
	tables    map[string][]float32
	columns   map[string][]float32
	model     string
	dims      int
	createdAt time.Time
	degraded  bool
}

// NewMatcher creates a matcher. The index starts empty; call BuildOrLoad to
// populate it.
func NewMatcher(
	provider ports.EmbeddingProvider,
	store ports.CacheStore,
	catalog ports.CatalogSource,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	opts Options,
) *Matcher {
	if opts.CacheMaxAge <= 0 {
		opts.CacheMaxAge = 24 * time.Hour
	}
	if opts.Workers <= 0 {
		opts.Workers = 3
	}

	return &Matcher{
		provider: provider,
		store:    store,
		catalog:  catalog,
		metrics:  metrics,
		logger:   logger,
		opts:     opts,
		idx:      &index{tables: map[string][]float32{}, columns: map[string][]float32{}},
	}
}

// current returns the live index generation.
func (m *Matcher) current() *index {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idx
}

// install swaps in a freshly built index generation.
func (m *Matcher) install(idx *index) {
	m.mu.Lock()
	m.idx = idx
	m.mu.Unlock()
}

// IndexedCount returns the number of vectors currently indexed.
func (m *Matcher) IndexedCount() int {
	idx := m.current()
	return len(idx.tables) + len(idx.columns)
}

// Status reports the current state of the similarity subsystem.
func (m *Matcher) Status() domain.VectorStatus {
	idx := m.current()
	return domain.VectorStatus{
		Initialized: len(idx.tables) > 0,
		Degraded:    idx.degraded,
		Model:       idx.model,
		TableCount:  len(idx.tables),
		ColumnCount: len(idx.columns),
		TotalItems:  len(idx.items),
		CreatedAt:   idx.createdAt,
	}
}

// TableColumns returns the indexed column items of one table.
func (m *Matcher) TableColumns(table string) []domain.SchemaItem {
	idx := m.current()
	var cols []domain.SchemaItem
	for _, item := range idx.items {
		if item.Kind == domain.KindColumn && item.TableName == table {
			cols = append(cols, item)
		}
	}
	return cols
}

// FindSimilarTables returns the tables most similar to the query text, best
// first, keeping only entries at or above threshold and at most topK.
func (m *Matcher) FindSimilarTables(ctx context.Context, query string, topK int, threshold float64) ([]domain.TableMatch, error) {
	started := time.Now()
	defer func() { m.metrics.RecordSimilarityQuery("tables", time.Since(started)) }()

	idx := m.current()
	if len(idx.tables) == 0 {
		return nil, nil
	}

	queryVec, err := m.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.TableMatch, 0, len(idx.tables))
	for name, vec := range idx.tables {
		sim := cosineSimilarity(queryVec, vec)
		if sim < threshold {
			continue
		}
		matches = append(matches, domain.TableMatch{
			TableName:  name,
			Similarity: sim,
			Confidence: similarityToConfidence(sim),
			MatchType:  "vector_semantic",
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].TableName < matches[j].TableName
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// FindRelevantColumns returns the columns most similar to the query text.
// When table is non-empty the candidates are restricted to that table.
func (m *Matcher) FindRelevantColumns(ctx context.Context, query, table string, topK int) ([]domain.ColumnMatch, error) {
	started := time.Now()
	defer func() { m.metrics.RecordSimilarityQuery("columns", time.Since(started)) }()

	idx := m.current()
	if len(idx.columns) == 0 {
		return nil, nil
	}

	queryVec, err := m.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	prefix := ""
	if table != "" {
		prefix = table + "."
	}

	matches := make([]domain.ColumnMatch, 0, len(idx.columns))
	for key, vec := range idx.columns {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		tableName, columnName, ok := strings.Cut(key, ".")
		if !ok {
			continue
		}
		sim := cosineSimilarity(queryVec, vec)
		matches = append(matches, domain.ColumnMatch{
			TableName:  tableName,
			ColumnName: columnName,
			Similarity: sim,
			Confidence: similarityToConfidence(sim),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		if matches[i].TableName != matches[j].TableName {
			return matches[i].TableName < matches[j].TableName
		}
		return matches[i].ColumnName < matches[j].ColumnName
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// defaultTableThreshold filters weak table matches out of hybrid searches.
const defaultTableThreshold = 0.3

// HybridSearch combines table and column matching: the top tables, a broader
// column list, and the best per-table columns for the top 3 tables.
func (m *Matcher) HybridSearch(ctx context.Context, query string, topK int) (*domain.HybridResult, error) {
	tables, err := m.FindSimilarTables(ctx, query, topK, defaultTableThreshold)
	if err != nil {
		return nil, err
	}

	columns, err := m.FindRelevantColumns(ctx, query, "", topK*2)
	if err != nil {
		return nil, err
	}

	tableColumns := make(map[string][]domain.ColumnMatch)
	for i, table := range tables {
		if i >= 3 {
			break
		}
		cols, err := m.FindRelevantColumns(ctx, query, table.TableName, 5)
		if err != nil {
			return nil, err
		}
		tableColumns[table.TableName] = cols
	}

	return &domain.HybridResult{
		Query:        query,
		Tables:       tables,
		Columns:      columns,
		TableColumns: tableColumns,
		Method:       "vector_embeddings",
	}, nil
}

// embedQuery embeds one query text through the provider. Provider failure
// degrades to a zero vector: the query still executes, it just matches
// nothing strongly. Semantic matching is an enhancement, not a correctness
// requirement.
func (m *Matcher) embedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := m.provider.Embed(ctx, sanitizeTexts([]string{query}))
	if err != nil || len(vecs) == 0 {
		if err != nil {
			m.logger.Warn("query embedding failed, using zero vector", zap.Error(err))
		}
		return make([]float32, m.provider.Dimensions()), nil
	}
	return vecs[0], nil
}

// sanitizeTexts trims inputs and replaces empty entries with a placeholder,
// per the provider contract.
func sanitizeTexts(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			t = "empty text"
		}
		out[i] = t
	}
	return out
}
