package vector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/datanaut/naqo/internal/application/workers"
	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"
)

// importantPatterns mark tables that are embedded first when a large schema
// has to be truncated and no explicit priority list is configured.
var importantPatterns = []string{"main", "core", "primary", "fact", "dim", "lookup", "ref", "analytics"}

// largeSchemaTables is the table count above which priority ordering kicks in.
const largeSchemaTables = 50

// fanOutTables is the table count above which column fetches run on the
// worker pool instead of sequentially.
const fanOutTables = 20

// BuildOrLoad populates the index: from a fresh cache snapshot when one
// exists and rebuild is not forced, otherwise from the live catalog. The new
// index generation is installed atomically on completion; concurrent readers
// keep seeing the previous generation until then.
func (m *Matcher) BuildOrLoad(ctx context.Context, forceRebuild bool) error {
	started := time.Now()

	if !forceRebuild && m.loadCached(ctx) {
		m.metrics.RecordCacheBuild("loaded", m.IndexedCount(), time.Since(started))
		return nil
	}

	idx, err := m.buildFromCatalog(ctx)
	if err != nil {
		m.metrics.RecordCacheBuild("failed", 0, time.Since(started))
		return err
	}

	m.install(idx)
	m.persist(ctx, idx)
	m.metrics.RecordCacheBuild("built", len(idx.tables)+len(idx.columns), time.Since(started))

	m.logger.Info("vector index built",
		zap.Int("tables", len(idx.tables)),
		zap.Int("columns", len(idx.columns)),
		zap.Bool("degraded", idx.degraded),
		zap.Duration("duration", time.Since(started)))
	return nil
}

// Rebuild clears and repopulates the index from the catalog.
func (m *Matcher) Rebuild(ctx context.Context) error {
	return m.BuildOrLoad(ctx, true)
}

// loadCached tries to install the persisted snapshot. Stale, empty, or
// corrupt snapshots are treated as misses.
func (m *Matcher) loadCached(ctx context.Context) bool {
	snap, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Debug("no usable cache snapshot", zap.Error(err))
		return false
	}

	if !snap.Fresh(m.opts.CacheMaxAge, time.Now()) {
		m.logger.Info("cache snapshot is stale, rebuilding",
			zap.Time("created_at", snap.CreatedAt))
		return false
	}
	if snap.Empty() {
		return false
	}
	if !uniformDimensions(snap) {
		m.logger.Warn("cache snapshot has mixed dimensionality, rebuilding")
		return false
	}

	m.install(&index{
		items:     snap.Items,
		tables:    snap.Tables,
		columns:   snap.Columns,
		model:     snap.Model,
		dims:      snap.Dimensions,
		createdAt: snap.CreatedAt,
	})

	m.logger.Info("loaded cached embeddings",
		zap.Int("tables", len(snap.Tables)),
		zap.Int("columns", len(snap.Columns)),
		zap.Time("created_at", snap.CreatedAt))
	return true
}

// buildFromCatalog pulls the full catalog, generates descriptions, embeds
// them in batches, and assembles a new index generation.
func (m *Matcher) buildFromCatalog(ctx context.Context) (*index, error) {
	allTables, err := m.catalog.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	if len(allTables) == 0 {
		m.logger.Warn("catalog has no tables")
		return &index{
			tables:    map[string][]float32{},
			columns:   map[string][]float32{},
			model:     m.provider.Model(),
			dims:      m.provider.Dimensions(),
			createdAt: time.Now(),
		}, nil
	}

	tables := m.prioritizeTables(allTables)
	if m.opts.MaxTables > 0 && len(tables) > m.opts.MaxTables {
		tables = tables[:m.opts.MaxTables]
		m.logger.Info("truncated catalog for indexing",
			zap.Int("kept", len(tables)),
			zap.Int("total", len(allTables)))
	}

	items := m.collectSchemaItems(ctx, tables)

	embeddings, degraded := m.embedDescriptions(ctx, items)

	idx := &index{
		items:     items,
		tables:    make(map[string][]float32, len(tables)),
		columns:   make(map[string][]float32),
		model:     m.provider.Model(),
		dims:      m.provider.Dimensions(),
		createdAt: time.Now(),
		degraded:  degraded,
	}

	for i := range items {
		items[i].Embedding = embeddings[i]
		if items[i].Kind == domain.KindTable {
			idx.tables[items[i].Name] = embeddings[i]
		} else {
			idx.columns[items[i].Key()] = embeddings[i]
		}
	}

	return idx, nil
}

// prioritizeTables orders the catalog so that prioritized tables come first.
// Explicit ImportantTables win; otherwise, for large schemas, name-pattern
// heuristics decide.
func (m *Matcher) prioritizeTables(all []string) []string {
	if len(m.opts.ImportantTables) > 0 {
		known := make(map[string]bool, len(all))
		for _, t := range all {
			known[t] = true
		}

		var priority, rest []string
		important := make(map[string]bool, len(m.opts.ImportantTables))
		for _, t := range m.opts.ImportantTables {
			if known[t] {
				priority = append(priority, t)
				important[t] = true
			}
		}
		for _, t := range all {
			if !important[t] {
				rest = append(rest, t)
			}
		}
		return append(priority, rest...)
	}

	if len(all) <= largeSchemaTables {
		return all
	}

	var priority, rest []string
	for _, t := range all {
		lowered := strings.ToLower(t)
		matched := false
		for _, p := range importantPatterns {
			if strings.Contains(lowered, p) {
				matched = true
				break
			}
		}
		if matched {
			priority = append(priority, t)
		} else {
			rest = append(rest, t)
		}
	}
	return append(priority, rest...)
}

// collectSchemaItems builds the schema items for the given tables. Column
// fetches are independent, side-effect-free metadata reads, so large schemas
// fan out across a small fixed worker pool. A per-table failure keeps the
// table item and drops its columns.
func (m *Matcher) collectSchemaItems(ctx context.Context, tables []string) []domain.SchemaItem {
	perTable := make(map[string][]domain.SchemaItem, len(tables))

	if len(tables) > fanOutTables {
		pool := workers.NewPool(m.opts.Workers, m.logger)
		var mu sync.Mutex

		pool.Run(ctx, tables, func(ctx context.Context, table string) {
			items := m.processTable(ctx, table)
			mu.Lock()
			perTable[table] = items
			mu.Unlock()
		})
	} else {
		for _, table := range tables {
			perTable[table] = m.processTable(ctx, table)
		}
	}

	// Merge in catalog order so builds are deterministic.
	var items []domain.SchemaItem
	for _, table := range tables {
		items = append(items, perTable[table]...)
	}
	return items
}

// processTable builds the table item and its column items. Column fetch
// failure is non-fatal: the table item survives on its own.
func (m *Matcher) processTable(ctx context.Context, table string) []domain.SchemaItem {
	tableItem := domain.SchemaItem{
		Name: table,
		Kind: domain.KindTable,
	}
	tableItem.Description = GenerateDescription(tableItem)
	items := []domain.SchemaItem{tableItem}

	columns, err := m.catalog.DescribeColumns(ctx, table)
	if err != nil {
		m.logger.Warn("failed to describe columns, keeping table item only",
			zap.String("table", table),
			zap.Error(err))
		return items
	}

	for _, col := range columns {
		colItem := domain.SchemaItem{
			Name:      col.Name,
			Kind:      domain.KindColumn,
			TableName: table,
			DataType:  col.DataType,
		}
		colItem.Description = GenerateDescription(colItem)
		items = append(items, colItem)
	}
	return items
}

// embedDescriptions embeds every item description in volume-sized batches.
// A failed batch degrades to zero vectors for that batch only.
func (m *Matcher) embedDescriptions(ctx context.Context, items []domain.SchemaItem) ([][]float32, bool) {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Description
	}
	texts = sanitizeTexts(texts)

	batchSize := batchSizeFor(len(texts))
	totalBatches := 0
	if len(texts) > 0 {
		totalBatches = (len(texts)-1)/batchSize + 1
	}

	m.logger.Info("embedding schema descriptions",
		zap.Int("items", len(texts)),
		zap.Int("batches", totalBatches),
		zap.Int("batch_size", batchSize))

	embeddings := make([][]float32, 0, len(texts))
	degraded := false

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		vecs, err := m.provider.Embed(ctx, batch)
		if err != nil || len(vecs) != len(batch) {
			if err != nil {
				m.logger.Warn("embedding batch failed, degrading to zero vectors",
					zap.Int("batch_start", start),
					zap.Int("batch_size", len(batch)),
					zap.Error(err))
			}
			m.metrics.RecordEmbeddingBatch("failed", len(batch))
			for range batch {
				embeddings = append(embeddings, make([]float32, m.provider.Dimensions()))
			}
			degraded = true
			continue
		}

		m.metrics.RecordEmbeddingBatch("ok", len(batch))
		embeddings = append(embeddings, vecs...)
	}

	return embeddings, degraded
}

// batchSizeFor balances request latency against provider limits: small
// batches for small corpora, larger ones for thousands of items.
func batchSizeFor(total int) int {
	switch {
	case total < 100:
		return 20
	case total < 500:
		return 30
	case total < 1000:
		return 40
	case total < 3000:
		return 50
	default:
		return 75
	}
}

// persist writes the built index through the cache store. Persistence
// failure is non-fatal: the in-memory index keeps serving.
func (m *Matcher) persist(ctx context.Context, idx *index) {
	snap := &domain.CacheSnapshot{
		CreatedAt:  idx.createdAt,
		Model:      idx.model,
		Dimensions: idx.dims,
		Tables:     idx.tables,
		Columns:    idx.columns,
		Items:      idx.items,
	}

	if err := m.store.Save(ctx, snap); err != nil {
		m.logger.Warn("failed to persist embedding cache", zap.Error(err))
	}
}

// uniformDimensions verifies every vector in the snapshot has the declared
// dimensionality.
func uniformDimensions(snap *domain.CacheSnapshot) bool {
	dims := snap.Dimensions
	if dims == 0 {
		for _, v := range snap.Tables {
			dims = len(v)
			break
		}
	}
	for _, v := range snap.Tables {
		if len(v) != dims {
			return false
		}
	}
	for _, v := range snap.Columns {
		if len(v) != dims {
			return false
		}
	}
	return true
}
