package domain

import (
	"time"
)

// SchemaItemKind distinguishes table items from column items.
type SchemaItemKind string

const (
	KindTable  SchemaItemKind = "table"
	KindColumn SchemaItemKind = "column"
)

// SchemaItem is one catalog entry: a table or a column, together with the
// generated descriptive text its embedding is computed from. Items are
// created on catalog refresh and immutable afterwards; a full rebuild
// replaces the whole set.
type SchemaItem struct {
	Name        string         `json:"name"`
	Kind        SchemaItemKind `json:"kind"`
	TableName   string         `json:"table_name,omitempty"` // columns only
	DataType    string         `json:"data_type,omitempty"`  // columns only
	Description string         `json:"description"`
	Embedding   []float32      `json:"embedding,omitempty"`
}

// Key returns the cache key for the item: the table name, or "table.column".
func (s SchemaItem) Key() string {
	if s.Kind == KindColumn {
		return s.TableName + "." + s.Name
	}
	return s.Name
}

// Column is one catalog column with its declared type.
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
}

// TableMatch is one similarity hit against a table vector.
type TableMatch struct {
	TableName  string  `json:"table_name"`
	Similarity float64 `json:"similarity_score"`
	Confidence float64 `json:"confidence"`
	MatchType  string  `json:"match_type"`
}

// ColumnMatch is one similarity hit against a column vector.
type ColumnMatch struct {
	TableName  string  `json:"table_name"`
	ColumnName string  `json:"column_name"`
	Similarity float64 `json:"similarity_score"`
	Confidence float64 `json:"confidence"`
}

// HybridResult combines table and column matches for one query: top tables,
// a broader column list, and the best per-table columns for the top tables.
type HybridResult struct {
	Query        string                   `json:"query"`
	Tables       []TableMatch             `json:"similar_tables"`
	Columns      []ColumnMatch            `json:"relevant_columns"`
	TableColumns map[string][]ColumnMatch `json:"table_specific_columns"`
	Method       string                   `json:"search_method"`
}

// CacheSnapshot is the persisted form of the embedding cache: the vectors by
// key plus provenance. A snapshot is only usable while fresh.
type CacheSnapshot struct {
	CreatedAt  time.Time            `json:"created_at"`
	Model      string               `json:"model"`
	Dimensions int                  `json:"dimensions"`
	Tables     map[string][]float32 `json:"table_embeddings"`
	Columns    map[string][]float32 `json:"column_embeddings"`
	Items      []SchemaItem         `json:"schema_items"`
}

// Fresh reports whether the snapshot is younger than maxAge.
func (s *CacheSnapshot) Fresh(maxAge time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) <= maxAge
}

// Empty reports whether the snapshot holds no table vectors.
func (s *CacheSnapshot) Empty() bool {
	return len(s.Tables) == 0
}

// VectorStatus describes the current state of the similarity subsystem.
type VectorStatus struct {
	Initialized bool      `json:"initialized"`
	Degraded    bool      `json:"degraded"`
	Model       string    `json:"embedding_model"`
	TableCount  int       `json:"table_count"`
	ColumnCount int       `json:"column_count"`
	TotalItems  int       `json:"total_schema_items"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// ResultSet holds rows returned by the query runner.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
