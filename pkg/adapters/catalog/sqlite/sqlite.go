package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/datanaut/naqo/internal/domain"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
)

// Catalog exposes a SQLite database as catalog source and query runner.
type Catalog struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens the SQLite database at dsn.
func Open(dsn string, logger *zap.Logger) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Catalog{db: db, logger: logger}, nil
}

// NewCatalog wraps an existing database handle.
func NewCatalog(db *sql.DB, logger *zap.Logger) *Catalog {
	return &Catalog{db: db, logger: logger}
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// ListTables returns the user tables in name order.
func (c *Catalog) ListTables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DescribeColumns returns the columns of one table in declaration order.
func (c *Catalog) DescribeColumns(ctx context.Context, table string) ([]domain.Column, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []domain.Column
	for rows.Next() {
		var (
			cid        int
			name       string
			dataType   string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, domain.Column{Name: name, DataType: dataType})
	}
	if len(columns) == 0 && rows.Err() == nil {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, rows.Err()
}

// Query executes the statement and returns at most maxRows rows.
func (c *Catalog) Query(ctx context.Context, query string, maxRows int) (*domain.ResultSet, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := &domain.ResultSet{Columns: columns}
	for rows.Next() {
		if maxRows > 0 && len(rs.Rows) >= maxRows {
			c.logger.Warn("result truncated",
				zap.String("query", query),
				zap.Int("max_rows", maxRows))
			break
		}

		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	return rs, rows.Err()
}
