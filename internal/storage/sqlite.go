package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"flightdelays/internal/flights"
)

// SQLiteConfig holds the dataset file location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SQLBackend runs queries through database/sql. It serves the SQLite and
// MySQL drivers.
type SQLBackend struct {
	name string
	db   *sql.DB
}

// OpenSQLite opens an existing SQLite dataset file.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLBackend, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: empty dataset path")
	}
	// sql.Open would silently create a missing file.
	if cfg.Path != ":memory:" {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("sqlite dataset: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLBackend{name: DriverSQLite, db: db}, nil
}

// Name returns the driver name.
func (b *SQLBackend) Name() string { return b.name }

// Placeholder returns the positional placeholder for argument n.
func (b *SQLBackend) Placeholder(n int) string { return questionPlaceholder(n) }

// Query runs query on a dedicated connection that is released on return.
func (b *SQLBackend) Query(ctx context.Context, query string, args ...any) ([]flights.Record, error) {
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRows(rows)
}

// Close closes the connection pool.
func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func scanRows(rows *sql.Rows) ([]flights.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var records []flights.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, flights.NewRecord(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return records, nil
}
