package storage

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"flightdelays/internal/flights"
)

// ClickHouseConfig holds ClickHouse connection settings. ClickHouse
// identifiers are case sensitive, so the dataset tables must use the upper
// case column names of the flights dataset.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// ClickHouseBackend runs dataset queries on ClickHouse.
type ClickHouseBackend struct {
	conn driver.Conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseBackend, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 300,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseBackend{conn: conn}, nil
}

// Name returns the driver name.
func (d *ClickHouseBackend) Name() string { return DriverClickHouse }

// Placeholder returns the positional placeholder for argument n.
func (d *ClickHouseBackend) Placeholder(n int) string { return questionPlaceholder(n) }

// Query runs query and decodes each row through the driver's scan types.
func (d *ClickHouseBackend) Query(ctx context.Context, query string, args ...any) ([]flights.Record, error) {
	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols := rows.Columns()
	types := rows.ColumnTypes()

	var records []flights.Record
	for rows.Next() {
		dest := make([]any, len(types))
		for i, ct := range types {
			dest[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		vals := make([]any, len(dest))
		for i, p := range dest {
			vals[i] = deref(reflect.ValueOf(p).Elem())
		}
		records = append(records, flights.NewRecord(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return records, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseBackend) Close() error {
	return d.conn.Close()
}

// deref unwraps Nullable scan targets.
func deref(v reflect.Value) any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
