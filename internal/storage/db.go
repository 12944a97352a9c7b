// Package storage provides read access to the flight delay dataset.
package storage

import (
	"context"
	"errors"
	"fmt"

	"flightdelays/internal/flights"
)

// Supported dataset drivers.
const (
	DriverSQLite     = "sqlite"
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
	DriverClickHouse = "clickhouse"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown dataset driver")

// Backend executes positional queries on one dataset store. Each Query call
// acquires its own connection scope and releases it before returning.
type Backend interface {
	Name() string
	Placeholder(n int) string
	Query(ctx context.Context, query string, args ...any) ([]flights.Record, error)
	Close() error
}

// Config selects and configures the dataset backend.
type Config struct {
	Driver     string           `yaml:"driver"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	MySQL      MySQLConfig      `yaml:"mysql"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// DefaultConfig returns a configuration for the local SQLite dataset.
func DefaultConfig() Config {
	return Config{
		Driver: DriverSQLite,
		SQLite: SQLiteConfig{
			Path: "flights.sqlite3",
		},
		MySQL: MySQLConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "flights",
			User:     "flights",
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "flights",
			User:     "flights",
		},
		ClickHouse: ClickHouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "flights",
			User:     "default",
		},
	}
}

// Open opens the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return asBackend(OpenSQLite(ctx, cfg.SQLite))
	case DriverMySQL:
		return asBackend(OpenMySQL(ctx, cfg.MySQL))
	case DriverPostgres:
		return asBackend(OpenPostgres(ctx, cfg.Postgres))
	case DriverClickHouse:
		return asBackend(OpenClickHouse(ctx, cfg.ClickHouse))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// asBackend keeps a failed open from yielding a typed nil Backend.
func asBackend[B Backend](b B, err error) (Backend, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}
