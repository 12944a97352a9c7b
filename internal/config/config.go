// Package config loads flightdelays settings from defaults, an optional YAML
// file, an optional .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"flightdelays/internal/publish"
	"flightdelays/internal/storage"
)

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	AuthEnabled bool     `yaml:"auth_enabled"`
	APIKeys     []string `yaml:"api_keys"`
}

// NATSConfig holds summary publication settings. An empty URL disables
// publication.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// Config is the complete application configuration.
type Config struct {
	Database storage.Config `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
	NATS     NATSConfig     `yaml:"nats"`
	LogLevel string         `yaml:"log_level"`
}

// Default returns the built-in configuration: the local SQLite dataset,
// artifacts in ./output and the API on port 8081.
func Default() Config {
	return Config{
		Database: storage.DefaultConfig(),
		Output:   OutputConfig{Dir: "output"},
		Server:   ServerConfig{Port: 8081},
		NATS:     NATSConfig{Subject: publish.DefaultSubject},
		LogLevel: "info",
	}
}

// Load builds a Config. path names an optional YAML file and envFile an
// optional dotenv file; either may be empty. A missing envFile is ignored but
// a missing YAML file is an error. Process environment variables take
// precedence over values from envFile.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, fs.ErrNotExist):
			return cfg, fmt.Errorf("failed to read env file: %w", err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = i
		}
	}

	db := &cfg.Database
	str("FLIGHTDELAYS_DB_DRIVER", &db.Driver)
	str("FLIGHTDELAYS_SQLITE_PATH", &db.SQLite.Path)

	str("MYSQL_HOST", &db.MySQL.Host)
	num("MYSQL_PORT", &db.MySQL.Port)
	str("MYSQL_DATABASE", &db.MySQL.Database)
	str("MYSQL_USER", &db.MySQL.User)
	str("MYSQL_PASSWORD", &db.MySQL.Password)

	str("POSTGRES_HOST", &db.Postgres.Host)
	num("POSTGRES_PORT", &db.Postgres.Port)
	str("POSTGRES_DATABASE", &db.Postgres.Database)
	str("POSTGRES_USER", &db.Postgres.User)
	str("POSTGRES_PASSWORD", &db.Postgres.Password)

	str("CLICKHOUSE_HOST", &db.ClickHouse.Host)
	num("CLICKHOUSE_PORT", &db.ClickHouse.Port)
	str("CLICKHOUSE_DATABASE", &db.ClickHouse.Database)
	str("CLICKHOUSE_USER", &db.ClickHouse.User)
	str("CLICKHOUSE_PASSWORD", &db.ClickHouse.Password)

	str("FLIGHTDELAYS_OUTPUT_DIR", &cfg.Output.Dir)

	num("FLIGHTDELAYS_PORT", &cfg.Server.Port)
	if v, ok := lookup("FLIGHTDELAYS_AUTH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FLIGHTDELAYS_AUTH: %w", err))
		} else {
			cfg.Server.AuthEnabled = b
		}
	}
	if v, ok := lookup("FLIGHTDELAYS_API_KEYS"); ok {
		cfg.Server.APIKeys = SplitList(v)
	}

	str("FLIGHTDELAYS_NATS_URL", &cfg.NATS.URL)
	str("FLIGHTDELAYS_NATS_SUBJECT", &cfg.NATS.Subject)
	str("FLIGHTDELAYS_LOG_LEVEL", &cfg.LogLevel)

	return errors.Join(errs...)
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
