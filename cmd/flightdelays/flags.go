package main

import (
	"flag"
	"os"
	"strings"

	"flightdelays/internal/config"
)

// options are the flags shared by every command. Their defaults come from the
// loaded configuration.
type options struct {
	cfg        config.Config
	configPath *string
	envFile    *string
	driver     *string
	sqlitePath *string
	outDir     *string
	verbose    *bool
}

func newFlagSet(name string, args []string) (*flag.FlagSet, *options, error) {
	path := envOrDefault("FLIGHTDELAYS_CONFIG", "")
	if p, ok := flagValue(args, "config"); ok {
		path = p
	}
	envFile := ".env"
	if p, ok := flagValue(args, "env"); ok {
		envFile = p
	}

	cfg, err := config.Load(path, envFile)
	if err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	o := &options{cfg: cfg}
	o.configPath = fs.String("config", path, "YAML configuration file")
	o.envFile = fs.String("env", envFile, "dotenv file")
	o.driver = fs.String("driver", cfg.Database.Driver, "Dataset driver: sqlite, mysql, postgres or clickhouse")
	o.sqlitePath = fs.String("sqlite", cfg.Database.SQLite.Path, "SQLite dataset file")
	o.outDir = fs.String("out", cfg.Output.Dir, "Directory for charts, maps and tables")
	o.verbose = fs.Bool("v", false, "Debug logging")
	return fs, o, nil
}

// resolve applies the parsed flags to the loaded configuration.
func (o *options) resolve() config.Config {
	cfg := o.cfg
	cfg.Database.Driver = *o.driver
	cfg.Database.SQLite.Path = *o.sqlitePath
	cfg.Output.Dir = *o.outDir
	return cfg
}

// flagValue finds "-name value" or "-name=value" in args ahead of parsing, so
// the configuration can supply defaults for the remaining flags.
func flagValue(args []string, name string) (string, bool) {
	for i, a := range args {
		if a == "--" {
			break
		}
		key := strings.TrimLeft(a, "-")
		if key == a {
			continue
		}
		if k, v, ok := strings.Cut(key, "="); ok && k == name {
			return v, true
		}
		if key == name && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
