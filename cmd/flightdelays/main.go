// Package main provides the flightdelays command.
//
// Usage:
//
//	flightdelays [menu] [options]     interactive console menu (default)
//	flightdelays report [options]     write every chart, map and table at once
//	flightdelays serve [options]      run the read-only HTTP API
//
// Settings come from built-in defaults, an optional YAML file
// (-config or FLIGHTDELAYS_CONFIG), an optional .env file and environment
// variables, in that order. Command flags override all of them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"flightdelays/internal/airports"
	"flightdelays/internal/api"
	"flightdelays/internal/config"
	"flightdelays/internal/console"
	"flightdelays/internal/publish"
	"flightdelays/internal/report"
	"flightdelays/internal/storage"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "flightdelays - commands:")
	fmt.Fprintln(w, "  menu    - interactive flight and delay lookups (default)")
	fmt.Fprintln(w, "  report  - write all delay charts, maps and tables to the output directory")
	fmt.Fprintln(w, "  serve   - run the HTTP API")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  flightdelays menu [-driver sqlite] [-sqlite flights.sqlite3] [-out output]")
	fmt.Fprintln(w, "  flightdelays report [-out output] [-nats-url nats://localhost:4222]")
	fmt.Fprintln(w, "  flightdelays serve [-port 8081] [-auth -api-keys k1,k2]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Common options:")
	fmt.Fprintln(w, "  -config FILE   YAML configuration file (env: FLIGHTDELAYS_CONFIG)")
	fmt.Fprintln(w, "  -env FILE      dotenv file (default: .env)")
	fmt.Fprintln(w, "  -v             debug logging")
	fmt.Fprintln(w, "")
}

func main() {
	cmd := "menu"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = strings.ToLower(args[0])
		args = args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "menu":
		err = runMenu(ctx, args)
	case "report":
		err = runReport(ctx, args)
	case "serve":
		err = runServe(ctx, args)
	case "-h", "--help", "help":
		usage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMenu(ctx context.Context, args []string) error {
	fs, opts, err := newFlagSet("menu", args)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := opts.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	c := console.New(a.gateway, a.airports, a.cfg.Output.Dir, os.Stdin, os.Stdout,
		console.WithLogger(a.logger))
	return c.Run(ctx)
}

func runReport(ctx context.Context, args []string) error {
	fs, opts, err := newFlagSet("report", args)
	if err != nil {
		return err
	}
	natsURL := fs.String("nats-url", opts.cfg.NATS.URL, "Publish the summary to this NATS server")
	natsSubject := fs.String("nats-subject", opts.cfg.NATS.Subject, "NATS subject for the summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := opts.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.gateway.AllFlights(ctx)
	if err != nil {
		return err
	}
	batch := report.NewBatch(records, a.airports)
	a.logger.Info("aggregated flights",
		"flights", len(records),
		"airlines", len(batch.Airlines),
		"routes", len(batch.Routes),
		"mapped", batch.Layers.Len(),
		"unmapped", batch.Layers.Dropped)

	now := time.Now()
	paths, err := batch.WriteArtifacts(a.cfg.Output.Dir, now)
	for _, p := range paths {
		fmt.Println(p)
	}
	if err != nil {
		return err
	}

	if *natsURL == "" {
		return nil
	}
	pub, err := publish.Connect(*natsURL, *natsSubject, a.logger)
	if err != nil {
		return err
	}
	defer pub.Close()
	return pub.PublishSummary(batch.Summary(now))
}

func runServe(ctx context.Context, args []string) error {
	fs, opts, err := newFlagSet("serve", args)
	if err != nil {
		return err
	}
	port := fs.Int("port", opts.cfg.Server.Port, "HTTP port for API server")
	authEnabled := fs.Bool("auth", opts.cfg.Server.AuthEnabled, "Enable API key authentication")
	apiKeys := fs.String("api-keys", strings.Join(opts.cfg.Server.APIKeys, ","), "Comma-separated list of valid API keys (when auth enabled)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := opts.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	server := api.NewServer(a.gateway, a.airports, api.Config{
		Port:        *port,
		AuthEnabled: *authEnabled,
		APIKeys:     config.SplitList(*apiKeys),
	}, api.WithGatherer(a.registry), api.WithLogger(a.logger))
	return server.Run(ctx)
}

// app holds what every command shares: the gateway and the airport snapshot
// taken once at start-up.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	gateway  *storage.Gateway
	airports *airports.Index
}

func (o *options) open(ctx context.Context) (*app, error) {
	cfg := o.resolve()

	level := cfg.Level()
	if *o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening %s dataset: %w", cfg.Database.Driver, err)
	}
	gw := storage.NewGateway(backend,
		storage.WithLogger(logger),
		storage.WithMetrics(storage.NewMetrics(reg)))

	rows, err := gw.Airports(ctx)
	if err != nil {
		logger.Warn("airport coordinates unavailable, maps will be empty", "err", err)
	}
	idx := airports.NewIndex(rows)
	logger.Debug("loaded airports", "count", idx.Len(), "rows", len(rows))

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		gateway:  gw,
		airports: idx,
	}, nil
}

func (a *app) close() {
	if err := a.gateway.Close(); err != nil {
		a.logger.Warn("closing dataset", "err", err)
	}
}
