package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"flightdelays/internal/flights"
)

// Operation names used in logs, errors and metric labels.
const (
	OpExecute          = "execute"
	OpFlightByID       = "flight_by_id"
	OpFlightsByDate    = "flights_by_date"
	OpDelayedByAirline = "delayed_by_airline"
	OpDelayedByAirport = "delayed_by_airport"
	OpAllFlights       = "all_flights"
	OpAirports         = "airports"
)

// QueryError reports a contained data-access failure.
type QueryError struct {
	Op      string
	Backend string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query on %s: %v", e.Op, e.Backend, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Gateway runs parameterized read queries against the flight dataset.
//
// Failures never escape as panics or nil slices: every operation returns a
// non-nil (possibly empty) record slice, and on failure also a *QueryError.
// Callers that only care about rows can ignore the error, which makes "no
// matching rows" and "backend failure" look the same. Callers that need to
// tell them apart check the error.
type Gateway struct {
	backend Backend
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for contained failures.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMetrics enables query metrics.
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway creates a gateway over the given backend.
func NewGateway(b Backend, opts ...Option) *Gateway {
	g := &Gateway{
		backend: b,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Backend returns the underlying backend.
func (g *Gateway) Backend() Backend {
	return g.backend
}

// Close closes the underlying backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}

// Execute binds params into queryTemplate and runs it.
func (g *Gateway) Execute(ctx context.Context, queryTemplate string, params Params) ([]flights.Record, error) {
	return g.execute(ctx, OpExecute, queryTemplate, params)
}

// FlightByID returns the flight with the given ID (zero or one record).
func (g *Gateway) FlightByID(ctx context.Context, id int64) ([]flights.Record, error) {
	return g.execute(ctx, OpFlightByID, QueryFlightByID, Params{"id": id})
}

// FlightsByDate returns all flights on the given day.
func (g *Gateway) FlightsByDate(ctx context.Context, day, month, year int) ([]flights.Record, error) {
	return g.execute(ctx, OpFlightsByDate, QueryFlightsByDate, Params{
		"day":   day,
		"month": month,
		"year":  year,
	})
}

// DelayedFlightsByAirline returns delayed departures for an airline display name.
func (g *Gateway) DelayedFlightsByAirline(ctx context.Context, airline string) ([]flights.Record, error) {
	return g.execute(ctx, OpDelayedByAirline, QueryDelayedFlightsByAirline, Params{"airline": airline})
}

// DelayedFlightsByAirport returns delayed departures from an origin airport.
func (g *Gateway) DelayedFlightsByAirport(ctx context.Context, iataCode string) ([]flights.Record, error) {
	return g.execute(ctx, OpDelayedByAirport, QueryDelayedFlightsByAirport, Params{"airport": iataCode})
}

// AllFlights returns every flight joined with its carrier name.
func (g *Gateway) AllFlights(ctx context.Context) ([]flights.Record, error) {
	return g.execute(ctx, OpAllFlights, QueryAllFlights, nil)
}

// Airports returns the IATA code and coordinates of every airport.
func (g *Gateway) Airports(ctx context.Context) ([]flights.Record, error) {
	return g.execute(ctx, OpAirports, QueryAirports, nil)
}

func (g *Gateway) execute(ctx context.Context, op, queryTemplate string, params Params) ([]flights.Record, error) {
	start := time.Now()
	records, err := g.run(ctx, queryTemplate, params)
	elapsed := time.Since(start)
	g.metrics.observe(op, elapsed, err)

	if err != nil {
		g.logger.Error("query failed", "op", op, "backend", g.backend.Name(), "err", err)
		return []flights.Record{}, &QueryError{Op: op, Backend: g.backend.Name(), Err: err}
	}

	g.logger.Debug("query complete", "op", op, "rows", len(records), "elapsed", elapsed)
	if records == nil {
		records = []flights.Record{}
	}
	return records, nil
}

func (g *Gateway) run(ctx context.Context, queryTemplate string, params Params) ([]flights.Record, error) {
	query, args, err := Bind(queryTemplate, params, g.backend.Placeholder)
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}
	return g.backend.Query(ctx, query, args...)
}
