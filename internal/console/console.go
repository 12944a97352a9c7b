// Package console implements the interactive flight-delay menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"flightdelays/internal/airports"
	"flightdelays/internal/flights"
	"flightdelays/internal/report"
)

// IATALength is the length of an airport code.
const IATALength = 3

// DateLayout is the accepted date input, DD/MM/YYYY with optional leading zeros.
const DateLayout = "2/1/2006"

// Source is the subset of the query gateway the menu needs.
type Source interface {
	FlightByID(ctx context.Context, id int64) ([]flights.Record, error)
	FlightsByDate(ctx context.Context, day, month, year int) ([]flights.Record, error)
	DelayedFlightsByAirline(ctx context.Context, name string) ([]flights.Record, error)
	DelayedFlightsByAirport(ctx context.Context, code string) ([]flights.Record, error)
	AllFlights(ctx context.Context) ([]flights.Record, error)
}

// errQuit ends the session, either from the Exit option or end of input.
var errQuit = errors.New("quit")

type action struct {
	label string
	run   func(*Console, context.Context) error
}

var menu = []action{
	{"Show flight by ID", (*Console).flightByID},
	{"Show flights by date", (*Console).flightsByDate},
	{"Delayed flights by airline", (*Console).delayedByAirline},
	{"Delayed flights by origin airport", (*Console).delayedByAirport},
	{"Plot delayed flights by airline", (*Console).plotAirlines},
	{"Plot delayed flights by hour", (*Console).plotHours},
	{"Plot heatmap of delayed flights by route", (*Console).plotHeatmap},
	{"Plot map of delayed flights by route", (*Console).plotMap},
	{"Exit", func(*Console, context.Context) error { return errQuit }},
}

// Console reads menu choices from an input stream and writes results to an
// output stream.
type Console struct {
	src      Source
	airports *airports.Index
	outDir   string

	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger used for rendering failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.logger = l }
}

// WithClock overrides the time source stamped into written summaries.
func WithClock(now func() time.Time) Option {
	return func(c *Console) { c.now = now }
}

// New creates a console. idx is the airport snapshot used for maps and outDir
// receives plot artifacts.
func New(src Source, idx *airports.Index, outDir string, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		src:      src,
		airports: idx,
		outDir:   outDir,
		in:       bufio.NewScanner(in),
		out:      out,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the menu and executes choices until Exit is chosen, the input ends
// or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a, err := c.choose()
		if err != nil {
			return quitIsNil(err)
		}

		if err := a.run(c, ctx); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("menu action failed", "action", a.label, "err", err)
			c.println("An unexpected error occurred:", err)
		}
	}
}

func quitIsNil(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (c *Console) choose() (action, error) {
	c.println("Menu:")
	for i, a := range menu {
		c.printf("%d. %s\n", i+1, a.label)
	}
	for {
		line, err := c.readLine("")
		if err != nil {
			return action{}, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(menu) {
			return menu[n-1], nil
		}
		c.println("Try again...")
	}
}

// readLine prompts and returns the next input line. End of input yields errQuit.
func (c *Console) readLine(prompt string) (string, error) {
	if prompt != "" {
		c.printf("%s", prompt)
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errQuit
	}
	return c.in.Text(), nil
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	_, _ = fmt.Fprintln(c.out, args...)
}

func (c *Console) flightByID(ctx context.Context) error {
	var id int64
	for {
		line, err := c.readLine("Enter flight ID: ")
		if err != nil {
			return err
		}
		id, err = strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err == nil {
			break
		}
		c.println("Try again...")
	}
	results, _ := c.src.FlightByID(ctx, id)
	c.printResults(results)
	return nil
}

func (c *Console) flightsByDate(ctx context.Context) error {
	var date time.Time
	for {
		line, err := c.readLine("Enter date in DD/MM/YYYY format: ")
		if err != nil {
			return err
		}
		date, err = time.Parse(DateLayout, strings.TrimSpace(line))
		if err == nil {
			break
		}
		c.println("Try again...", err)
	}
	results, _ := c.src.FlightsByDate(ctx, date.Day(), int(date.Month()), date.Year())
	c.printResults(results)
	return nil
}

func (c *Console) delayedByAirline(ctx context.Context) error {
	name, err := c.readLine("Enter airline name: ")
	if err != nil {
		return err
	}
	results, _ := c.src.DelayedFlightsByAirline(ctx, name)
	c.printResults(results)
	return nil
}

func (c *Console) delayedByAirport(ctx context.Context) error {
	var code string
	for {
		line, err := c.readLine("Enter origin airport IATA code: ")
		if err != nil {
			return err
		}
		if ValidIATA(line) {
			code = strings.ToUpper(line)
			break
		}
	}
	results, _ := c.src.DelayedFlightsByAirport(ctx, code)
	c.printResults(results)
	return nil
}

// ValidIATA reports whether s is exactly three letters.
func ValidIATA(s string) bool {
	n := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
		n++
	}
	return n == IATALength
}

// printResults lists records, stopping at the first one that cannot be shown.
func (c *Console) printResults(results []flights.Record) {
	c.printf("Got %d results.\n", len(results))
	for _, r := range results {
		line, err := FormatResult(r)
		if err != nil {
			c.println("Error showing results:", err)
			return
		}
		c.println(line)
	}
}

// FormatResult renders one flight as "ID. ORIG -> DEST by AIRLINE", adding
// the delay when it is positive.
func FormatResult(r flights.Record) (string, error) {
	for _, col := range []string{flights.ColDelay, flights.ColOrigin, flights.ColDestination, flights.ColAirline} {
		if !r.Has(col) {
			return "", fmt.Errorf("missing field %s", col)
		}
	}

	var delay int64
	v, _ := r.Value(flights.ColDelay)
	switch t := v.(type) {
	case nil:
	case string:
		if t == "" {
			break
		}
		// Text delays must be whole minutes.
		d, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid %s value %q", flights.ColDelay, t)
		}
		delay = d
	default:
		d, ok := r.Int(flights.ColDelay)
		if !ok {
			return "", fmt.Errorf("invalid %s value %q", flights.ColDelay, r.String(flights.ColDelay))
		}
		delay = d
	}

	line := fmt.Sprintf("%s. %s -> %s by %s",
		r.String(flights.ColFlightID),
		r.String(flights.ColOrigin),
		r.String(flights.ColDestination),
		r.String(flights.ColAirline))
	if delay > 0 {
		line += fmt.Sprintf(", Delay: %d Minutes", delay)
	}
	return line, nil
}

// batch fetches a fresh full scan for one plot.
func (c *Console) batch(ctx context.Context) *report.Batch {
	records, _ := c.src.AllFlights(ctx)
	return report.NewBatch(records, c.airports)
}

func (c *Console) save(artifacts ...report.Artifact) error {
	for _, a := range artifacts {
		path, err := report.WriteFile(c.outDir, a)
		if err != nil {
			return err
		}
		c.println("Saved", path)
	}
	return nil
}

func (c *Console) plotAirlines(ctx context.Context) error {
	return c.save(c.batch(ctx).AirlineChart())
}

func (c *Console) plotHours(ctx context.Context) error {
	return c.save(c.batch(ctx).HourChart())
}

func (c *Console) plotHeatmap(ctx context.Context) error {
	return c.save(c.batch(ctx).RouteHeatmap())
}

func (c *Console) plotMap(ctx context.Context) error {
	b := c.batch(ctx)
	if err := c.save(b.Map(), b.KML()); err != nil {
		return err
	}
	c.printf("Mapped %d routes, %d skipped without airport coordinates.\n", b.Layers.Len(), b.Layers.Dropped)
	return nil
}
