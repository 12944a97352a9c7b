// Package report runs every delay aggregation over a single full-scan
// snapshot and writes the resulting artifacts.
package report

import (
	"time"

	"flightdelays/internal/airports"
	"flightdelays/internal/delays"
	"flightdelays/internal/flights"
	"flightdelays/internal/severity"
)

// Batch holds one snapshot of flights and everything derived from it.
type Batch struct {
	Flights  []flights.Record
	Airlines []delays.Ratio[string]
	Hours    []delays.Ratio[int]
	Routes   []delays.Ratio[delays.Route]
	Layers   severity.Layers
}

// NewBatch aggregates records by airline, hour and route and partitions the
// routes into map layers against idx.
func NewBatch(records []flights.Record, idx *airports.Index) *Batch {
	routes := delays.ByRoute(records)
	return &Batch{
		Flights:  records,
		Airlines: delays.ByAirline(records),
		Hours:    delays.ByHour(records),
		Routes:   routes,
		Layers:   severity.Partition(routes, idx),
	}
}

// Row is one aggregated group in a summary.
type Row struct {
	Label   string        `json:"label"`
	Total   int           `json:"total"`
	Delayed int           `json:"delayed"`
	Percent float64       `json:"percent"`
	Tier    severity.Tier `json:"tier"`
}

// Summary is the JSON form of a batch.
type Summary struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	Flights        int            `json:"flights"`
	Delayed        int            `json:"delayed"`
	Airlines       []Row          `json:"airlines"`
	Hours          []Row          `json:"hours"`
	Routes         []Row          `json:"routes"`
	AirlineStats   delays.Summary `json:"airline_stats"`
	HourStats      delays.Summary `json:"hour_stats"`
	RouteStats     delays.Summary `json:"route_stats"`
	MappedRoutes   int            `json:"mapped_routes"`
	UnmappedRoutes int            `json:"unmapped_routes"`
	RoutesByTier   map[string]int `json:"routes_by_tier"`
}

func rows[K comparable](rs []delays.Ratio[K], label func(K) string) []Row {
	out := make([]Row, len(rs))
	for i, r := range rs {
		out[i] = Row{
			Label:   label(r.Key),
			Total:   r.Total,
			Delayed: r.Delayed,
			Percent: r.Percent(),
			Tier:    severity.Classify(r.Ratio()),
		}
	}
	return out
}

// Summary describes the batch as of now.
func (b *Batch) Summary(now time.Time) Summary {
	var all delays.Tally
	for _, r := range b.Flights {
		all.Add(delays.DelayMinutes(r))
	}

	byTier := make(map[string]int, len(severity.Tiers))
	for _, t := range severity.Tiers {
		byTier[t.String()] = len(b.Layers.Layer(t))
	}

	return Summary{
		GeneratedAt:    now.UTC(),
		Flights:        all.Total,
		Delayed:        all.Delayed,
		Airlines:       rows(b.Airlines, func(k string) string { return k }),
		Hours:          rows(b.Hours, func(k int) string { return hourLabel(k) }),
		Routes:         rows(b.Routes, delays.Route.String),
		AirlineStats:   delays.SummarizeRatios(b.Airlines),
		HourStats:      delays.SummarizeRatios(b.Hours),
		RouteStats:     delays.SummarizeRatios(b.Routes),
		MappedRoutes:   b.Layers.Len(),
		UnmappedRoutes: b.Layers.Dropped,
		RoutesByTier:   byTier,
	}
}

func hourLabel(h int) string {
	return time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04")
}
