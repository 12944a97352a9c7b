package render

import (
	"encoding/csv"
	"io"
	"math"

	"github.com/jszwec/csvutil"

	"flightdelays/internal/delays"
	"flightdelays/internal/severity"
)

// RouteRow is one line of the by-route table.
type RouteRow struct {
	Origin      string  `csv:"origin"`
	Destination string  `csv:"destination"`
	Total       int     `csv:"total"`
	Delayed     int     `csv:"delayed"`
	Percent     float64 `csv:"percent_delayed"`
	Tier        string  `csv:"tier"`
}

// AirlineRow is one line of the by-airline table.
type AirlineRow struct {
	Airline string  `csv:"airline"`
	Total   int     `csv:"total"`
	Delayed int     `csv:"delayed"`
	Percent float64 `csv:"percent_delayed"`
	Tier    string  `csv:"tier"`
}

// HourRow is one line of the by-hour table.
type HourRow struct {
	Hour    int     `csv:"hour"`
	Total   int     `csv:"total"`
	Delayed int     `csv:"delayed"`
	Percent float64 `csv:"percent_delayed"`
	Tier    string  `csv:"tier"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoutesCSV writes every aggregated route, mappable or not, with its tier.
func RoutesCSV(w io.Writer, routes []delays.Ratio[delays.Route]) error {
	rows := make([]RouteRow, len(routes))
	for i, r := range routes {
		rows[i] = RouteRow{
			Origin:      r.Key.Origin,
			Destination: r.Key.Destination,
			Total:       r.Total,
			Delayed:     r.Delayed,
			Percent:     round2(r.Percent()),
			Tier:        severity.Classify(r.Ratio()).String(),
		}
	}
	return writeCSV(w, RouteRow{}, rows)
}

// AirlinesCSV writes the by-airline tallies.
func AirlinesCSV(w io.Writer, ratios []delays.Ratio[string]) error {
	rows := make([]AirlineRow, len(ratios))
	for i, r := range ratios {
		rows[i] = AirlineRow{
			Airline: r.Key,
			Total:   r.Total,
			Delayed: r.Delayed,
			Percent: round2(r.Percent()),
			Tier:    severity.Classify(r.Ratio()).String(),
		}
	}
	return writeCSV(w, AirlineRow{}, rows)
}

// HoursCSV writes the by-hour tallies.
func HoursCSV(w io.Writer, hours []delays.Ratio[int]) error {
	rows := make([]HourRow, len(hours))
	for i, h := range hours {
		rows[i] = HourRow{
			Hour:    h.Key,
			Total:   h.Total,
			Delayed: h.Delayed,
			Percent: round2(h.Percent()),
			Tier:    severity.Classify(h.Ratio()).String(),
		}
	}
	return writeCSV(w, HourRow{}, rows)
}

// writeCSV always emits the header, even for an empty table.
func writeCSV[T any](w io.Writer, header T, rows []T) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false
	if err := enc.EncodeHeader(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
