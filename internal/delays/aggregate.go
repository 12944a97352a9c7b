// Package delays aggregates flight records into per-group delay ratios.
//
// Every aggregation uses the same reduction: each record that yields a group
// key counts toward that group's total, and toward its delayed count when its
// departure delay is strictly positive. Aggregations are pure functions of
// their input; nothing is carried between calls.
package delays

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"flightdelays/internal/flights"
)

// HoursPerDay is the number of hour-of-day buckets.
const HoursPerDay = 24

// Tally counts flights in one group. Delayed never exceeds Total.
type Tally struct {
	Total   int `json:"total"`
	Delayed int `json:"delayed"`
}

// Ratio returns Delayed/Total, or 0 for an empty group.
func (t Tally) Ratio() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Delayed) / float64(t.Total)
}

// Percent returns the ratio scaled to 0–100.
func (t Tally) Percent() float64 {
	return t.Ratio() * 100
}

// Add counts one flight with the given delay in minutes.
func (t *Tally) Add(delay int64) {
	t.Total++
	if delay > 0 {
		t.Delayed++
	}
}

// Route is an ordered origin → destination airport pair.
type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// String formats the route as "ORIGIN->DEST".
func (r Route) String() string {
	return r.Origin + "->" + r.Destination
}

// Ratio is one group's tally together with its key.
type Ratio[K comparable] struct {
	Key K `json:"key"`
	Tally
}

// KeyFunc derives a group key from a record. Returning false skips the record.
type KeyFunc[K comparable] func(flights.Record) (K, bool)

// DelayMinutes returns the record's DELAY as an integer. Missing, null, empty
// and non-numeric values count as 0; negative (early) values are kept.
func DelayMinutes(r flights.Record) int64 {
	d, ok := r.Int(flights.ColDelay)
	if !ok {
		return 0
	}
	return d
}

// Aggregate groups records by key and tallies total and delayed flights.
func Aggregate[K comparable](records []flights.Record, key KeyFunc[K]) map[K]Tally {
	out := make(map[K]Tally)
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		t := out[k]
		t.Add(DelayMinutes(r))
		out[k] = t
	}
	return out
}

// AirlineKey groups by the AIRLINE field as-is.
func AirlineKey(r flights.Record) (string, bool) {
	return r.String(flights.ColAirline), true
}

// HourKey groups by departure hour: the first two characters of a string
// DEPARTURE_TIME parsed as an integer. Missing, non-string, unparseable and
// out-of-range values skip the record.
func HourKey(r flights.Record) (int, bool) {
	s, ok := r.Text(flights.ColDepartureTime)
	if !ok {
		return 0, false
	}
	return ParseHour(s)
}

// ParseHour extracts the hour from an HHMM-style departure time.
func ParseHour(departureTime string) (int, bool) {
	prefix := []rune(departureTime)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	h, err := strconv.Atoi(strings.TrimSpace(string(prefix)))
	if err != nil || h < 0 || h >= HoursPerDay {
		return 0, false
	}
	return h, true
}

// RouteKey groups by (origin, destination); direction matters.
func RouteKey(r flights.Record) (Route, bool) {
	return Route{
		Origin:      r.String(flights.ColOrigin),
		Destination: r.String(flights.ColDestination),
	}, true
}

// ByAirline returns one ratio per airline, sorted by airline.
func ByAirline(records []flights.Record) []Ratio[string] {
	return sorted(Aggregate(records, AirlineKey), cmp.Compare[string])
}

// ByHour returns exactly 24 ratios for hours 0–23. Hours without flights have
// a zero tally and ratio 0.
func ByHour(records []flights.Record) []Ratio[int] {
	tallies := Aggregate(records, HourKey)
	out := make([]Ratio[int], HoursPerDay)
	for h := range out {
		out[h] = Ratio[int]{Key: h, Tally: tallies[h]}
	}
	return out
}

// ByRoute returns one ratio per directed route, sorted by origin then
// destination.
func ByRoute(records []flights.Record) []Ratio[Route] {
	return sorted(Aggregate(records, RouteKey), func(a, b Route) int {
		if c := cmp.Compare(a.Origin, b.Origin); c != 0 {
			return c
		}
		return cmp.Compare(a.Destination, b.Destination)
	})
}

func sorted[K comparable](m map[K]Tally, compare func(a, b K) int) []Ratio[K] {
	out := make([]Ratio[K], 0, len(m))
	for k, t := range m {
		out = append(out, Ratio[K]{Key: k, Tally: t})
	}
	slices.SortFunc(out, func(a, b Ratio[K]) int { return compare(a.Key, b.Key) })
	return out
}

// Ratios extracts the delay ratios (0–1) in sequence order.
func Ratios[K comparable](rs []Ratio[K]) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Ratio()
	}
	return out
}

// Percents extracts the delay percentages (0–100) in sequence order.
func Percents[K comparable](rs []Ratio[K]) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Percent()
	}
	return out
}
