// Package airports holds the read-only airport location snapshot used for map
// rendering.
package airports

import (
	"cmp"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"flightdelays/internal/flights"
)

// Location is an airport with known coordinates.
type Location struct {
	Code      string  `json:"iata_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point returns the location as an orb point (longitude, latitude).
func (l Location) Point() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// DistanceKm returns the great-circle distance between two locations.
func DistanceKm(a, b Location) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point()) / 1000
}

// Index maps IATA codes to locations. It is built once and never modified,
// so it can be shared freely. A nil *Index is empty.
type Index struct {
	byCode map[string]Location
}

// NewIndex builds an index from airport-scan records. Records without a code
// or with a missing, empty or non-numeric coordinate are left out. When a code
// repeats, the first usable record wins.
func NewIndex(records []flights.Record) *Index {
	idx := &Index{byCode: make(map[string]Location, len(records))}
	for _, r := range records {
		code := strings.TrimSpace(r.String(flights.ColIATACode))
		if code == "" {
			continue
		}
		if _, seen := idx.byCode[code]; seen {
			continue
		}
		lat, ok := r.Float(flights.ColLatitude)
		if !ok {
			continue
		}
		lon, ok := r.Float(flights.ColLongitude)
		if !ok {
			continue
		}
		idx.byCode[code] = Location{Code: code, Latitude: lat, Longitude: lon}
	}
	return idx
}

// Lookup returns the location for an IATA code.
func (i *Index) Lookup(code string) (Location, bool) {
	if i == nil {
		return Location{}, false
	}
	l, ok := i.byCode[code]
	return l, ok
}

// Contains reports whether the code has a known location.
func (i *Index) Contains(code string) bool {
	_, ok := i.Lookup(code)
	return ok
}

// Len returns the number of indexed airports.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byCode)
}

// Locations returns all locations sorted by code.
func (i *Index) Locations() []Location {
	if i == nil {
		return nil
	}
	out := make([]Location, 0, len(i.byCode))
	for _, l := range i.byCode {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b Location) int { return cmp.Compare(a.Code, b.Code) })
	return out
}
