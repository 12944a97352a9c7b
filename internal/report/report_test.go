package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdelays/internal/airports"
	"flightdelays/internal/delays"
	"flightdelays/internal/flights"
	"flightdelays/internal/severity"
)

func flight(id int64, airline, origin, dest, dep string, delay any) flights.Record {
	return flights.Record{
		flights.ColFlightID:      id,
		flights.ColAirline:       airline,
		flights.ColOrigin:        origin,
		flights.ColDestination:   dest,
		flights.ColDepartureTime: dep,
		flights.ColDelay:         delay,
	}
}

func testBatch() *Batch {
	records := []flights.Record{
		flight(1, "American Airlines Inc.", "LAX", "SFO", "0830", int64(15)),
		flight(2, "American Airlines Inc.", "LAX", "SFO", "0845", int64(0)),
		flight(3, "American Airlines Inc.", "LAX", "SFO", "0910", int64(-3)),
		flight(4, "United Air Lines Inc.", "SFO", "LAX", "2310", int64(40)),
		flight(5, "United Air Lines Inc.", "SFO", "XYZ", "", nil),
	}
	idx := airports.NewIndex([]flights.Record{
		{flights.ColIATACode: "LAX", flights.ColLatitude: 33.94, flights.ColLongitude: -118.41},
		{flights.ColIATACode: "SFO", flights.ColLatitude: 37.62, flights.ColLongitude: -122.38},
	})
	return NewBatch(records, idx)
}

func TestNewBatch(t *testing.T) {
	b := testBatch()

	require.Len(t, b.Airlines, 2)
	assert.Equal(t, delays.Tally{Total: 3, Delayed: 1}, b.Airlines[0].Tally)
	assert.Equal(t, delays.Tally{Total: 2, Delayed: 1}, b.Airlines[1].Tally)

	require.Len(t, b.Hours, delays.HoursPerDay)
	assert.Equal(t, delays.Tally{Total: 2, Delayed: 1}, b.Hours[8].Tally)
	assert.Equal(t, delays.Tally{Total: 1, Delayed: 0}, b.Hours[9].Tally)
	assert.Equal(t, delays.Tally{Total: 1, Delayed: 1}, b.Hours[23].Tally)

	require.Len(t, b.Routes, 3)
	assert.Equal(t, 2, b.Layers.Len())
	assert.Equal(t, 1, b.Layers.Dropped)
	assert.Len(t, b.Layers.Layer(severity.Medium), 1)
	assert.Len(t, b.Layers.Layer(severity.High), 1)
}

func TestSummary(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	s := testBatch().Summary(now)

	assert.Equal(t, now.UTC(), s.GeneratedAt)
	assert.Equal(t, 5, s.Flights)
	assert.Equal(t, 2, s.Delayed)
	assert.Equal(t, 2, s.MappedRoutes)
	assert.Equal(t, 1, s.UnmappedRoutes)
	assert.Equal(t, map[string]int{"low": 0, "medium": 1, "high": 1}, s.RoutesByTier)

	require.Len(t, s.Hours, 24)
	assert.Equal(t, "08:00", s.Hours[8].Label)

	require.Len(t, s.Routes, 3)
	assert.Equal(t, "SFO->XYZ", s.Routes[2].Label)
	assert.Equal(t, severity.Low, s.Routes[2].Tier)

	assert.Equal(t, 2, s.AirlineStats.Count)
	assert.InDelta(t, (100.0/3+50)/2, s.AirlineStats.Mean, 1e-9)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tier":"high"`)
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := testBatch().WriteArtifacts(dir, time.Now())
	require.NoError(t, err)

	want := []string{
		AirlineChartFile, HourChartFile, RouteHeatmapFile,
		MapFile, KMLFile, RoutesCSVFile, SummaryFile,
	}
	require.Len(t, paths, len(want))
	for i, name := range want {
		assert.Equal(t, filepath.Join(dir, name), paths[i])
		info, err := os.Stat(paths[i])
		require.NoError(t, err)
		assert.Positive(t, info.Size(), name)
	}

	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	require.NoError(t, err)
	var s Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, 5, s.Flights)
}

func TestEmptyBatch(t *testing.T) {
	b := NewBatch(nil, nil)
	assert.Empty(t, b.Airlines)
	assert.Len(t, b.Hours, 24)
	assert.Zero(t, b.Layers.Len())

	paths, err := b.WriteArtifacts(t.TempDir(), time.Now())
	require.NoError(t, err)
	assert.Len(t, paths, 7)
}
