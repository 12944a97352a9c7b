package severity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdelays/internal/airports"
	"flightdelays/internal/delays"
	"flightdelays/internal/flights"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		want  Tier
	}{
		{0, Low},
		{0.19, Low},
		{0.20, Medium},
		{0.39, Medium},
		{0.40, High},
		{1.0, High},
		{1.0 / 5, Medium},
		{2.0 / 5, High},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestTierPresentation(t *testing.T) {
	assert.Equal(t, "green", Low.Color())
	assert.Equal(t, "yellow", Medium.Color())
	assert.Equal(t, "red", High.Color())

	assert.Equal(t, "Low Delay (<20%)", Low.Label())
	assert.Equal(t, "Medium Delay (20-40%)", Medium.Label())
	assert.Equal(t, "High Delay (>40%)", High.Label())

	b, err := json.Marshal(map[string]Tier{"tier": Medium})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"medium"}`, string(b))
}

func testIndex() *airports.Index {
	return airports.NewIndex([]flights.Record{
		{flights.ColIATACode: "AAA", flights.ColLatitude: 40.0, flights.ColLongitude: -75.0},
		{flights.ColIATACode: "BBB", flights.ColLatitude: 34.0, flights.ColLongitude: -118.0},
		{flights.ColIATACode: "CCC", flights.ColLatitude: 37.6, flights.ColLongitude: -122.4},
	})
}

func route(origin, dest string, total, delayed int) delays.Ratio[delays.Route] {
	return delays.Ratio[delays.Route]{
		Key:   delays.Route{Origin: origin, Destination: dest},
		Tally: delays.Tally{Total: total, Delayed: delayed},
	}
}

func TestPartition(t *testing.T) {
	routes := []delays.Ratio[delays.Route]{
		route("AAA", "BBB", 10, 1),
		route("BBB", "AAA", 5, 1),
		route("AAA", "CCC", 5, 2),
		route("CCC", "BBB", 3, 3),
	}

	l := Partition(routes, testIndex())
	assert.Equal(t, 4, l.Len())
	assert.Zero(t, l.Dropped)

	require.Len(t, l.Layer(Low), 1)
	assert.Equal(t, delays.Route{Origin: "AAA", Destination: "BBB"}, l.Layer(Low)[0].Route)

	require.Len(t, l.Layer(Medium), 1)
	assert.Equal(t, "BBB", l.Layer(Medium)[0].Route.Origin)

	require.Len(t, l.Layer(High), 2)
	for _, s := range l.Layer(High) {
		assert.Equal(t, High, s.Tier)
		assert.Positive(t, s.DistanceKm)
	}

	assert.Nil(t, l.Layer(Tier(7)))
}

func TestPartitionDropsUnknownAirportsButKeepsAggregation(t *testing.T) {
	records := []flights.Record{
		{flights.ColOrigin: "AAA", flights.ColDestination: "XYZ", flights.ColDelay: int64(20)},
		{flights.ColOrigin: "XYZ", flights.ColDestination: "BBB", flights.ColDelay: int64(0)},
		{flights.ColOrigin: "AAA", flights.ColDestination: "BBB", flights.ColDelay: int64(0)},
	}

	routes := delays.ByRoute(records)
	require.Len(t, routes, 3)

	l := Partition(routes, testIndex())
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, l.Dropped)

	// The aggregation result is untouched by the map filter.
	require.Len(t, routes, 3)
	assert.Equal(t, "XYZ", routes[1].Key.Destination)
	assert.Equal(t, "XYZ", routes[2].Key.Origin)
}

func TestPartitionWithNilIndex(t *testing.T) {
	l := Partition([]delays.Ratio[delays.Route]{route("AAA", "BBB", 1, 0)}, nil)
	assert.Zero(t, l.Len())
	assert.Equal(t, 1, l.Dropped)
}

func TestTierUnmarshalText(t *testing.T) {
	var got map[string]Tier
	require.NoError(t, json.Unmarshal([]byte(`{"a":"low","b":"high"}`), &got))
	assert.Equal(t, map[string]Tier{"a": Low, "b": High}, got)

	var tier Tier
	assert.Error(t, tier.UnmarshalText([]byte("severe")))
}
