package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdelays/internal/airports"
	"flightdelays/internal/flights"
	"flightdelays/internal/report"
)

// mockSource serves canned records and records the arguments it was called with.
type mockSource struct {
	records []flights.Record
	err     error
	lastArg any
}

func (m *mockSource) result(arg any) ([]flights.Record, error) {
	m.lastArg = arg
	if m.err != nil {
		return []flights.Record{}, m.err
	}
	return m.records, nil
}

func (m *mockSource) FlightByID(_ context.Context, id int64) ([]flights.Record, error) {
	return m.result(id)
}

func (m *mockSource) FlightsByDate(_ context.Context, day, month, year int) ([]flights.Record, error) {
	return m.result([3]int{day, month, year})
}

func (m *mockSource) DelayedFlightsByAirline(_ context.Context, name string) ([]flights.Record, error) {
	return m.result(name)
}

func (m *mockSource) DelayedFlightsByAirport(_ context.Context, code string) ([]flights.Record, error) {
	return m.result(code)
}

func (m *mockSource) AllFlights(_ context.Context) ([]flights.Record, error) {
	return m.result(nil)
}

func testRecords() []flights.Record {
	return []flights.Record{
		{flights.ColFlightID: int64(1), flights.ColAirline: "American Airlines Inc.", flights.ColOrigin: "LAX", flights.ColDestination: "SFO", flights.ColDepartureTime: "0830", flights.ColDelay: int64(20)},
		{flights.ColFlightID: int64(2), flights.ColAirline: "American Airlines Inc.", flights.ColOrigin: "SFO", flights.ColDestination: "LAX", flights.ColDepartureTime: "0915", flights.ColDelay: int64(0)},
	}
}

func testIndex() *airports.Index {
	return airports.NewIndex([]flights.Record{
		{flights.ColIATACode: "LAX", flights.ColLatitude: 33.94, flights.ColLongitude: -118.41},
		{flights.ColIATACode: "SFO", flights.ColLatitude: 37.62, flights.ColLongitude: -122.38},
	})
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), "decoding %s", rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(nil, nil, Config{Port: 8081})
	rec := serve(server.Router(), http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestAuthMiddleware(t *testing.T) {
	server := NewServer(&mockSource{}, nil, Config{
		Port:        8081,
		AuthEnabled: true,
		APIKeys:     []string{"test-key-123", "another-key"},
	})
	router := server.Router()

	tests := []struct {
		name       string
		apiKey     string
		keyHeader  string
		wantStatus int
	}{
		{
			name:       "no key",
			apiKey:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid key",
			apiKey:     "wrong-key",
			keyHeader:  "X-API-Key",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid key via X-API-Key",
			apiKey:     "test-key-123",
			keyHeader:  "X-API-Key",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid key via Bearer",
			apiKey:     "another-key",
			keyHeader:  "Authorization",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/delayed/airline/Delta", nil)
			if tt.apiKey != "" {
				if tt.keyHeader == "Authorization" {
					req.Header.Set("Authorization", "Bearer "+tt.apiKey)
				} else {
					req.Header.Set(tt.keyHeader, tt.apiKey)
				}
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	// Health stays open.
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health").Code)
}

func TestAuthMiddlewareQueryParam(t *testing.T) {
	server := NewServer(&mockSource{}, nil, Config{
		Port:        8081,
		AuthEnabled: true,
		APIKeys:     []string{"query-key"},
	})

	rec := serve(server.Router(), http.MethodGet, "/delays/summary?api_key=query-key")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFlightByID(t *testing.T) {
	src := &mockSource{records: testRecords()[:1]}
	router := NewServer(src, nil, Config{}).Router()

	rec := serve(router, http.MethodGet, "/flights/1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got map[string]any
	decode(t, rec, &got)
	assert.Equal(t, "LAX", got["ORIGIN_AIRPORT"])
	assert.Equal(t, int64(1), src.lastArg)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/flights/abc").Code, "non-integer id")

	src.records = nil
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/flights/99").Code, "missing flight")
}

func TestFlightsByDate(t *testing.T) {
	src := &mockSource{records: testRecords()}
	router := NewServer(src, nil, Config{}).Router()

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"missing date", "", http.StatusBadRequest},
		{"invalid date format", "?date=30-01-2015", http.StatusBadRequest},
		{"invalid date", "?date=not-a-date", http.StatusBadRequest},
		{"valid", "?date=2015-01-02", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, "/flights"+tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, [3]int{2, 1, 2015}, src.lastArg)
}

func TestDelayedByAirport(t *testing.T) {
	src := &mockSource{records: testRecords()}
	router := NewServer(src, nil, Config{}).Router()

	rec := serve(router, http.MethodGet, "/delayed/airport/lax")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp FlightsResponse
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Flights, 2)
	assert.Equal(t, "LAX", src.lastArg, "code is upper-cased")

	for _, code := range []string{"LA", "L4X", "LAXX"} {
		assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/delayed/airport/"+code).Code, code)
	}
}

func TestQueryErrorIsBadGateway(t *testing.T) {
	src := &mockSource{err: errors.New("no such table: flights")}
	router := NewServer(src, nil, Config{}).Router()

	for _, path := range []string{"/flights/1", "/delayed/airline/Delta", "/delays/summary", "/map"} {
		rec := serve(router, http.MethodGet, path)
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "no such table", path)
	}
}

func TestDelayEndpoints(t *testing.T) {
	src := &mockSource{records: testRecords()}
	router := NewServer(src, testIndex(), Config{}).Router()

	rec := serve(router, http.MethodGet, "/delays/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary report.Summary
	decode(t, rec, &summary)
	assert.Equal(t, 2, summary.Flights)
	assert.Equal(t, 1, summary.Delayed)
	assert.Equal(t, 2, summary.MappedRoutes)

	var hours []report.Row
	decode(t, serve(router, http.MethodGet, "/delays/hours"), &hours)
	assert.Len(t, hours, 24)

	var routes []report.Row
	decode(t, serve(router, http.MethodGet, "/delays/routes"), &routes)
	require.Len(t, routes, 2)
	assert.Equal(t, "LAX->SFO", routes[0].Label)
	assert.Equal(t, 100.0, routes[0].Percent)

	var airlines []report.Row
	decode(t, serve(router, http.MethodGet, "/delays/airlines"), &airlines)
	require.Len(t, airlines, 1)
	assert.Equal(t, 50.0, airlines[0].Percent)
}

func TestMapEndpoint(t *testing.T) {
	router := NewServer(&mockSource{records: testRecords()}, testIndex(), Config{}).Router()

	rec := serve(router, http.MethodGet, "/map")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#route-layers").Length(), "embedded route layers")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))

	h := NewServer(&mockSource{}, nil, Config{}, WithGatherer(reg)).Handler()
	rec := serve(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total")

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/health").Code, "mounted health check")
}

func TestCORSHeaders(t *testing.T) {
	h := NewServer(&mockSource{}, nil, Config{}).Handler()

	rec := serve(h, http.MethodOptions, "/api/v1/delays/summary")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
