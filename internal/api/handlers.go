package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"flightdelays/internal/flights"
	"flightdelays/internal/render"
	"flightdelays/internal/report"
)

// FlightsResponse wraps a list of flight records.
type FlightsResponse struct {
	Count   int              `json:"count"`
	Flights []flights.Record `json:"flights"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleFlightByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	results, err := s.src.FlightByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "Flight not found")
		return
	}

	writeJSON(w, http.StatusOK, results[0])
}

func (s *Server) handleFlightsByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)")
		return
	}

	results, err := s.src.FlightsByDate(r.Context(), date.Day(), int(date.Month()), date.Year())
	writeFlights(w, results, err)
}

func (s *Server) handleDelayedByAirline(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "airline name is required")
		return
	}

	results, err := s.src.DelayedFlightsByAirline(r.Context(), name)
	writeFlights(w, results, err)
}

func (s *Server) handleDelayedByAirport(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !validIATA(code) {
		writeError(w, http.StatusBadRequest, "airport must be a 3-letter IATA code")
		return
	}

	results, err := s.src.DelayedFlightsByAirport(r.Context(), strings.ToUpper(code))
	writeFlights(w, results, err)
}

func validIATA(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

func writeFlights(w http.ResponseWriter, results []flights.Record, err error) {
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, FlightsResponse{Count: len(results), Flights: results})
}

// batch runs a fresh full scan; nothing is cached between requests.
func (s *Server) batch(w http.ResponseWriter, r *http.Request) (*report.Batch, bool) {
	records, err := s.src.AllFlights(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return nil, false
	}
	return report.NewBatch(records, s.airports), true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.batch(w, r); ok {
		writeJSON(w, http.StatusOK, b.Summary(s.now()))
	}
}

func (s *Server) handleAirlines(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.batch(w, r); ok {
		writeJSON(w, http.StatusOK, b.Summary(s.now()).Airlines)
	}
}

func (s *Server) handleHours(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.batch(w, r); ok {
		writeJSON(w, http.StatusOK, b.Summary(s.now()).Hours)
	}
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.batch(w, r); ok {
		writeJSON(w, http.StatusOK, b.Summary(s.now()).Routes)
	}
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Map(w, b.Layers, render.DefaultMapOptions()); err != nil {
		s.logger.Error("rendering map", "err", err)
	}
}

// Helper functions.

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
