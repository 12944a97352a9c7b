// Package flights defines the flat row records produced by the dataset queries.
package flights

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names used by the aggregation and display code. Keys in a Record are
// always upper case.
const (
	ColFlightID      = "FLIGHT_ID"
	ColYear          = "YEAR"
	ColMonth         = "MONTH"
	ColDay           = "DAY"
	ColAirline       = "AIRLINE"
	ColAirlineCode   = "AIRLINE_CODE"
	ColOrigin        = "ORIGIN_AIRPORT"
	ColDestination   = "DESTINATION_AIRPORT"
	ColDepartureTime = "DEPARTURE_TIME"
	ColDelay         = "DELAY"

	ColIATACode  = "IATA_CODE"
	ColLatitude  = "LATITUDE"
	ColLongitude = "LONGITUDE"
)

// Record is one query result row keyed by upper-cased column name.
type Record map[string]any

// NewRecord builds a record from parallel column and value slices. Values are
// normalized; when a column name repeats, the later value wins.
func NewRecord(columns []string, values []any) Record {
	r := make(Record, len(columns))
	for i, c := range columns {
		if i >= len(values) {
			break
		}
		r[NormalizeKey(c)] = Normalize(values[i])
	}
	return r
}

// NormalizeKey upper-cases a column name and strips any table qualifier.
func NormalizeKey(column string) string {
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		column = column[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(column))
}

// Normalize converts driver values into the small set of types a Record holds:
// nil, int64, float64, string, bool and time.Time.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(t)
	case string, int64, float64, bool, time.Time:
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return float64(t)
		}
		return int64(t)
	case float32:
		return float64(t)
	case fmt.Stringer:
		return t.String()
	default:
		return t
	}
}

// Value returns the raw value for a column.
func (r Record) Value(col string) (any, bool) {
	v, ok := r[col]
	return v, ok
}

// Has reports whether the column is present, even if null.
func (r Record) Has(col string) bool {
	_, ok := r[col]
	return ok
}

// String returns a display form of the column, or "" when missing or null.
func (r Record) String(col string) string {
	switch t := r[col].(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// Text returns the column only when it holds a string value.
func (r Record) Text(col string) (string, bool) {
	s, ok := r[col].(string)
	return s, ok
}

// Int returns the column as an integer. Floats are truncated toward zero and
// numeric strings are parsed. Missing, null, empty and non-numeric values
// report false.
func (r Record) Int(col string) (int64, bool) {
	return toInt(r[col])
}

// Float returns the column as a float. Missing, null, empty and non-numeric
// values report false.
func (r Record) Float(col string) (float64, bool) {
	switch t := r[col].(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return truncate(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return truncate(f), true
	}
	return 0, false
}

// truncate drops the fraction of f, saturating at the int64 range.
func truncate(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
