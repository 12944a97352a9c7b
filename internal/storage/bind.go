package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingParam is returned when a query placeholder has no bound value.
var ErrMissingParam = errors.New("missing query parameter")

// Params holds named query parameters keyed by placeholder name (without the
// leading colon).
type Params map[string]any

// Bind rewrites :name placeholders in query into the positional form produced
// by placeholder and returns the arguments in placeholder order. Values are
// always passed as driver arguments and never spliced into the SQL text.
// Quoted literals and identifiers, comments and "::" casts are copied as is.
func Bind(query string, params Params, placeholder func(n int) string) (string, []any, error) {
	var b strings.Builder
	b.Grow(len(query))
	var args []any

	for i := 0; i < len(query); i++ {
		c := query[i]
		if end := skipLiteral(query, i); end > i {
			b.WriteString(query[i:end])
			i = end - 1
			continue
		}
		if c != ':' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(query) && query[i+1] == ':' {
			b.WriteString("::")
			i++
			continue
		}

		j := i + 1
		for j < len(query) && isNameByte(query[j], j == i+1) {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			continue
		}

		name := query[i+1 : j]
		v, ok := params[name]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
		args = append(args, v)
		b.WriteString(placeholder(len(args)))
		i = j - 1
	}

	return b.String(), args, nil
}

// skipLiteral returns the end offset of the quoted string, quoted identifier
// or comment starting at query[i], or i when none starts there. Unterminated
// spans run to the end of the query.
func skipLiteral(query string, i int) int {
	rest := query[i:]
	switch {
	case rest[0] == '\'' || rest[0] == '"':
		if n := strings.IndexByte(rest[1:], rest[0]); n >= 0 {
			return i + n + 2
		}
	case strings.HasPrefix(rest, "--"):
		if n := strings.IndexByte(rest, '\n'); n >= 0 {
			return i + n
		}
	case strings.HasPrefix(rest, "/*"):
		if n := strings.Index(rest[2:], "*/"); n >= 0 {
			return i + n + 4
		}
	default:
		return i
	}
	return len(query)
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// questionPlaceholder is the positional style used by SQLite, MySQL and ClickHouse.
func questionPlaceholder(int) string { return "?" }

// dollarPlaceholder is the PostgreSQL positional style.
func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }
