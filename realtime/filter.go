package realtime

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Filter is a PostgREST-style row filter, "column=eq.value". Only equality is supported.
type Filter struct {
	Column string
	Value  string
}

func ParseFilter(raw string) (Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Filter{}, nil
	}
	column, rest, ok := strings.Cut(raw, "=")
	if !ok || column == "" {
		return Filter{}, fmt.Errorf("%q: %w", raw, ErrInvalidFilter)
	}
	op, value, ok := strings.Cut(rest, ".")
	if !ok || op != "eq" || value == "" {
		return Filter{}, fmt.Errorf("%q: only column=eq.value is supported: %w", raw, ErrInvalidFilter)
	}
	return Filter{Column: column, Value: value}, nil
}

func (f Filter) IsZero() bool {
	return f.Column == ""
}

func (f Filter) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Column + "=eq." + f.Value
}

// Matches compares the column's JSON value with the filter value as text.
func (f Filter) Matches(record map[string]interface{}) bool {
	if f.IsZero() {
		return true
	}
	v, ok := record[f.Column]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s == f.Value
	}
	return fmt.Sprint(v) == f.Value
}
