package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Float64OrNil best-effort converts a raw provider value to a float,
// returning nil when it cannot. Accepts the shapes encoding/json produces
// (float64, string, json.Number, nil) plus plain integer types so adapters
// and tests can pass literals.
func Float64OrNil(v any) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return &x
	case float32:
		f := float64(x)
		return &f
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// hourlyTimeLayouts covers the timestamp shapes the weather provider emits:
// minute precision with or without seconds, plus full RFC 3339.
var hourlyTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseHourlyTime parses a provider timestamp string as a UTC instant.
func ParseHourlyTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range hourlyTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
