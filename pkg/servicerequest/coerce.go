package servicerequest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// optionalString renders scalar upstream values as text. nil stays nil.
func optionalString(v interface{}) *string {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case json.Number:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprint(val)
	}
	return &s
}

// optionalNumber coerces a string or number to float64. Absent, blank and
// non-numeric values yield nil.
func optionalNumber(v interface{}) *float64 {
	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = val
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// optionalInt is optionalNumber restricted to whole values.
func optionalInt(v interface{}) *int64 {
	f := optionalNumber(v)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	n := int64(*f)
	return &n
}

// optionalTime parses upstream timestamps: epoch milliseconds as a number
// or digit string, or a date-time string. Zero, empty and unparseable
// values yield nil.
func optionalTime(v interface{}) *time.Time {
	switch val := v.(type) {
	case nil:
		return nil
	case json.Number, float64, int, int64:
		ms := optionalNumber(val)
		if ms == nil || *ms == 0 {
			return nil
		}
		return fromMillis(int64(*ms))
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		if ms, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			if ms == 0 {
				return nil
			}
			return fromMillis(ms)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

func fromMillis(ms int64) *time.Time {
	t := time.UnixMilli(ms).UTC()
	return &t
}

// lookupString returns attrs[key] as text, reporting false when the key is
// absent or null.
func lookupString(attrs map[string]interface{}, key string) (string, bool) {
	s := optionalString(attrs[key])
	if s == nil {
		return "", false
	}
	return *s, true
}
