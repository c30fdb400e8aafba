package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one row returned by a RecordSource. Values are normalized by the
// adapter to nil, string, bool, int/int64, float64, time.Time or []any.
type Record map[string]any

// Present reports whether the field exists and is not null.
func (r Record) Present(field string) bool {
	return r[field] != nil
}

// Blank reports whether the field is null or, for text, empty after trimming.
func (r Record) Blank(field string) bool {
	switch v := r[field].(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// Text returns the field as a string. Null renders as "".
func (r Record) Text(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return formatScalar(v)
	}
}

// ID returns the field formatted as an identifier, or "" when null.
func (r Record) ID(field string) string {
	return r.Text(field)
}

// List returns an array-valued field. ok is false when the field is null or
// not an array.
func (r Record) List(field string) (items []any, ok bool) {
	switch v := r[field].(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// NonEmptyList reports whether the field is an array with at least one entry.
func (r Record) NonEmptyList(field string) bool {
	items, ok := r.List(field)
	return ok && len(items) > 0
}

// Strings returns the string entries of an array-valued field, skipping
// entries that are not strings.
func (r Record) Strings(field string) []string {
	items, _ := r.List(field)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IDs returns the entries of an array-valued field formatted as identifiers.
func (r Record) IDs(field string) []string {
	items, _ := r.List(field)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, FormatValue(it))
	}
	return out
}

// Float returns a numeric field. ok is false for null or non-numeric values.
func (r Record) Float(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Time returns a date or timestamp field. ok is false for null or
// unparseable values.
func (r Record) Time(field string) (time.Time, bool) {
	switch v := r[field].(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// FormatValue renders a scalar the way identifiers and samples print it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return formatScalar(x)
	}
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
