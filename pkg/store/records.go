package store

import (
	"sort"
	"time"
)

// CloneRecord returns a shallow copy so callers cannot mutate a backend's
// internal state through a returned record.
func CloneRecord(rec Record) Record {
	if rec == nil {
		return nil
	}

	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}

	return out
}

// MatchesFilter reports whether every filter entry equals the
// corresponding record field.
func MatchesFilter(rec Record, filter map[string]any) bool {
	for k, want := range filter {
		if rec[k] != want {
			return false
		}
	}

	return true
}

// SortRecords orders records in place by the named field. Timestamps,
// numbers and strings compare naturally; mixed or unknown types fall back
// to string comparison of their formatted values.
func SortRecords(recs []Record, sortBy string, desc bool) {
	if sortBy == "" {
		return
	}

	sort.SliceStable(recs, func(i, j int) bool {
		less := lessValue(recs[i][sortBy], recs[j][sortBy])
		if desc {
			return !less && !equalValue(recs[i][sortBy], recs[j][sortBy])
		}

		return less
	})
}

func lessValue(a, b any) bool {
	at, aok := asTime(a)
	bt, bok := asTime(b)

	if aok && bok {
		return at.Before(bt)
	}

	af, aok := asFloat(a)
	bf, bok := asFloat(b)

	if aok && bok {
		return af < bf
	}

	return stringify(a) < stringify(b)
}

func equalValue(a, b any) bool {
	return !lessValue(a, b) && !lessValue(b, a)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}

		return parsed, true
	default:
		return time.Time{}, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	if v == nil {
		return ""
	}

	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}

	return ""
}
