// Package coerce implements best-effort cell-level type conversion.
//
// Every function follows the same contract: convert the value to the target
// type when possible, return nil when not. Coercion never returns an error
// and never stops a batch; a malformed cell becomes a NULL, nothing more.
package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// missing reports whether a raw string spells an absent value. CSV round
// trips and upstream exports produce empty cells as well as the literal
// "nan"/"None" artifacts; none of them may survive as text.
func missing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null", "na", "<na>":
		return true
	}
	return false
}

// Float converts v to float64 or nil.
func Float(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if missing(t) {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) {
			return nil
		}
		return f
	}
	return nil
}

// Int converts v to int64 or nil. Decimal text such as "3.0" is accepted
// when it carries no fractional part, matching how numeric extracts spell
// integers after a float round trip.
func Int(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		if math.IsNaN(t) || t != math.Trunc(t) {
			return nil
		}
		return int64(t)
	case string:
		s := strings.TrimSpace(t)
		if missing(s) {
			return nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f)
		}
		return nil
	}
	return nil
}

// timeLayouts are tried in order when parsing freeform timestamp text.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// TimeUTC converts v to a UTC time.Time or nil. Reapplying it to an
// already-parsed time only converts the location, so the function is
// idempotent on its own output.
func TimeUTC(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t.UTC()
	case string:
		s := strings.TrimSpace(t)
		if missing(s) {
			return nil
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC()
			}
		}
		return nil
	}
	return nil
}

// Text converts v to a string or nil. Absent markers become an explicit
// NULL rather than the literal "nan"/"None" text.
func Text(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if missing(t) {
			return nil
		}
		return t
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return nil
}
