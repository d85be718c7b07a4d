package schema

import (
	"fmt"
	"strings"
	"time"

	"secmar/pkg/records"
)

// Case is one validation violation: the offending row (0-based within the
// batch), the column, the raw value, and a human-readable reason.
type Case struct {
	Row    int
	Column string
	Value  any
	Reason string
}

// Errors aggregates every violation found in a single validation pass.
// It implements error so callers can propagate it directly.
type Errors struct {
	Schema string
	Cases  []Case
}

func (e *Errors) Error() string {
	return fmt.Sprintf("schema %q: %d validation failure(s)", e.Schema, len(e.Cases))
}

// Table renders the failure cases as an aligned text table for logging,
// one line per case.
func (e *Errors) Table() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-28s %-24s %s\n", "row", "column", "value", "reason")
	for _, c := range e.Cases {
		fmt.Fprintf(&b, "%-6d %-28s %-24v %s\n", c.Row, c.Column, c.Value, c.Reason)
	}
	return b.String()
}

// Validate checks every record against the contract in one pass. It never
// stops at the first violation: all failing cells across the whole batch
// are collected so the operator sees the full picture at once.
//
// On success the batch is returned unchanged with a nil error. On any
// violation the batch must not be loaded: the whole batch fails, there is
// no partial acceptance.
func (c Contract) Validate(batch []records.Record) ([]records.Record, *Errors) {
	var cases []Case

	for i, rec := range batch {
		for _, col := range c.Columns {
			v, present := rec[col.Name]
			if !present || v == nil {
				if !col.Nullable {
					cases = append(cases, Case{
						Row: i, Column: col.Name, Value: nil,
						Reason: "null in non-nullable column",
					})
				}
				continue
			}

			val, reason := checkKind(col.Kind, v)
			if reason != "" {
				cases = append(cases, Case{Row: i, Column: col.Name, Value: v, Reason: reason})
				continue
			}
			if r := checkRange(col, val); r != "" {
				cases = append(cases, Case{Row: i, Column: col.Name, Value: v, Reason: r})
			}
		}
	}

	if len(cases) > 0 {
		return nil, &Errors{Schema: c.Name, Cases: cases}
	}
	return batch, nil
}

// checkKind verifies the dynamic type of a non-nil cell and returns its
// numeric projection for range checking. A non-empty reason means the cell
// failed the type check.
func checkKind(k Kind, v any) (float64, string) {
	switch k {
	case Integer, NullableInteger:
		if i, ok := v.(int64); ok {
			return float64(i), ""
		}
		if i, ok := v.(int); ok {
			return float64(i), ""
		}
		return 0, fmt.Sprintf("%v (%T) is not an integer", v, v)
	case Float:
		if f, ok := v.(float64); ok {
			return f, ""
		}
		if i, ok := v.(int64); ok {
			return float64(i), ""
		}
		return 0, fmt.Sprintf("%v (%T) is not a float", v, v)
	case Text:
		if _, ok := v.(string); ok {
			return 0, ""
		}
		return 0, fmt.Sprintf("%v (%T) is not text", v, v)
	case TimestampUTC:
		t, ok := v.(time.Time)
		if !ok {
			return 0, fmt.Sprintf("%v (%T) is not a timestamp", v, v)
		}
		if t.Location() != time.UTC {
			return 0, fmt.Sprintf("timestamp %v is not UTC", t)
		}
		return 0, ""
	}
	return 0, ""
}

func checkRange(col Column, val float64) string {
	if col.Kind == Text || col.Kind == TimestampUTC {
		return ""
	}
	if col.Min != nil && val < *col.Min {
		return fmt.Sprintf("%v below minimum %v", val, *col.Min)
	}
	if col.Max != nil && val > *col.Max {
		return fmt.Sprintf("%v above maximum %v", val, *col.Max)
	}
	return ""
}
