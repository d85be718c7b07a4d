// Package records defines the batch record type shared by every pipeline
// stage. A Record maps column names to cell values; a nil value is a SQL
// NULL. After cleaning, cell values are one of: float64, int64, time.Time
// (always UTC), string, or nil.
package records

type Record map[string]any

// Clone returns a shallow copy of r. Cell values are immutable scalars, so
// a shallow copy is enough to isolate transformer output from its input.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneBatch clones every record in a batch.
func CloneBatch(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
