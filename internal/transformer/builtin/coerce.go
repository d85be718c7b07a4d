// Package builtin contains the reusable transformers the entity cleaners
// are composed from.
package builtin

import (
	"secmar/internal/coerce"
	"secmar/internal/schema"
	"secmar/pkg/records"
)

// Coerce converts the listed fields to their target kind, cell by cell.
// A field absent from a record is skipped silently, which keeps the
// cleaners forward-compatible with partial extracts. A cell that cannot be
// converted becomes nil; conversion failure never aborts the batch.
type Coerce struct {
	Fields map[string]schema.Kind
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Fields) == 0 {
		return in
	}
	for _, r := range in {
		for field, kind := range c.Fields {
			v, ok := r[field]
			if !ok {
				continue
			}
			switch kind {
			case schema.Float:
				r[field] = coerce.Float(v)
			case schema.Integer, schema.NullableInteger:
				r[field] = coerce.Int(v)
			case schema.TimestampUTC:
				r[field] = coerce.TimeUTC(v)
			case schema.Text:
				r[field] = coerce.Text(v)
			}
		}
	}
	return in
}
