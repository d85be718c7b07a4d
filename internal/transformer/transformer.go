// Package transformer defines the batch transformation contract used by the
// cleaning stage. Transformers are pure: batch in, batch out, no I/O.
package transformer

import "secmar/pkg/records"

type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers applied left to right.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
