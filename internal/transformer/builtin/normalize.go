package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"secmar/pkg/records"
)

// Normalize trims surrounding whitespace and applies Unicode NFC to every
// string cell. The source extracts mix composed and decomposed accented
// forms ("opération" spelled two ways), which otherwise defeats exact-row
// de-duplication and enum-style reporting downstream.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			if s, ok := v.(string); ok {
				r[k] = norm.NFC.String(strings.TrimSpace(s))
			}
		}
	}
	return in
}
