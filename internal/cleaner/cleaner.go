// Package cleaner provides the per-entity cleaning passes. Each cleaner is
// a pure transformer chain: it reshapes cell types and drops duplicate
// rows, but performs no I/O — persistence belongs to the orchestrator.
package cleaner

import (
	"secmar/internal/schema"
	"secmar/internal/transformer"
	"secmar/internal/transformer/builtin"
	"secmar/pkg/records"
)

func fields(kind schema.Kind, names ...string) map[string]schema.Kind {
	m := make(map[string]schema.Kind, len(names))
	for _, n := range names {
		m[n] = kind
	}
	return m
}

func merge(ms ...map[string]schema.Kind) map[string]schema.Kind {
	out := map[string]schema.Kind{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Operations cleans an operation batch: the two alert/end timestamps are
// parsed as UTC instants, the meteorological and position columns as
// floats, numero_sitrep as a nullable integer, and the sixteen free-text
// classification columns as nullable text. Columns absent from the extract
// are skipped.
func Operations(in []records.Record) []records.Record {
	chain := transformer.Chain{
		builtin.Normalize{},
		builtin.Coerce{Fields: merge(
			fields(schema.TimestampUTC, schema.OperationTimestampColumns...),
			fields(schema.Float, schema.OperationNumericColumns...),
			fields(schema.NullableInteger, "numero_sitrep"),
			fields(schema.Text, schema.OperationTextColumns...),
		)},
	}
	return chain.Apply(in)
}

// Flotteurs cleans a flotteur batch. Exact duplicate rows are collapsed
// first, then numero_ordre is parsed as a nullable integer and the
// descriptive columns as text.
func Flotteurs(in []records.Record) []records.Record {
	chain := transformer.Chain{
		builtin.Normalize{},
		builtin.DeDup{},
		builtin.Coerce{Fields: merge(
			fields(schema.NullableInteger, "numero_ordre"),
			fields(schema.Text, schema.FlotteurTextColumns...),
		)},
	}
	return chain.Apply(in)
}

// ResultatsHumain cleans a human-outcome batch: the outcome and category
// text columns are harmonized (including the legacy resultat_flotteur
// spelling some extracts carry).
func ResultatsHumain(in []records.Record) []records.Record {
	chain := transformer.Chain{
		builtin.Normalize{},
		builtin.Coerce{Fields: fields(schema.Text,
			append([]string{"resultat_flotteur"}, schema.ResultatTextColumns...)...,
		)},
	}
	return chain.Apply(in)
}
