// Package schema declares the typed column contracts for the three SECMAR
// entities and validates cleaned batches against them.
//
// A Contract is the single source of truth for an entity: the coercion
// layer, the intermediate-artifact reader, the validator, and the loader
// all consume the same Column list instead of loosely typed tag maps.
package schema

import "fmt"

// Kind is the semantic column type understood by the pipeline.
type Kind int

const (
	Integer Kind = iota
	NullableInteger
	Float
	Text
	TimestampUTC
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case NullableInteger:
		return "nullable-integer"
	case Float:
		return "float"
	case Text:
		return "text"
	case TimestampUTC:
		return "timestamp-utc"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Column describes one column's type, nullability and numeric bounds.
// Min/Max are inclusive; a nil bound is unchecked.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
	Min      *float64
	Max      *float64
}

// Contract is the declarative schema for one entity batch.
type Contract struct {
	Name    string // schema name used in failure reports
	Table   string // target relational table
	Columns []Column
}

// ColumnNames returns the declared column order.
func (c Contract) ColumnNames() []string {
	out := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		out[i] = col.Name
	}
	return out
}

// TypeMap returns column name → Kind for every non-timestamp column.
// Timestamp columns are listed separately by DateColumns because the
// artifact reader parses them with the date path.
func (c Contract) TypeMap() map[string]Kind {
	m := make(map[string]Kind, len(c.Columns))
	for _, col := range c.Columns {
		if col.Kind == TimestampUTC {
			continue
		}
		m[col.Name] = col.Kind
	}
	return m
}

// DateColumns returns the names of TimestampUTC columns.
func (c Contract) DateColumns() []string {
	var out []string
	for _, col := range c.Columns {
		if col.Kind == TimestampUTC {
			out = append(out, col.Name)
		}
	}
	return out
}

func ptr(f float64) *float64 { return &f }

// Column groups consumed by the cleaners. The cleaners skip any of these
// that are absent from a partial extract.
var (
	OperationTimestampColumns = []string{
		"date_heure_reception_alerte",
		"date_heure_fin_operation",
	}
	OperationNumericColumns = []string{
		"latitude", "longitude",
		"vent_direction", "vent_force", "mer_force",
	}
	OperationTextColumns = []string{
		"type_operation", "pourquoi_alerte", "moyen_alerte", "qui_alerte",
		"categorie_qui_alerte", "cross", "departement", "evenement",
		"categorie_evenement", "autorite", "seconde_autorite",
		"zone_responsabilite", "vent_direction_categorie",
		"cross_sitrep", "fuseau_horaire", "systeme_source",
	}
	FlotteurTextColumns = []string{
		"pavillon", "resultat_flotteur", "type_flotteur",
		"categorie_flotteur", "numero_immatriculation",
	}
	ResultatTextColumns = []string{
		"categorie_personne", "resultat_humain",
	}
)

// Operations is the contract validated before loading the operation table.
// The source header "cross" is renamed to "cross_type" during rehydration,
// so the contract knows only the destination name.
func Operations() Contract {
	cols := []Column{
		{Name: "operation_id", Kind: Integer},
	}
	for _, name := range []string{
		"type_operation", "pourquoi_alerte", "moyen_alerte", "qui_alerte",
		"categorie_qui_alerte", "cross_type", "departement", "evenement",
		"categorie_evenement", "autorite", "seconde_autorite",
		"zone_responsabilite", "vent_direction_categorie",
		"cross_sitrep", "fuseau_horaire", "systeme_source",
	} {
		cols = append(cols, Column{Name: name, Kind: Text, Nullable: true})
	}
	cols = append(cols,
		Column{Name: "latitude", Kind: Float, Nullable: true, Min: ptr(-90), Max: ptr(90)},
		Column{Name: "longitude", Kind: Float, Nullable: true, Min: ptr(-180), Max: ptr(180)},
		Column{Name: "vent_direction", Kind: Float, Nullable: true, Min: ptr(0), Max: ptr(360)},
		Column{Name: "vent_force", Kind: Float, Nullable: true, Min: ptr(0)},
		Column{Name: "mer_force", Kind: Float, Nullable: true, Min: ptr(0)},
		Column{Name: "date_heure_reception_alerte", Kind: TimestampUTC, Nullable: true},
		Column{Name: "date_heure_fin_operation", Kind: TimestampUTC, Nullable: true},
		// numero_sitrep is inconsistently typed across source variants;
		// the pipeline settles on a nullable integer and treats it as an
		// opaque identifier.
		Column{Name: "numero_sitrep", Kind: NullableInteger, Nullable: true},
	)
	return Contract{Name: "operations", Table: "operation", Columns: cols}
}

// Flotteurs is the contract for the flotteurs table.
func Flotteurs() Contract {
	cols := []Column{
		{Name: "operation_id", Kind: Integer},
		{Name: "numero_ordre", Kind: NullableInteger, Nullable: true},
	}
	for _, name := range FlotteurTextColumns {
		cols = append(cols, Column{Name: name, Kind: Text, Nullable: true})
	}
	return Contract{Name: "flotteurs", Table: "flotteurs", Columns: cols}
}

// ResultatsHumain is the contract for the resultats_humain table.
//
// dont_nombre_blesse <= nombre would be a sensible cross-column rule but
// the upstream data never guaranteed it; it stays unchecked here so known
// historical rows keep loading.
func ResultatsHumain() Contract {
	return Contract{
		Name:  "resultats_humain",
		Table: "resultats_humain",
		Columns: []Column{
			{Name: "operation_id", Kind: Integer},
			{Name: "categorie_personne", Kind: Text, Nullable: true},
			{Name: "resultat_humain", Kind: Text, Nullable: true},
			{Name: "nombre", Kind: NullableInteger, Nullable: true, Min: ptr(0)},
			{Name: "dont_nombre_blesse", Kind: NullableInteger, Nullable: true, Min: ptr(0)},
		},
	}
}
