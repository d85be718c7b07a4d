package cleaner

import (
	"reflect"
	"testing"
	"time"

	"secmar/pkg/records"
)

func TestOperationsCoercesColumns(t *testing.T) {
	in := []records.Record{{
		"operation_id":                "42",
		"latitude":                    "abc",
		"longitude":                   "12.5",
		"vent_force":                  "-3",
		"numero_sitrep":               "17.0",
		"type_operation":              "  SAR  ",
		"date_heure_reception_alerte": "2023-06-14 08:30:00",
	}}
	got := Operations(in)

	r := got[0]
	if r["latitude"] != nil {
		t.Errorf("latitude = %#v, want nil", r["latitude"])
	}
	if r["longitude"] != 12.5 {
		t.Errorf("longitude = %#v, want 12.5", r["longitude"])
	}
	// Negative wind force survives cleaning; the range check belongs to
	// validation, not coercion.
	if r["vent_force"] != float64(-3) {
		t.Errorf("vent_force = %#v, want -3", r["vent_force"])
	}
	if r["numero_sitrep"] != int64(17) {
		t.Errorf("numero_sitrep = %#v, want 17", r["numero_sitrep"])
	}
	if r["type_operation"] != "SAR" {
		t.Errorf("type_operation = %#v", r["type_operation"])
	}
	want := time.Date(2023, 6, 14, 8, 30, 0, 0, time.UTC)
	if !reflect.DeepEqual(r["date_heure_reception_alerte"], want) {
		t.Errorf("date_heure_reception_alerte = %#v, want %v", r["date_heure_reception_alerte"], want)
	}
	// operation_id is not coerced by the cleaner; it is typed during
	// rehydration.
	if r["operation_id"] != "42" {
		t.Errorf("operation_id = %#v, want raw string", r["operation_id"])
	}
}

func TestOperationsSkipsAbsentColumns(t *testing.T) {
	in := []records.Record{{"operation_id": "1"}}
	got := Operations(records.CloneBatch(in))
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("partial extract changed: %#v", got)
	}
}

func TestFlotteursDedupThenCoerce(t *testing.T) {
	in := []records.Record{
		{"operation_id": "1", "numero_ordre": "1", "pavillon": "FR"},
		{"operation_id": "1", "numero_ordre": "1", "pavillon": "FR"},
		{"operation_id": "1", "numero_ordre": "2", "pavillon": ""},
	}
	got := Flotteurs(in)
	want := []records.Record{
		{"operation_id": "1", "numero_ordre": int64(1), "pavillon": "FR"},
		{"operation_id": "1", "numero_ordre": int64(2), "pavillon": nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestFlotteursIdempotent(t *testing.T) {
	in := []records.Record{
		{"operation_id": "1", "numero_ordre": "1", "pavillon": "FR"},
		{"operation_id": "1", "numero_ordre": "1", "pavillon": "FR"},
	}
	once := Flotteurs(in)
	twice := Flotteurs(records.CloneBatch(once))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("clean(clean(x)) != clean(x): %#v vs %#v", once, twice)
	}
}

func TestResultatsHumainTextHarmonized(t *testing.T) {
	in := []records.Record{{
		"operation_id":       "9",
		"categorie_personne": "nan",
		"resultat_humain":    " Personne secourue ",
	}}
	got := ResultatsHumain(in)
	if got[0]["categorie_personne"] != nil {
		t.Errorf("categorie_personne = %#v, want nil", got[0]["categorie_personne"])
	}
	if got[0]["resultat_humain"] != "Personne secourue" {
		t.Errorf("resultat_humain = %#v", got[0]["resultat_humain"])
	}
}
