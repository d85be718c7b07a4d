package schema

import (
	"testing"
	"time"

	"secmar/pkg/records"
)

func opRecord(id int64) records.Record {
	return records.Record{
		"operation_id": id,
		"latitude":     48.85,
		"longitude":    -4.5,
		"vent_force":   2.0,
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	c := Operations()
	batch := []records.Record{
		{"operation_id": int64(1), "latitude": "abc"},      // type violation
		{"operation_id": int64(2), "longitude": float64(200)}, // range violation
	}
	_, errs := c.Validate(batch)
	if errs == nil {
		t.Fatal("expected validation failure")
	}
	if len(errs.Cases) != 2 {
		t.Fatalf("expected both violations reported, got %d: %v", len(errs.Cases), errs.Cases)
	}
	byCol := map[string]Case{}
	for _, cs := range errs.Cases {
		byCol[cs.Column] = cs
	}
	if cs, ok := byCol["latitude"]; !ok || cs.Row != 0 {
		t.Errorf("latitude case missing or wrong row: %+v", cs)
	}
	if cs, ok := byCol["longitude"]; !ok || cs.Row != 1 {
		t.Errorf("longitude case missing or wrong row: %+v", cs)
	}
}

func TestValidateNegativeWindForceIsSoleViolation(t *testing.T) {
	c := Operations()
	batch := []records.Record{{
		"operation_id": int64(42),
		"latitude":     nil,
		"longitude":    12.5,
		"vent_force":   float64(-3),
	}}
	_, errs := c.Validate(batch)
	if errs == nil {
		t.Fatal("expected validation failure")
	}
	if len(errs.Cases) != 1 {
		t.Fatalf("expected exactly one violation, got %v", errs.Cases)
	}
	if cs := errs.Cases[0]; cs.Column != "vent_force" || cs.Row != 0 {
		t.Fatalf("unexpected case %+v", cs)
	}
}

func TestValidateNullPrimaryKeyFailsBatch(t *testing.T) {
	c := Flotteurs()
	batch := []records.Record{
		{"operation_id": int64(1), "numero_ordre": int64(1)},
		{"operation_id": nil, "numero_ordre": int64(2)},
	}
	valid, errs := c.Validate(batch)
	if errs == nil {
		t.Fatal("expected validation failure")
	}
	if valid != nil {
		t.Fatal("no partial acceptance: failed batch must not be returned")
	}
	if errs.Cases[0].Reason != "null in non-nullable column" {
		t.Fatalf("unexpected reason %q", errs.Cases[0].Reason)
	}
}

func TestValidateRequiresUTCTimestamps(t *testing.T) {
	c := Operations()
	paris := time.FixedZone("CET", 3600)
	batch := []records.Record{{
		"operation_id":                int64(1),
		"date_heure_reception_alerte": time.Date(2023, 6, 14, 9, 30, 0, 0, paris),
	}}
	if _, errs := c.Validate(batch); errs == nil {
		t.Fatal("naive/local timestamp must fail validation")
	}

	batch[0]["date_heure_reception_alerte"] = time.Date(2023, 6, 14, 8, 30, 0, 0, time.UTC)
	if _, errs := c.Validate(batch); errs != nil {
		t.Fatalf("UTC timestamp rejected: %v", errs.Cases)
	}
}

func TestValidateSuccessReturnsBatchUnchanged(t *testing.T) {
	c := Operations()
	batch := []records.Record{opRecord(1), opRecord(2)}
	valid, errs := c.Validate(batch)
	if errs != nil {
		t.Fatalf("unexpected failure: %v", errs.Cases)
	}
	if &valid[0] != &batch[0] || len(valid) != len(batch) {
		t.Fatal("batch must be returned unchanged on success")
	}
}

func TestValidateNullableColumnsAcceptNil(t *testing.T) {
	c := ResultatsHumain()
	batch := []records.Record{{
		"operation_id":       int64(5),
		"categorie_personne": nil,
		"resultat_humain":    nil,
		"nombre":             nil,
		"dont_nombre_blesse": nil,
	}}
	if _, errs := c.Validate(batch); errs != nil {
		t.Fatalf("nullable nils rejected: %v", errs.Cases)
	}
}

func TestValidateNegativeCountsRejected(t *testing.T) {
	c := ResultatsHumain()
	batch := []records.Record{{
		"operation_id": int64(5),
		"nombre":       int64(-1),
	}}
	if _, errs := c.Validate(batch); errs == nil {
		t.Fatal("negative nombre must fail")
	}
}
