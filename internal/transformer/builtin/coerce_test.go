package builtin

import (
	"reflect"
	"testing"

	"secmar/internal/schema"
	"secmar/pkg/records"
)

func TestCoerceSkipsAbsentFields(t *testing.T) {
	in := []records.Record{{"latitude": "48.85"}}
	c := Coerce{Fields: map[string]schema.Kind{
		"latitude":  schema.Float,
		"longitude": schema.Float, // absent from the record
	}}
	got := c.Apply(in)
	want := []records.Record{{"latitude": 48.85}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestCoerceMalformedNeverAbortsBatch(t *testing.T) {
	in := []records.Record{
		{"latitude": "abc", "longitude": "12.5"},
		{"latitude": "44.1", "longitude": "xyz"},
	}
	c := Coerce{Fields: map[string]schema.Kind{
		"latitude":  schema.Float,
		"longitude": schema.Float,
	}}
	got := c.Apply(in)
	want := []records.Record{
		{"latitude": nil, "longitude": 12.5},
		{"latitude": 44.1, "longitude": nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestNormalizeTrimsAndComposes(t *testing.T) {
	// "e" + combining acute vs precomposed "é" must normalize identically.
	in := []records.Record{
		{"evenement": "  chavirement  "},
		{"evenement": "opération"},
	}
	got := Normalize{}.Apply(in)
	if got[0]["evenement"] != "chavirement" {
		t.Errorf("trim: got %q", got[0]["evenement"])
	}
	if got[1]["evenement"] != "opération" {
		t.Errorf("nfc: got %q", got[1]["evenement"])
	}
}
