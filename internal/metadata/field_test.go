package metadata

import (
	"reflect"
	"testing"
)

func TestDecodeBoolean(t *testing.T) {
	// An unchecked checkbox is absent from form data and must decode to
	// false, never to a missing value.
	v, err := DecodeValue(TypeBoolean, "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != false {
		t.Fatalf("absent checkbox: expected false, got %v", v)
	}

	v, _ = DecodeValue(TypeBoolean, "on", true)
	if v != true {
		t.Fatalf("checked checkbox: expected true, got %v", v)
	}

	v, _ = DecodeValue(TypeBoolean, "yes", true)
	if v != false {
		t.Fatalf("non-checkbox token: expected false, got %v", v)
	}
}

func TestDecodeNumber(t *testing.T) {
	v, err := DecodeValue(TypeNumber, "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Fatalf("empty number: expected nil, got %v", v)
	}

	v, err = DecodeValue(TypeNumber, "42", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(42) {
		t.Fatalf("expected int64(42), got %v (%T)", v, v)
	}

	if _, err = DecodeValue(TypeNumber, "not-a-number", true); err == nil {
		t.Fatal("non-numeric input: expected a coercion error")
	}
}

func TestDecodeJSON(t *testing.T) {
	v, err := DecodeValue(TypeJSON, "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Fatalf("empty json: expected nil, got %v", v)
	}

	v, _ = DecodeValue(TypeJSON, `{"a": 1, "b": [true]}`, true)
	want := map[string]any{"a": float64(1), "b": []any{true}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("expected %v, got %v", want, v)
	}

	// Parse failures keep the raw string so the error surfaces downstream
	// as a validation failure, not a crash.
	v, err = DecodeValue(TypeJSON, "{broken", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "{broken" {
		t.Fatalf("expected raw string fallback, got %v", v)
	}
}

func TestDecodePassthroughTypes(t *testing.T) {
	for _, typ := range []FieldType{TypeString, TypeText, TypeEmail, TypeSelect, TypeDate, TypeDateTime, TypeStatus} {
		v, err := DecodeValue(typ, "raw value", true)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", typ, err)
		}
		if v != "raw value" {
			t.Fatalf("%s: expected passthrough, got %v", typ, v)
		}
	}
}

func TestDecodeUnknownTypeFallsBackToString(t *testing.T) {
	v, err := DecodeValue(FieldType("mystery"), "x", true)
	if err != nil || v != "x" {
		t.Fatalf("expected string passthrough, got %v, %v", v, err)
	}
	if Widget(FieldType("mystery")) != WidgetInput {
		t.Fatalf("expected input widget for unknown type")
	}
}

// Every declared type must resolve both a decode rule and a widget from the
// same table.
func TestTypeTableComplete(t *testing.T) {
	types := []FieldType{
		TypeString, TypeNumber, TypeBoolean, TypeDate, TypeDateTime,
		TypeText, TypeEmail, TypeSelect, TypeJSON, TypeStatus,
	}
	if len(types) != len(typeRules) {
		t.Fatalf("type table has %d entries, expected %d", len(typeRules), len(types))
	}
	for _, typ := range types {
		if _, ok := typeRules[typ]; !ok {
			t.Fatalf("type %s missing from dispatch table", typ)
		}
		if Widget(typ) == "" {
			t.Fatalf("type %s has no widget", typ)
		}
	}
}

// Encoding a value into its form representation and decoding it back must
// yield the original for every non-json type, and a structurally equal value
// for json.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		typ   FieldType
		value any
	}{
		{TypeString, "hello"},
		{TypeText, "long\nbody"},
		{TypeEmail, "a@b.co"},
		{TypeSelect, "draft"},
		{TypeDate, "2024-03-01"},
		{TypeDateTime, "2024-03-01T10:30"},
		{TypeStatus, "published"},
		{TypeBoolean, true},
		{TypeBoolean, false},
		{TypeNumber, int64(7)},
		{TypeJSON, map[string]any{"k": "v", "n": float64(3)}},
	}

	for _, tc := range cases {
		raw := EncodeValue(tc.typ, tc.value)
		decoded, err := DecodeValue(tc.typ, raw, raw != "")
		if err != nil {
			t.Fatalf("%s: round trip error: %v", tc.typ, err)
		}
		if tc.typ == TypeNumber && raw == "" {
			continue
		}
		if !reflect.DeepEqual(decoded, tc.value) {
			t.Fatalf("%s: round trip %v -> %q -> %v", tc.typ, tc.value, raw, decoded)
		}
	}
}
