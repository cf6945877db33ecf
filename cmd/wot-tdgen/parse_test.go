package main

import (
	"strings"
	"testing"
)

func TestParseThingDescription_Minimal(t *testing.T) {
	js := `{
  "id": "urn:dev:ops:lamp-1",
  "title": "My Lamp",
  "properties": {
    "on": {
      "label": "Power",
      "schema": {"type": "boolean"},
      "writable": true,
      "observable": true,
      "value": false
    }
  }
}`
	td, err := ParseThingDescription([]byte(js))
	if err != nil {
		t.Fatalf("ParseThingDescription failed: %v", err)
	}

	if td.ID != "urn:dev:ops:lamp-1" {
		t.Errorf("id = %q, want urn:dev:ops:lamp-1", td.ID)
	}
	if td.Title != "My Lamp" {
		t.Errorf("title = %q, want My Lamp", td.Title)
	}
	if len(td.Properties) != 1 {
		t.Fatalf("len(properties) = %d, want 1", len(td.Properties))
	}

	p := td.Properties["on"]
	if p.Label != "Power" {
		t.Errorf("label = %q, want Power", p.Label)
	}
	if p.Schema == nil || p.Schema.Type != "boolean" {
		t.Errorf("schema = %+v, want type boolean", p.Schema)
	}
	if !p.Writable {
		t.Error("writable = false, want true")
	}
	if !p.Observable {
		t.Error("observable = false, want true")
	}
	v, ok := p.Value.(bool)
	if !ok || v {
		t.Errorf("value = %v (%T), want false (bool)", p.Value, p.Value)
	}
}

func TestParseThingDescription_AllInteractionKinds(t *testing.T) {
	js := `{
  "title": "Pump",
  "properties": {
    "flow": {"schema": {"type": "number", "unit": "l/min", "minimum": 0, "maximum": 12.5}, "observable": true}
  },
  "actions": {
    "prime": {"label": "Prime", "input": {"type": "integer"}, "output": {"type": "boolean"}}
  },
  "events": {
    "dry-run": {"label": "Dry Run", "data": {"type": "string", "enum": ["warning", "fault"]}}
  }
}`
	td, err := ParseThingDescription([]byte(js))
	if err != nil {
		t.Fatalf("ParseThingDescription failed: %v", err)
	}

	flow := td.Properties["flow"]
	if flow.Schema.Unit != "l/min" {
		t.Errorf("unit = %q, want l/min", flow.Schema.Unit)
	}
	if flow.Schema.Minimum == nil || *flow.Schema.Minimum != 0 {
		t.Errorf("minimum = %v, want 0", flow.Schema.Minimum)
	}
	if flow.Schema.Maximum == nil || *flow.Schema.Maximum != 12.5 {
		t.Errorf("maximum = %v, want 12.5", flow.Schema.Maximum)
	}

	prime := td.Actions["prime"]
	if prime.Input == nil || prime.Input.Type != "integer" {
		t.Errorf("input = %+v, want type integer", prime.Input)
	}
	if prime.Output == nil || prime.Output.Type != "boolean" {
		t.Errorf("output = %+v, want type boolean", prime.Output)
	}

	dry := td.Events["dry-run"]
	if dry.Data == nil || dry.Data.Type != "string" {
		t.Errorf("data = %+v, want type string", dry.Data)
	}
	if len(dry.Data.Enum) != 2 {
		t.Errorf("len(enum) = %d, want 2", len(dry.Data.Enum))
	}
}

func TestParseThingDescription_NoSchema(t *testing.T) {
	js := `{
  "title": "Box",
  "properties": {"anything": {"writable": true}},
  "actions": {"poke": {}}
}`
	td, err := ParseThingDescription([]byte(js))
	if err != nil {
		t.Fatalf("ParseThingDescription failed: %v", err)
	}
	if td.Properties["anything"].Schema != nil {
		t.Errorf("schema = %+v, want nil", td.Properties["anything"].Schema)
	}
	if td.Actions["poke"].Input != nil {
		t.Errorf("input = %+v, want nil", td.Actions["poke"].Input)
	}
}

func TestParseThingDescription_MissingTitle(t *testing.T) {
	js := `{"properties": {"on": {"schema": {"type": "boolean"}}}}`
	_, err := ParseThingDescription([]byte(js))
	if err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestParseThingDescription_EmptyName(t *testing.T) {
	js := `{"title": "Lamp", "properties": {"": {"schema": {"type": "boolean"}}}}`
	_, err := ParseThingDescription([]byte(js))
	if err == nil {
		t.Fatal("expected error for empty interaction name")
	}
	if !strings.Contains(err.Error(), "empty name") {
		t.Errorf("error = %v, want empty name", err)
	}
}

func TestParseThingDescription_DuplicateNameAcrossKinds(t *testing.T) {
	js := `{
  "title": "Lamp",
  "properties": {"toggle": {"schema": {"type": "boolean"}}},
  "actions": {"toggle": {}}
}`
	_, err := ParseThingDescription([]byte(js))
	if err == nil {
		t.Fatal("expected error for interaction name used by two kinds")
	}
	if !strings.Contains(err.Error(), "used by both") {
		t.Errorf("error = %v, want duplicate name", err)
	}
}

func TestParseThingDescription_UnknownSchemaType(t *testing.T) {
	js := `{"title": "Lamp", "properties": {"on": {"schema": {"type": "decimal"}}}}`
	_, err := ParseThingDescription([]byte(js))
	if err == nil {
		t.Fatal("expected error for unknown schema type")
	}
	if !strings.Contains(err.Error(), `unknown schema type "decimal"`) {
		t.Errorf("error = %v, want unknown schema type", err)
	}
}

func TestParseThingDescription_InvalidJSON(t *testing.T) {
	_, err := ParseThingDescription([]byte(`{"title": `))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
