package main

import (
	"strings"
	"testing"

	"golang.org/x/tools/imports"
)

func f64p(v float64) *float64 { return &v }

func lampTD() *RawThingDescription {
	return &RawThingDescription{
		ID:    "urn:dev:ops:smart-lamp-1",
		Title: "Smart Lamp",
		Properties: map[string]RawProperty{
			"on": {
				Label:      "Power",
				Schema:     &RawSchema{Type: "boolean"},
				Writable:   true,
				Observable: true,
				Value:      false,
			},
			"brightness": {
				Schema:     &RawSchema{Type: "integer", Unit: "percent", Minimum: f64p(0), Maximum: f64p(100)},
				Writable:   true,
				Observable: true,
				Value:      50.0,
			},
			"color": {
				Schema:   &RawSchema{Type: "string", Enum: []any{"red", "green", "blue"}},
				Writable: true,
			},
			"status": {
				Schema:     &RawSchema{Type: "string"},
				Observable: true,
			},
			"config": {
				Schema:   &RawSchema{Type: "object"},
				Writable: true,
			},
		},
		Actions: map[string]RawAction{
			"fade": {
				Label: "Fade",
				Input: &RawSchema{Type: "integer"},
			},
			"toggle": {},
		},
		Events: map[string]RawEvent{
			"overheated": {
				Data: &RawSchema{Type: "number", Unit: "celsius"},
			},
		},
	}
}

func TestGenerateHeader(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "// Code generated by wot-tdgen. DO NOT EDIT.")
	mustContain(t, output, `// Package smartlamp provides typed access to the "Smart Lamp" thing.`)
	mustContain(t, output, "package smartlamp")
	mustContain(t, output, `"github.com/wot-protocol/wot-go/pkg/exposed"`)
	mustContain(t, output, `const Title = "Smart Lamp"`)
}

// TestGenerateFormats runs the generated source through the same gofmt
// pass the tool applies before writing, which doubles as a syntax check.
func TestGenerateFormats(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := imports.Process("smartlamp_gen.go", []byte(output), nil); err != nil {
		t.Fatalf("Generated source does not parse: %v", err)
	}
}

func TestGenerateNameConstants(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, `PropertyOn = "on"`)
	mustContain(t, output, `PropertyBrightness = "brightness"`)
	mustContain(t, output, `PropertyColor = "color"`)
	mustContain(t, output, `ActionFade = "fade"`)
	mustContain(t, output, `ActionToggle = "toggle"`)
	mustContain(t, output, `EventOverheated = "overheated"`)
}

func TestGenerateSetup(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "func Setup(et *exposed.ExposedThing) error {")
	mustContain(t, output, "if err := et.AddProperty(PropertyOn, thing.PropertyDefinition{")
	mustContain(t, output, `Label: "Power",`)
	mustContain(t, output, "Schema: &thing.DataSchema{Type: thing.TypeBoolean},")
	mustContain(t, output, "Writable: true,")
	mustContain(t, output, "Observable: true,")
	mustContain(t, output, "Value: false,")

	// Bounds render through the f64 helper, seeded numbers keep a
	// decimal marker so they stay float64 in Go source.
	mustContain(t, output, `Schema: &thing.DataSchema{Type: thing.TypeInteger, Unit: "percent", Minimum: f64(0), Maximum: f64(100)},`)
	mustContain(t, output, "Value: 50.0,")

	mustContain(t, output, `Schema: &thing.DataSchema{Type: thing.TypeString, Enum: []any{"red", "green", "blue"}},`)

	mustContain(t, output, "if err := et.AddAction(ActionFade, thing.ActionDefinition{")
	mustContain(t, output, "Input: &thing.DataSchema{Type: thing.TypeInteger},")
	mustContain(t, output, "if err := et.AddEvent(EventOverheated, thing.EventDefinition{")
	mustContain(t, output, `Data: &thing.DataSchema{Type: thing.TypeNumber, Unit: "celsius"},`)
}

func TestGenerateTypedReaders(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Boolean and string schemas assert directly.
	mustContain(t, output, "func ReadOn(ctx context.Context, et *exposed.ExposedThing) (bool, error)")
	mustContain(t, output, "typed, ok := v.(bool)")
	mustContain(t, output, "func ReadColor(ctx context.Context, et *exposed.ExposedThing) (string, error)")
	mustContain(t, output, "typed, ok := v.(string)")

	// Integer schemas narrow through toInt64 because JSON decoding
	// delivers numbers as float64.
	mustContain(t, output, "func ReadBrightness(ctx context.Context, et *exposed.ExposedThing) (int64, error)")
	mustContain(t, output, "typed, ok := toInt64(v)")
	mustContain(t, output, `return 0, fmt.Errorf("property %q: unexpected type %T", PropertyBrightness, v)`)

	// Object schemas pass through untyped.
	mustContain(t, output, "func ReadConfig(ctx context.Context, et *exposed.ExposedThing) (any, error)")
	mustContain(t, output, "return et.ReadProperty(ctx, PropertyConfig)")
}

func TestGenerateWriters(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "func WriteOn(ctx context.Context, et *exposed.ExposedThing, value bool) error")
	mustContain(t, output, "func WriteBrightness(ctx context.Context, et *exposed.ExposedThing, value int64) error")
	mustContain(t, output, "return et.WriteProperty(ctx, PropertyBrightness, value)")

	// Read-only properties get no write helper.
	mustNotContain(t, output, "func WriteStatus(")
}

func TestGenerateActionHelpers(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "func InvokeFade(ctx context.Context, et *exposed.ExposedThing, input int64) (any, error)")
	mustContain(t, output, "return et.InvokeAction(ctx, ActionFade, input)")

	mustContain(t, output, "func InvokeToggle(ctx context.Context, et *exposed.ExposedThing) (any, error)")
	mustContain(t, output, "return et.InvokeAction(ctx, ActionToggle, nil)")
}

func TestGenerateEventHelpers(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "func EmitOverheated(et *exposed.ExposedThing, payload float64) error")
	mustContain(t, output, "return et.EmitEvent(EventOverheated, payload)")
}

func TestGenerateNumberProperty(t *testing.T) {
	td := &RawThingDescription{
		Title: "Thermometer",
		Properties: map[string]RawProperty{
			"temperature": {
				Schema:     &RawSchema{Type: "number", Unit: "celsius"},
				Observable: true,
			},
		},
	}
	output, err := Generate(td, "thermometer")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "func ReadTemperature(ctx context.Context, et *exposed.ExposedThing) (float64, error)")
	mustContain(t, output, "typed, ok := toFloat64(v)")
	mustContain(t, output, "func toFloat64(v any) (float64, bool)")
	mustNotContain(t, output, "func WriteTemperature(")
}

func TestGenerateHelperFunctions(t *testing.T) {
	output, err := Generate(lampTD(), "smartlamp")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "func f64(v float64) *float64")
	mustContain(t, output, "func toInt64(v any) (int64, bool)")

	// No number-typed property, so the float narrowing helper is omitted.
	mustNotContain(t, output, "func toFloat64(")
}

func TestGenerateHelpersOmittedWhenUnused(t *testing.T) {
	td := &RawThingDescription{
		Title: "Switch",
		Properties: map[string]RawProperty{
			"on": {Schema: &RawSchema{Type: "boolean"}, Writable: true, Observable: true},
		},
	}
	output, err := Generate(td, "sw")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustNotContain(t, output, "func f64(")
	mustNotContain(t, output, "func toInt64(")
	mustNotContain(t, output, "func toFloat64(")
}

func TestGenerateDashedNames(t *testing.T) {
	td := &RawThingDescription{
		Title: "Sensor",
		Events: map[string]RawEvent{
			"threshold-crossed": {Data: &RawSchema{Type: "number"}},
		},
	}
	output, err := Generate(td, "sensor")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, `EventThresholdCrossed = "threshold-crossed"`)
	mustContain(t, output, "func EmitThresholdCrossed(et *exposed.ExposedThing, payload float64) error")
}

func TestGenerateSeededValueLiterals(t *testing.T) {
	td := &RawThingDescription{
		Title: "Seeds",
		Properties: map[string]RawProperty{
			"mode":   {Schema: &RawSchema{Type: "string"}, Value: "auto"},
			"limits": {Schema: &RawSchema{Type: "object"}, Value: map[string]any{"min": 1.0, "max": 10.5, "strict": true}},
			"steps":  {Schema: &RawSchema{Type: "array"}, Value: []any{1.0, 2.0, 3.0}},
		},
	}
	output, err := Generate(td, "seeds")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, `Value: "auto",`)
	mustContain(t, output, `Value: map[string]any{"max": 10.5, "min": 1.0, "strict": true},`)
	mustContain(t, output, "Value: []any{1.0, 2.0, 3.0},")
}

func TestGenerateIdentifierCollision(t *testing.T) {
	td := &RawThingDescription{
		Title: "Collider",
		Properties: map[string]RawProperty{
			"power-level": {Schema: &RawSchema{Type: "integer"}},
			"power_level": {Schema: &RawSchema{Type: "integer"}},
		},
	}
	_, err := Generate(td, "collider")
	if err == nil {
		t.Fatal("expected error for colliding identifiers")
	}
	if !strings.Contains(err.Error(), "same Go identifier") {
		t.Errorf("error = %v, want identifier collision", err)
	}
}

func TestGenerateBadIdentifier(t *testing.T) {
	td := &RawThingDescription{
		Title: "Meter",
		Events: map[string]RawEvent{
			"24h-report": {},
		},
	}
	_, err := Generate(td, "meter")
	if err == nil {
		t.Fatal("expected error for name starting with a digit")
	}
}

func mustContain(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Errorf("output does not contain %q\nOutput (first 3000 chars):\n%s", substr, truncate(output, 3000))
	}
}

func mustNotContain(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Errorf("output should not contain %q", substr)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n... (truncated)"
}
