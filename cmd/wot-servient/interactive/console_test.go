package interactive

import (
	"reflect"
	"testing"

	"github.com/wot-protocol/wot-go/pkg/thing"
)

// TestParseValue tests that console arguments become JSON values and that
// bare words fall back to plain strings.
func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want any
	}{
		{"boolean", []string{"true"}, true},
		{"number", []string{"42"}, float64(42)},
		{"float", []string{"21.5"}, 21.5},
		{"json string", []string{`"warm`, `white"`}, "warm white"},
		{"object", []string{`{"level":`, `3}`}, map[string]any{"level": float64(3)}},
		{"array", []string{"[1,", "2]"}, []any{float64(1), float64(2)}},
		{"null", []string{"null"}, nil},
		{"bare word", []string{"celsius"}, "celsius"},
		{"bare words", []string{"warm", "white"}, "warm white"},
		{"single quoted", []string{"'celsius'"}, "celsius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseValue(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseValue(%v) = %#v, want %#v", tt.args, got, tt.want)
			}
		})
	}
}

// TestParseDataType tests the schema type aliases and the error for
// unknown names.
func TestParseDataType(t *testing.T) {
	tests := []struct {
		in   string
		want thing.DataType
	}{
		{"boolean", thing.TypeBoolean},
		{"bool", thing.TypeBoolean},
		{"integer", thing.TypeInteger},
		{"int", thing.TypeInteger},
		{"number", thing.TypeNumber},
		{"float", thing.TypeNumber},
		{"string", thing.TypeString},
		{"object", thing.TypeObject},
		{"array", thing.TypeArray},
		{"null", thing.TypeNull},
		{"STRING", thing.TypeString},
	}

	for _, tt := range tests {
		got, err := parseDataType(tt.in)
		if err != nil {
			t.Errorf("parseDataType(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDataType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := parseDataType("decimal"); err == nil {
		t.Error("parseDataType(\"decimal\") should return an error")
	}
}

// TestFormatValue tests the compact JSON rendering used by read, invoke
// and watch output.
func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"bool", true, "true"},
		{"number", float64(42), "42"},
		{"string", "warm white", `"warm white"`},
		{"object", map[string]any{"level": 3}, `{"level":3}`},
		{"nil", nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
