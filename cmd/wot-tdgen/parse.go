package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wot-protocol/wot-go/pkg/thing"
)

// RawThingDescription represents a thing description loaded from JSON.
type RawThingDescription struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Properties map[string]RawProperty `json:"properties"`
	Actions    map[string]RawAction   `json:"actions"`
	Events     map[string]RawEvent    `json:"events"`
}

// RawProperty represents a property affordance definition.
type RawProperty struct {
	Label      string     `json:"label"`
	Schema     *RawSchema `json:"schema"`
	Writable   bool       `json:"writable"`
	Observable bool       `json:"observable"`
	Value      any        `json:"value"`
}

// RawAction represents an action affordance definition.
type RawAction struct {
	Label  string     `json:"label"`
	Input  *RawSchema `json:"input"`
	Output *RawSchema `json:"output"`
}

// RawEvent represents an event affordance definition.
type RawEvent struct {
	Label string     `json:"label"`
	Data  *RawSchema `json:"data"`
}

// RawSchema represents a data schema definition.
type RawSchema struct {
	Type    string   `json:"type"`    // "boolean", "integer", "number", "string", "object", "array", "null"
	Unit    string   `json:"unit"`    // e.g. "percent", "celsius"
	Enum    []any    `json:"enum"`    // fixed value set
	Minimum *float64 `json:"minimum"` // numeric lower bound
	Maximum *float64 `json:"maximum"` // numeric upper bound
}

// ParseThingDescription parses and validates a thing description from
// JSON bytes. Interaction names share one namespace across properties,
// actions, and events, matching the runtime model.
func ParseThingDescription(data []byte) (*RawThingDescription, error) {
	var td RawThingDescription
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("parsing thing description: %w", err)
	}

	if td.Title == "" {
		return nil, fmt.Errorf("thing description missing title")
	}

	seen := make(map[string]string)
	check := func(kind, name string, schemas ...*RawSchema) error {
		if name == "" {
			return fmt.Errorf("%s with empty name", kind)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("interaction name %q used by both %s and %s", name, prev, kind)
		}
		seen[name] = kind

		for _, s := range schemas {
			if s == nil || s.Type == "" {
				continue
			}
			if !thing.DataType(s.Type).Valid() {
				return fmt.Errorf("%s %q: unknown schema type %q", kind, name, s.Type)
			}
		}
		return nil
	}

	for name, p := range td.Properties {
		if err := check("property", name, p.Schema); err != nil {
			return nil, err
		}
	}
	for name, a := range td.Actions {
		if err := check("action", name, a.Input, a.Output); err != nil {
			return nil, err
		}
	}
	for name, e := range td.Events {
		if err := check("event", name, e.Data); err != nil {
			return nil, err
		}
	}

	return &td, nil
}

// LoadThingDescription loads and parses a thing description from a file.
func LoadThingDescription(path string) (*RawThingDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseThingDescription(data)
}
