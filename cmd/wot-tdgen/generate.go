package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/wot-protocol/wot-go/pkg/thing"
)

// Generate renders the typed Go wrapper for a parsed thing description.
func Generate(td *RawThingDescription, pkgName string) (string, error) {
	data, err := buildFileData(td, pkgName)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	renderTemplate(&b, "header", data)
	renderTemplate(&b, "constants", data)
	renderTemplate(&b, "setup", data)
	for _, p := range data.Properties {
		renderTemplate(&b, "property", p)
	}
	for _, a := range data.Actions {
		renderTemplate(&b, "action", a)
	}
	for _, e := range data.Events {
		renderTemplate(&b, "event", e)
	}
	renderTemplate(&b, "helpers", data)
	return b.String(), nil
}

// buildFileData pre-computes everything the templates need, in a stable
// order so regeneration is reproducible.
func buildFileData(td *RawThingDescription, pkgName string) (*fileData, error) {
	data := &fileData{
		Package: pkgName,
		Title:   td.Title,
	}

	// Generated identifiers must stay unique even when distinct
	// interaction names mangle to the same Go name.
	idents := make(map[string]string)
	claim := func(name, goName string) error {
		if !validIdent(goName) {
			return fmt.Errorf("interaction name %q does not map to a Go identifier", name)
		}
		if prev, ok := idents[goName]; ok {
			return fmt.Errorf("interaction names %q and %q map to the same Go identifier %q", prev, name, goName)
		}
		idents[goName] = name
		return nil
	}

	for _, name := range sortedKeys(td.Properties) {
		p := td.Properties[name]
		ident := goName(name)
		if err := claim(name, ident); err != nil {
			return nil, err
		}

		mode, readType, zero := readMode(p.Schema)
		data.Properties = append(data.Properties, propertyData{
			Name:      name,
			GoName:    ident,
			ConstName: "Property" + ident,
			DefExpr:   propertyDefExpr(p),
			ReadType:  readType,
			Zero:      zero,
			Mode:      mode,
			Writable:  p.Writable,
		})

		switch mode {
		case "int":
			data.NeedsToInt64 = true
		case "float":
			data.NeedsToFloat64 = true
		}
		data.NeedsF64 = data.NeedsF64 || hasBounds(p.Schema)
	}

	for _, name := range sortedKeys(td.Actions) {
		a := td.Actions[name]
		ident := goName(name)
		if err := claim(name, ident); err != nil {
			return nil, err
		}

		_, inputType, _ := readMode(a.Input)
		data.Actions = append(data.Actions, actionData{
			Name:      name,
			GoName:    ident,
			ConstName: "Action" + ident,
			DefExpr:   actionDefExpr(a),
			HasInput:  a.Input != nil,
			InputType: inputType,
		})
		data.NeedsF64 = data.NeedsF64 || hasBounds(a.Input) || hasBounds(a.Output)
	}

	for _, name := range sortedKeys(td.Events) {
		e := td.Events[name]
		ident := goName(name)
		if err := claim(name, ident); err != nil {
			return nil, err
		}

		_, payloadType, _ := readMode(e.Data)
		data.Events = append(data.Events, eventData{
			Name:        name,
			GoName:      ident,
			ConstName:   "Event" + ident,
			DefExpr:     eventDefExpr(e),
			PayloadType: payloadType,
		})
		data.NeedsF64 = data.NeedsF64 || hasBounds(e.Data)
	}

	return data, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// readMode maps a schema to the helper narrowing mode, the Go type, and
// the zero value used on error returns. Object, array, null, and
// unconstrained schemas pass values through as any.
func readMode(s *RawSchema) (mode, goType, zero string) {
	if s == nil {
		return "any", "any", "nil"
	}
	switch thing.DataType(s.Type) {
	case thing.TypeBoolean:
		return "assert", "bool", "false"
	case thing.TypeInteger:
		return "int", "int64", "0"
	case thing.TypeNumber:
		return "float", "float64", "0"
	case thing.TypeString:
		return "assert", "string", `""`
	default:
		return "any", "any", "nil"
	}
}

func hasBounds(s *RawSchema) bool {
	return s != nil && (s.Minimum != nil || s.Maximum != nil)
}

// goName converts an interaction name to an exported identifier stem:
// "brightness" -> "Brightness", "threshold-crossed" -> "ThresholdCrossed".
func goName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case r == '-' || r == '_' || r == ' ':
			upper = true
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validIdent reports whether s is usable as an exported Go identifier.
func validIdent(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// --- Literal rendering ---

func propertyDefExpr(p RawProperty) string {
	var b strings.Builder
	b.WriteString("thing.PropertyDefinition{\n")
	if p.Label != "" {
		fmt.Fprintf(&b, "Label: %q,\n", p.Label)
	}
	if p.Schema != nil {
		fmt.Fprintf(&b, "Schema: %s,\n", schemaExpr(p.Schema))
	}
	fmt.Fprintf(&b, "Writable: %t,\n", p.Writable)
	fmt.Fprintf(&b, "Observable: %t,\n", p.Observable)
	if p.Value != nil {
		fmt.Fprintf(&b, "Value: %s,\n", valueExpr(p.Value))
	}
	b.WriteString("}")
	return b.String()
}

func actionDefExpr(a RawAction) string {
	var b strings.Builder
	b.WriteString("thing.ActionDefinition{\n")
	if a.Label != "" {
		fmt.Fprintf(&b, "Label: %q,\n", a.Label)
	}
	if a.Input != nil {
		fmt.Fprintf(&b, "Input: %s,\n", schemaExpr(a.Input))
	}
	if a.Output != nil {
		fmt.Fprintf(&b, "Output: %s,\n", schemaExpr(a.Output))
	}
	b.WriteString("}")
	return b.String()
}

func eventDefExpr(e RawEvent) string {
	var b strings.Builder
	b.WriteString("thing.EventDefinition{\n")
	if e.Label != "" {
		fmt.Fprintf(&b, "Label: %q,\n", e.Label)
	}
	if e.Data != nil {
		fmt.Fprintf(&b, "Data: %s,\n", schemaExpr(e.Data))
	}
	b.WriteString("}")
	return b.String()
}

// schemaExpr renders a *thing.DataSchema literal.
func schemaExpr(s *RawSchema) string {
	if s == nil {
		return "nil"
	}
	var parts []string
	if s.Type != "" {
		parts = append(parts, "Type: "+dataTypeExpr(s.Type))
	}
	if s.Unit != "" {
		parts = append(parts, fmt.Sprintf("Unit: %q", s.Unit))
	}
	if len(s.Enum) > 0 {
		parts = append(parts, "Enum: "+valueExpr(s.Enum))
	}
	if s.Minimum != nil {
		parts = append(parts, "Minimum: f64("+floatArg(*s.Minimum)+")")
	}
	if s.Maximum != nil {
		parts = append(parts, "Maximum: f64("+floatArg(*s.Maximum)+")")
	}
	return "&thing.DataSchema{" + strings.Join(parts, ", ") + "}"
}

// dataTypeExpr maps a schema type string to the thing package constant.
func dataTypeExpr(t string) string {
	switch thing.DataType(t) {
	case thing.TypeBoolean:
		return "thing.TypeBoolean"
	case thing.TypeInteger:
		return "thing.TypeInteger"
	case thing.TypeNumber:
		return "thing.TypeNumber"
	case thing.TypeString:
		return "thing.TypeString"
	case thing.TypeObject:
		return "thing.TypeObject"
	case thing.TypeArray:
		return "thing.TypeArray"
	case thing.TypeNull:
		return "thing.TypeNull"
	default:
		// Parse validation rejects unknown types before we get here.
		return fmt.Sprintf("thing.DataType(%q)", t)
	}
}

// valueExpr renders a decoded JSON value as a Go literal. JSON numbers
// stay float64 so the seeded runtime value matches what a protocol
// binding would deliver.
func valueExpr(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(x)
	case string:
		return strconv.Quote(x)
	case float64:
		return floatLit(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = valueExpr(e)
		}
		return "[]any{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		keys := sortedKeys(x)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, valueExpr(x[k]))
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%#v", v)
	}
}

// floatLit renders a float64 literal, keeping a decimal marker so the
// value stays a float64 in the generated source.
func floatLit(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// floatArg renders a float64 argument for f64. The conversion is
// implicit, so no decimal marker is needed.
func floatArg(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
