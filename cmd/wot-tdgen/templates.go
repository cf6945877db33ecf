package main

import (
	"fmt"
	"strings"
	"text/template"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	headerTmpl +
		constantsTmpl +
		setupTmpl +
		propertyTmpl +
		actionTmpl +
		eventTmpl +
		helpersTmpl,
))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// --- Template data types ---

// fileData holds pre-computed data for one generated wrapper file.
type fileData struct {
	Package    string
	Title      string
	Properties []propertyData
	Actions    []actionData
	Events     []eventData

	// Which bottom-of-file helpers the generated code needs.
	NeedsF64       bool
	NeedsToInt64   bool
	NeedsToFloat64 bool
}

// propertyData holds pre-computed data for one property's helpers.
type propertyData struct {
	Name      string // interaction name, e.g. "brightness"
	GoName    string // identifier stem, e.g. "Brightness"
	ConstName string // e.g. "PropertyBrightness"
	DefExpr   string // thing.PropertyDefinition literal
	ReadType  string // Go type of the read helper result
	Zero      string // zero value expression for error returns
	Mode      string // value narrowing: "assert", "int", "float", "any"
	Writable  bool
}

// actionData holds pre-computed data for one action's helper.
type actionData struct {
	Name      string
	GoName    string
	ConstName string
	DefExpr   string
	HasInput  bool
	InputType string
}

// eventData holds pre-computed data for one event's helper.
type eventData struct {
	Name        string
	GoName      string
	ConstName   string
	DefExpr     string
	PayloadType string
}

// --- Template definitions ---

const headerTmpl = `{{define "header"}}
// Code generated by wot-tdgen. DO NOT EDIT.

// Package {{.Package}} provides typed access to the {{quote .Title}} thing.
package {{.Package}}

import (
"context"
"fmt"

"github.com/wot-protocol/wot-go/pkg/exposed"
"github.com/wot-protocol/wot-go/pkg/thing"
)

// Title is the thing title from the source description.
const Title = {{quote .Title}}

{{end}}`

const constantsTmpl = `{{define "constants"}}
// Interaction names.
const (
{{- range .Properties}}
{{.ConstName}} = {{quote .Name}}
{{- end}}
{{- range .Actions}}
{{.ConstName}} = {{quote .Name}}
{{- end}}
{{- range .Events}}
{{.ConstName}} = {{quote .Name}}
{{- end}}
)

{{end}}`

const setupTmpl = `{{define "setup"}}
// Setup adds every interaction of the {{quote .Title}} description to et.
func Setup(et *exposed.ExposedThing) error {
{{- range .Properties}}
if err := et.AddProperty({{.ConstName}}, {{.DefExpr}}); err != nil {
return err
}
{{- end}}
{{- range .Actions}}
if err := et.AddAction({{.ConstName}}, {{.DefExpr}}); err != nil {
return err
}
{{- end}}
{{- range .Events}}
if err := et.AddEvent({{.ConstName}}, {{.DefExpr}}); err != nil {
return err
}
{{- end}}
return nil
}

{{end}}`

const propertyTmpl = `{{define "property"}}
// Read{{.GoName}} reads the {{quote .Name}} property.
{{- if eq .Mode "any"}}
func Read{{.GoName}}(ctx context.Context, et *exposed.ExposedThing) (any, error) {
return et.ReadProperty(ctx, {{.ConstName}})
}
{{- else}}
func Read{{.GoName}}(ctx context.Context, et *exposed.ExposedThing) ({{.ReadType}}, error) {
v, err := et.ReadProperty(ctx, {{.ConstName}})
if err != nil {
return {{.Zero}}, err
}
{{- if eq .Mode "assert"}}
typed, ok := v.({{.ReadType}})
{{- else if eq .Mode "int"}}
typed, ok := toInt64(v)
{{- else if eq .Mode "float"}}
typed, ok := toFloat64(v)
{{- end}}
if !ok {
return {{.Zero}}, fmt.Errorf("property %q: unexpected type %T", {{.ConstName}}, v)
}
return typed, nil
}
{{- end}}
{{- if .Writable}}

// Write{{.GoName}} writes the {{quote .Name}} property.
func Write{{.GoName}}(ctx context.Context, et *exposed.ExposedThing, value {{.ReadType}}) error {
return et.WriteProperty(ctx, {{.ConstName}}, value)
}
{{- end}}

{{end}}`

const actionTmpl = `{{define "action"}}
// Invoke{{.GoName}} invokes the {{quote .Name}} action.
{{- if .HasInput}}
func Invoke{{.GoName}}(ctx context.Context, et *exposed.ExposedThing, input {{.InputType}}) (any, error) {
return et.InvokeAction(ctx, {{.ConstName}}, input)
}
{{- else}}
func Invoke{{.GoName}}(ctx context.Context, et *exposed.ExposedThing) (any, error) {
return et.InvokeAction(ctx, {{.ConstName}}, nil)
}
{{- end}}

{{end}}`

const eventTmpl = `{{define "event"}}
// Emit{{.GoName}} emits the {{quote .Name}} event.
func Emit{{.GoName}}(et *exposed.ExposedThing, payload {{.PayloadType}}) error {
return et.EmitEvent({{.ConstName}}, payload)
}

{{end}}`

const helpersTmpl = `{{define "helpers"}}
{{- if .NeedsF64}}
func f64(v float64) *float64 { return &v }

{{end}}
{{- if .NeedsToInt64}}
// toInt64 narrows JSON and Go numeric values to int64.
func toInt64(v any) (int64, bool) {
switch n := v.(type) {
case int64:
return n, true
case int:
return int64(n), true
case float64:
return int64(n), true
}
return 0, false
}

{{end}}
{{- if .NeedsToFloat64}}
// toFloat64 widens JSON and Go numeric values to float64.
func toFloat64(v any) (float64, bool) {
switch n := v.(type) {
case float64:
return n, true
case int64:
return float64(n), true
case int:
return float64(n), true
}
return 0, false
}

{{end}}
{{- end}}`
