package thing

// InteractionKind identifies the kind of an interaction affordance. The
// values double as the changeType strings in description-change payloads.
type InteractionKind string

// Interaction kinds.
const (
	KindProperty InteractionKind = "property"
	KindAction   InteractionKind = "action"
	KindEvent    InteractionKind = "event"
)

// Interaction is implemented by the three affordance kinds.
type Interaction interface {
	// Name returns the interaction name, unique within its Thing.
	Name() string

	// Kind returns the affordance kind.
	Kind() InteractionKind
}

// PropertyDefinition is the serialized form of a property affordance.
// Value carries the initial property value when the definition is used to
// add a property at runtime; it is not part of the Thing Description.
type PropertyDefinition struct {
	Label      string      `json:"label,omitempty"`
	Schema     *DataSchema `json:"schema,omitempty"`
	Writable   bool        `json:"writable"`
	Observable bool        `json:"observable"`
	Value      any         `json:"value,omitempty"`
}

// ActionDefinition is the serialized form of an action affordance.
type ActionDefinition struct {
	Label  string      `json:"label,omitempty"`
	Input  *DataSchema `json:"input,omitempty"`
	Output *DataSchema `json:"output,omitempty"`
}

// EventDefinition is the serialized form of an event affordance.
type EventDefinition struct {
	Label string      `json:"label,omitempty"`
	Data  *DataSchema `json:"data,omitempty"`
}

// Property is a registered property affordance.
type Property struct {
	name       string
	label      string
	schema     *DataSchema
	writable   bool
	observable bool
}

// NewProperty builds a property affordance from its definition.
// The definition's Value field is ignored here; initial values are applied
// by whoever registers the property.
func NewProperty(name string, def PropertyDefinition) *Property {
	return &Property{
		name:       name,
		label:      def.Label,
		schema:     def.Schema.Clone(),
		writable:   def.Writable,
		observable: def.Observable,
	}
}

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Kind returns KindProperty.
func (p *Property) Kind() InteractionKind { return KindProperty }

// Label returns the human-readable label.
func (p *Property) Label() string { return p.label }

// Schema returns the value schema, or nil when unconstrained.
func (p *Property) Schema() *DataSchema { return p.schema }

// Writable reports whether the property accepts writes.
func (p *Property) Writable() bool { return p.writable }

// Observable reports whether change notifications may be subscribed.
func (p *Property) Observable() bool { return p.observable }

// Definition returns the serialized form of the property. The Value field
// is always nil; registered affordances carry no state.
func (p *Property) Definition() PropertyDefinition {
	return PropertyDefinition{
		Label:      p.label,
		Schema:     p.schema.Clone(),
		Writable:   p.writable,
		Observable: p.observable,
	}
}

// Action is a registered action affordance.
type Action struct {
	name   string
	label  string
	input  *DataSchema
	output *DataSchema
}

// NewAction builds an action affordance from its definition.
func NewAction(name string, def ActionDefinition) *Action {
	return &Action{
		name:   name,
		label:  def.Label,
		input:  def.Input.Clone(),
		output: def.Output.Clone(),
	}
}

// Name returns the action name.
func (a *Action) Name() string { return a.name }

// Kind returns KindAction.
func (a *Action) Kind() InteractionKind { return KindAction }

// Label returns the human-readable label.
func (a *Action) Label() string { return a.label }

// Input returns the input schema, or nil when unconstrained.
func (a *Action) Input() *DataSchema { return a.input }

// Output returns the output schema, or nil when unconstrained.
func (a *Action) Output() *DataSchema { return a.output }

// Definition returns the serialized form of the action.
func (a *Action) Definition() ActionDefinition {
	return ActionDefinition{
		Label:  a.label,
		Input:  a.input.Clone(),
		Output: a.output.Clone(),
	}
}

// Event is a registered event affordance.
type Event struct {
	name  string
	label string
	data  *DataSchema
}

// NewEvent builds an event affordance from its definition.
func NewEvent(name string, def EventDefinition) *Event {
	return &Event{
		name:  name,
		label: def.Label,
		data:  def.Data.Clone(),
	}
}

// Name returns the event name.
func (e *Event) Name() string { return e.name }

// Kind returns KindEvent.
func (e *Event) Kind() InteractionKind { return KindEvent }

// Label returns the human-readable label.
func (e *Event) Label() string { return e.label }

// Data returns the payload schema, or nil when unconstrained.
func (e *Event) Data() *DataSchema { return e.data }

// Definition returns the serialized form of the event.
func (e *Event) Definition() EventDefinition {
	return EventDefinition{
		Label: e.label,
		Data:  e.data.Clone(),
	}
}

// Compile-time interface checks.
var (
	_ Interaction = (*Property)(nil)
	_ Interaction = (*Action)(nil)
	_ Interaction = (*Event)(nil)
)
