// Package thing implements the WoT interaction model.
//
// # Model
//
// A Thing is a named set of interaction affordances:
//
//	Thing (urn:uuid:...)
//	├── Properties  (readable state, optionally writable and observable)
//	├── Actions     (invokable operations with input/output schemas)
//	└── Events      (notifications the Thing can emit)
//
// Interaction names are unique within a Thing across all three kinds; the
// name is the interaction's identity everywhere in the runtime.
//
// # Definitions and affordances
//
// Definition structs (PropertyDefinition, ActionDefinition, EventDefinition)
// are the serialized form of an affordance: they appear in Thing
// Descriptions, in description-change payloads, and as the argument when an
// affordance is added at runtime. The affordance types (Property, Action,
// Event) are the immutable registered form.
//
// # Thing Description
//
// Description() produces a point-in-time snapshot of the Thing suitable for
// JSON publication:
//
//	th := thing.New("Smart Lamp")
//	th.AddProperty(thing.NewProperty("on", thing.PropertyDefinition{
//		Schema:     &thing.DataSchema{Type: thing.TypeBoolean},
//		Writable:   true,
//		Observable: true,
//	}))
//	doc, _ := json.Marshal(th.Description())
//
// The Thing holds no property values; runtime state belongs to the exposed
// package.
package thing
