package events

import (
	"github.com/wot-protocol/wot-go/pkg/thing"
)

// Type identifies the kind of an emitted event.
type Type uint8

// Event types.
const (
	TypePropertyChange Type = iota
	TypeActionInvocation
	TypeDescriptionChange
	TypeThingEvent
)

// String returns a human-readable event type name.
func (t Type) String() string {
	switch t {
	case TypePropertyChange:
		return "PropertyChange"
	case TypeActionInvocation:
		return "ActionInvocation"
	case TypeDescriptionChange:
		return "DescriptionChange"
	case TypeThingEvent:
		return "ThingEvent"
	default:
		return "Unknown"
	}
}

// Reserved stream names for runtime-generated events. User-defined events
// are published under their own interaction name.
const (
	NamePropertyChange    = "propertychange"
	NameActionInvocation  = "actioninvocation"
	NameDescriptionChange = "descriptionchange"
)

// Event is a single notification instance. It is immutable once constructed
// and has no identity beyond the moment it is observed: events are never
// stored, only delivered.
//
// Payload is a tagged union keyed by Type: *PropertyChange,
// *ActionInvocation, *DescriptionChange, or arbitrary user data for
// TypeThingEvent.
type Event struct {
	Type    Type
	Name    string
	Payload any
}

// PropertyChange is the payload of a propertychange event.
type PropertyChange struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ActionInvocation is the payload of an actioninvocation event.
type ActionInvocation struct {
	ActionName  string `json:"actionName"`
	ReturnValue any    `json:"returnValue"`
}

// ChangeMethod says whether a description change added or removed an
// interaction.
type ChangeMethod string

// Description change methods.
const (
	MethodAdd    ChangeMethod = "add"
	MethodRemove ChangeMethod = "remove"
)

// DescriptionChange is the payload of a descriptionchange event. Data (the
// serialized interaction definition) and Description (the full Thing
// description after the change) are present on add and omitted on remove.
type DescriptionChange struct {
	ChangeType  thing.InteractionKind `json:"changeType"`
	Method      ChangeMethod          `json:"method"`
	Name        string                `json:"name"`
	Data        any                   `json:"data,omitempty"`
	Description *thing.Description    `json:"description,omitempty"`
}

// NewPropertyChange builds a propertychange event.
func NewPropertyChange(name string, value any) Event {
	return Event{
		Type:    TypePropertyChange,
		Name:    NamePropertyChange,
		Payload: &PropertyChange{Name: name, Value: value},
	}
}

// NewActionInvocation builds an actioninvocation event.
func NewActionInvocation(actionName string, returnValue any) Event {
	return Event{
		Type:    TypeActionInvocation,
		Name:    NameActionInvocation,
		Payload: &ActionInvocation{ActionName: actionName, ReturnValue: returnValue},
	}
}

// NewDescriptionChange builds a descriptionchange event. Pass nil data and
// description for removals.
func NewDescriptionChange(kind thing.InteractionKind, method ChangeMethod, name string, data any, desc *thing.Description) Event {
	return Event{
		Type: TypeDescriptionChange,
		Name: NameDescriptionChange,
		Payload: &DescriptionChange{
			ChangeType:  kind,
			Method:      method,
			Name:        name,
			Data:        data,
			Description: desc,
		},
	}
}

// NewThingEvent builds a user-defined event under its interaction name.
func NewThingEvent(name string, payload any) Event {
	return Event{
		Type:    TypeThingEvent,
		Name:    name,
		Payload: payload,
	}
}
