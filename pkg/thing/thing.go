package thing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Thing errors.
var (
	ErrInteractionNotFound  = errors.New("interaction not found")
	ErrDuplicateInteraction = errors.New("duplicate interaction name")
	ErrEmptyName            = errors.New("empty interaction name")
)

// Thing holds the current set of interaction affordances exposed under a
// single identity. It owns definitions only, never runtime values.
type Thing struct {
	mu sync.RWMutex

	// id is the Thing identifier, an IRI.
	id string

	// title is the human-readable Thing name.
	title string

	// Affordances indexed by name. Names are unique across the three maps.
	properties map[string]*Property
	actions    map[string]*Action
	events     map[string]*Event
}

// New creates a Thing with a generated urn:uuid identifier.
func New(title string) *Thing {
	return NewWithID("urn:uuid:"+uuid.NewString(), title)
}

// NewWithID creates a Thing with an explicit identifier.
func NewWithID(id, title string) *Thing {
	return &Thing{
		id:         id,
		title:      title,
		properties: make(map[string]*Property),
		actions:    make(map[string]*Action),
		events:     make(map[string]*Event),
	}
}

// ID returns the Thing identifier.
func (t *Thing) ID() string {
	return t.id
}

// Title returns the human-readable Thing name.
func (t *Thing) Title() string {
	return t.title
}

// URLName returns a URL-safe version of the Thing title, used by protocol
// bindings to build paths.
func (t *Thing) URLName() string {
	return Slug(t.title)
}

// HasInteraction reports whether an interaction with the given name is
// defined, regardless of kind.
func (t *Thing) HasInteraction(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hasLocked(name)
}

func (t *Thing) hasLocked(name string) bool {
	if _, ok := t.properties[name]; ok {
		return true
	}
	if _, ok := t.actions[name]; ok {
		return true
	}
	_, ok := t.events[name]
	return ok
}

// FindInteraction returns the interaction with the given name of any kind.
func (t *Thing) FindInteraction(name string) (Interaction, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if p, ok := t.properties[name]; ok {
		return p, true
	}
	if a, ok := t.actions[name]; ok {
		return a, true
	}
	if e, ok := t.events[name]; ok {
		return e, true
	}
	return nil, false
}

// GetProperty returns a property affordance by name.
func (t *Thing) GetProperty(name string) (*Property, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.properties[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	return p, nil
}

// GetAction returns an action affordance by name.
func (t *Thing) GetAction(name string) (*Action, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	a, ok := t.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	return a, nil
}

// GetEvent returns an event affordance by name.
func (t *Thing) GetEvent(name string) (*Event, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.events[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	return e, nil
}

// AddProperty registers a property affordance.
// The name must be non-empty and unused by any interaction of any kind.
func (t *Thing) AddProperty(p *Property) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkNameLocked(p.Name()); err != nil {
		return err
	}
	t.properties[p.Name()] = p
	return nil
}

// AddAction registers an action affordance.
func (t *Thing) AddAction(a *Action) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkNameLocked(a.Name()); err != nil {
		return err
	}
	t.actions[a.Name()] = a
	return nil
}

// AddEvent registers an event affordance.
func (t *Thing) AddEvent(e *Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkNameLocked(e.Name()); err != nil {
		return err
	}
	t.events[e.Name()] = e
	return nil
}

func (t *Thing) checkNameLocked(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if t.hasLocked(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateInteraction, name)
	}
	return nil
}

// RemoveProperty removes a property affordance by name.
func (t *Thing) RemoveProperty(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.properties[name]; !ok {
		return fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	delete(t.properties, name)
	return nil
}

// RemoveAction removes an action affordance by name.
func (t *Thing) RemoveAction(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.actions[name]; !ok {
		return fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	delete(t.actions, name)
	return nil
}

// RemoveEvent removes an event affordance by name.
func (t *Thing) RemoveEvent(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.events[name]; !ok {
		return fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	delete(t.events, name)
	return nil
}

// Properties returns all property affordances.
func (t *Thing) Properties() []*Property {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]*Property, 0, len(t.properties))
	for _, p := range t.properties {
		result = append(result, p)
	}
	return result
}

// Actions returns all action affordances.
func (t *Thing) Actions() []*Action {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]*Action, 0, len(t.actions))
	for _, a := range t.actions {
		result = append(result, a)
	}
	return result
}

// Events returns all event affordances.
func (t *Thing) Events() []*Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]*Event, 0, len(t.events))
	for _, e := range t.events {
		result = append(result, e)
	}
	return result
}

// InteractionCount returns the total number of affordances.
func (t *Thing) InteractionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.properties) + len(t.actions) + len(t.events)
}

// Description is a point-in-time serialization of a Thing.
type Description struct {
	ID         string                        `json:"id"`
	Title      string                        `json:"title"`
	Properties map[string]PropertyDefinition `json:"properties,omitempty"`
	Actions    map[string]ActionDefinition   `json:"actions,omitempty"`
	Events     map[string]EventDefinition    `json:"events,omitempty"`
}

// Description returns a consistent snapshot of the Thing. The returned
// document shares no state with the Thing.
func (t *Thing) Description() *Description {
	t.mu.RLock()
	defer t.mu.RUnlock()

	d := &Description{
		ID:    t.id,
		Title: t.title,
	}
	if len(t.properties) > 0 {
		d.Properties = make(map[string]PropertyDefinition, len(t.properties))
		for name, p := range t.properties {
			d.Properties[name] = p.Definition()
		}
	}
	if len(t.actions) > 0 {
		d.Actions = make(map[string]ActionDefinition, len(t.actions))
		for name, a := range t.actions {
			d.Actions[name] = a.Definition()
		}
	}
	if len(t.events) > 0 {
		d.Events = make(map[string]EventDefinition, len(t.events))
		for name, e := range t.events {
			d.Events[name] = e.Definition()
		}
	}
	return d
}
