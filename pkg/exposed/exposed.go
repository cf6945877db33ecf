package exposed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/wot-protocol/wot-go/pkg/events"
	"github.com/wot-protocol/wot-go/pkg/thing"
	"github.com/wot-protocol/wot-go/pkg/trace"
)

// ExposedThing is the server-side runtime of a Thing: it binds the thing's
// interaction affordances to application-supplied handlers, keeps runtime
// property state, and publishes every interaction outcome on a single
// ordered event stream.
//
// Every instance owns its own handler table, state store, and event bus;
// there is no process-wide state.
type ExposedThing struct {
	th       *thing.Thing
	host     Host
	handlers *handlerTable
	state    *stateStore
	bus      *events.Bus

	// Logger for debug output (optional)
	logger *slog.Logger

	// Trace recorder for interaction capture (optional)
	trace trace.Recorder
}

// New creates an ExposedThing for the given thing.
func New(th *thing.Thing, cfg Config) (*ExposedThing, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	et := &ExposedThing{
		th:     th,
		host:   cfg.Host,
		state:  newStateStore(),
		bus:    events.NewBus(cfg.EventBufferSize),
		logger: cfg.Logger,
		trace:  cfg.Trace,
	}

	// The global handler slots are seeded at construction and never empty:
	// reads return the stored value, writes store, invokes fail until an
	// action handler is installed.
	et.handlers = newHandlerTable(et.defaultRead, et.defaultWrite, defaultInvoke)

	return et, nil
}

// defaultRead returns the stored property value, nil when never written.
func (et *ExposedThing) defaultRead(_ context.Context, name string) (any, error) {
	return et.state.Get(name), nil
}

// defaultWrite stores the value, replacing any previous one.
func (et *ExposedThing) defaultWrite(_ context.Context, name string, value any) error {
	et.state.Set(name, value)
	return nil
}

func defaultInvoke(_ context.Context, name string, _ any) (any, error) {
	return nil, fmt.Errorf("%w: %s", ErrUndefinedActionHandler, name)
}

// Thing returns the underlying interaction model.
func (et *ExposedThing) Thing() *thing.Thing {
	return et.th
}

// ID returns the thing identifier.
func (et *ExposedThing) ID() string {
	return et.th.ID()
}

// Title returns the human-readable thing name.
func (et *ExposedThing) Title() string {
	return et.th.Title()
}

// ReadProperty resolves the read handler for the named property and returns
// its result unmodified. The context is passed through to the handler; the
// facade adds no timeout or retry.
func (et *ExposedThing) ReadProperty(ctx context.Context, name string) (any, error) {
	if !et.th.HasInteraction(name) {
		err := fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
		et.record(trace.OpRead, name, nil, err)
		return nil, err
	}

	value, err := et.handlers.read(name)(ctx, name)
	et.record(trace.OpRead, name, value, err)
	return value, err
}

// WriteProperty applies a new value through the write handler. Writability
// is checked before the handler runs; on success a propertychange event is
// published. A failing handler publishes nothing.
//
// Writes are never gated on the observable flag, only change-notification
// subscriptions are.
func (et *ExposedThing) WriteProperty(ctx context.Context, name string, value any) error {
	inter, ok := et.th.FindInteraction(name)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
		et.record(trace.OpWrite, name, value, err)
		return err
	}

	prop, isProperty := inter.(*thing.Property)
	if !isProperty || !prop.Writable() {
		err := fmt.Errorf("%w: %s", ErrPropertyNotWritable, name)
		et.record(trace.OpWrite, name, value, err)
		return err
	}

	if err := et.handlers.write(name)(ctx, name, value); err != nil {
		et.record(trace.OpWrite, name, value, err)
		return err
	}

	et.bus.Publish(events.NewPropertyChange(name, value))
	et.record(trace.OpWrite, name, value, nil)
	return nil
}

// InvokeAction resolves the invoke handler for the named action and returns
// its result. On success an actioninvocation event is published; a failing
// handler publishes nothing. Without an installed handler the default fails
// with ErrUndefinedActionHandler.
func (et *ExposedThing) InvokeAction(ctx context.Context, name string, input any) (any, error) {
	if !et.th.HasInteraction(name) {
		err := fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
		et.record(trace.OpInvoke, name, nil, err)
		return nil, err
	}

	result, err := et.handlers.invoke(name)(ctx, name, input)
	if err != nil {
		et.record(trace.OpInvoke, name, nil, err)
		return nil, err
	}

	et.bus.Publish(events.NewActionInvocation(name, result))
	et.record(trace.OpInvoke, name, result, nil)
	return result, nil
}

// OnEvent subscribes to emissions of the named event.
func (et *ExposedThing) OnEvent(name string) (*events.Subscription, error) {
	if !et.th.HasInteraction(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}

	sub := et.bus.Subscribe(func(ev events.Event) bool {
		return ev.Name == name
	})
	et.record(trace.OpSubscribe, name, nil, nil)
	return sub, nil
}

// OnPropertyChange subscribes to successful writes of the named property.
// The property must exist and be observable.
func (et *ExposedThing) OnPropertyChange(name string) (*events.Subscription, error) {
	inter, ok := et.th.FindInteraction(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	prop, isProperty := inter.(*thing.Property)
	if !isProperty {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	if !prop.Observable() {
		return nil, fmt.Errorf("%w: %s", ErrNotObservable, name)
	}

	sub := et.bus.Subscribe(func(ev events.Event) bool {
		if ev.Name != events.NamePropertyChange {
			return false
		}
		change, ok := ev.Payload.(*events.PropertyChange)
		return ok && change.Name == name
	})
	et.record(trace.OpSubscribe, name, nil, nil)
	return sub, nil
}

// OnDescriptionChange subscribes to interaction additions and removals.
// Always valid: description changes are not tied to any one interaction.
func (et *ExposedThing) OnDescriptionChange() *events.Subscription {
	sub := et.bus.Subscribe(func(ev events.Event) bool {
		return ev.Name == events.NameDescriptionChange
	})
	et.record(trace.OpSubscribe, events.NameDescriptionChange, nil, nil)
	return sub
}

// Subscribe attaches a raw filtered subscription to the thing's event
// stream. Protocol bindings use this for multiplexed delivery; the named
// On* helpers are the validated entry points.
func (et *ExposedThing) Subscribe(filter events.Filter) *events.Subscription {
	return et.bus.Subscribe(filter)
}

// EmitEvent publishes a thing event with the given payload.
func (et *ExposedThing) EmitEvent(name string, payload any) error {
	if !et.th.HasInteraction(name) {
		err := fmt.Errorf("%w: %s", ErrUnknownEvent, name)
		et.record(trace.OpEmit, name, payload, err)
		return err
	}

	et.bus.Publish(events.NewThingEvent(name, payload))
	et.record(trace.OpEmit, name, payload, nil)
	return nil
}

// AddProperty registers a property affordance, seeds its runtime value from
// def.Value, and publishes a descriptionchange event carrying the definition
// and the full updated description.
func (et *ExposedThing) AddProperty(name string, def thing.PropertyDefinition) error {
	if err := et.th.AddProperty(thing.NewProperty(name, def)); err != nil {
		et.record(trace.OpAdd, name, nil, err)
		return err
	}

	et.state.Set(name, def.Value)
	et.publishDescriptionChange(thing.KindProperty, events.MethodAdd, name, def)
	et.record(trace.OpAdd, name, def.Value, nil)
	return nil
}

// RemoveProperty removes a property affordance, deletes its stored value,
// and purges its handler overrides, so a later re-add starts clean.
func (et *ExposedThing) RemoveProperty(name string) error {
	if err := et.th.RemoveProperty(name); err != nil {
		et.record(trace.OpRemove, name, nil, err)
		return err
	}

	et.state.Delete(name)
	et.handlers.clearProperty(name)
	et.publishDescriptionChange(thing.KindProperty, events.MethodRemove, name, nil)
	et.record(trace.OpRemove, name, nil, nil)
	return nil
}

// AddAction registers an action affordance and publishes a
// descriptionchange event.
func (et *ExposedThing) AddAction(name string, def thing.ActionDefinition) error {
	if err := et.th.AddAction(thing.NewAction(name, def)); err != nil {
		et.record(trace.OpAdd, name, nil, err)
		return err
	}

	et.publishDescriptionChange(thing.KindAction, events.MethodAdd, name, def)
	et.record(trace.OpAdd, name, nil, nil)
	return nil
}

// RemoveAction removes an action affordance and purges its invoke override.
func (et *ExposedThing) RemoveAction(name string) error {
	if err := et.th.RemoveAction(name); err != nil {
		et.record(trace.OpRemove, name, nil, err)
		return err
	}

	et.handlers.clearAction(name)
	et.publishDescriptionChange(thing.KindAction, events.MethodRemove, name, nil)
	et.record(trace.OpRemove, name, nil, nil)
	return nil
}

// AddEvent registers an event affordance and publishes a descriptionchange
// event.
func (et *ExposedThing) AddEvent(name string, def thing.EventDefinition) error {
	if err := et.th.AddEvent(thing.NewEvent(name, def)); err != nil {
		et.record(trace.OpAdd, name, nil, err)
		return err
	}

	et.publishDescriptionChange(thing.KindEvent, events.MethodAdd, name, def)
	et.record(trace.OpAdd, name, nil, nil)
	return nil
}

// RemoveEvent removes an event affordance.
func (et *ExposedThing) RemoveEvent(name string) error {
	if err := et.th.RemoveEvent(name); err != nil {
		et.record(trace.OpRemove, name, nil, err)
		return err
	}

	et.publishDescriptionChange(thing.KindEvent, events.MethodRemove, name, nil)
	et.record(trace.OpRemove, name, nil, nil)
	return nil
}

// publishDescriptionChange publishes the mutation event. Add carries the
// interaction definition and a full description snapshot; remove carries
// neither.
func (et *ExposedThing) publishDescriptionChange(kind thing.InteractionKind, method events.ChangeMethod, name string, def any) {
	var data any
	var desc *thing.Description
	if method == events.MethodAdd {
		data = def
		desc = et.th.Description()
	}
	et.bus.Publish(events.NewDescriptionChange(kind, method, name, data, desc))
}

// SetPropertyReadHandler installs a read override for the named interaction.
// A nil handler clears the override.
func (et *ExposedThing) SetPropertyReadHandler(name string, h PropertyReadHandler) error {
	if !et.th.HasInteraction(name) {
		return fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	et.handlers.setRead(name, h)
	return nil
}

// SetPropertyWriteHandler installs a write override for the named
// interaction. A nil handler clears the override.
func (et *ExposedThing) SetPropertyWriteHandler(name string, h PropertyWriteHandler) error {
	if !et.th.HasInteraction(name) {
		return fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	et.handlers.setWrite(name, h)
	return nil
}

// SetActionHandler installs an invoke override for the named interaction.
// A nil handler clears the override.
func (et *ExposedThing) SetActionHandler(name string, h ActionHandler) error {
	if !et.th.HasInteraction(name) {
		return fmt.Errorf("%w: %s", ErrInteractionNotFound, name)
	}
	et.handlers.setInvoke(name, h)
	return nil
}

// SetDefaultPropertyReadHandler replaces the global read handler.
func (et *ExposedThing) SetDefaultPropertyReadHandler(h PropertyReadHandler) error {
	return et.handlers.setGlobalRead(h)
}

// SetDefaultPropertyWriteHandler replaces the global write handler.
func (et *ExposedThing) SetDefaultPropertyWriteHandler(h PropertyWriteHandler) error {
	return et.handlers.setGlobalWrite(h)
}

// SetDefaultActionHandler replaces the global invoke handler.
func (et *ExposedThing) SetDefaultActionHandler(h ActionHandler) error {
	return et.handlers.setGlobalInvoke(h)
}

// Expose asks the host to start serving this thing.
func (et *ExposedThing) Expose() error {
	err := et.host.EnableThing(et.th.ID())
	et.debugLog("Expose", "thing", et.th.ID(), "error", err)
	et.record(trace.OpExpose, "", nil, err)
	return err
}

// Destroy asks the host to remove this thing and closes the event bus,
// ending every subscription.
func (et *ExposedThing) Destroy() error {
	err := et.host.RemoveThing(et.th.ID())
	et.debugLog("Destroy", "thing", et.th.ID(), "error", err)
	et.record(trace.OpDestroy, "", nil, err)
	et.bus.Close()
	return err
}

// ThingDescription returns the current Thing Description serialized as JSON.
func (et *ExposedThing) ThingDescription() ([]byte, error) {
	return json.Marshal(et.th.Description())
}

// Equal reports whether other exposes the same thing on the same host.
func (et *ExposedThing) Equal(other *ExposedThing) bool {
	if other == nil {
		return false
	}
	return et.host == other.host && et.th.ID() == other.th.ID()
}

// record captures one interaction when a trace recorder is configured.
// Tracing never fails the interaction.
func (et *ExposedThing) record(op trace.Op, name string, value any, err error) {
	if et.trace == nil {
		return
	}

	rec := trace.Record{
		Time:    time.Now(),
		Op:      op,
		ThingID: et.th.ID(),
		Name:    name,
		Status:  trace.StatusOK,
		Value:   value,
	}
	if err != nil {
		rec.Status = trace.StatusError
		rec.Err = err.Error()
	}
	et.trace.Record(rec)
}

// debugLog logs a debug message if logging is enabled.
func (et *ExposedThing) debugLog(msg string, args ...any) {
	if et.logger != nil {
		et.logger.Debug(msg, args...)
	}
}
