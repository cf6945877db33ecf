// Package exposed provides the server-side runtime of a Web of Things Thing.
//
// An ExposedThing binds a thing's declarative interaction affordances
// (properties, actions, events) to application-supplied handler functions,
// keeps runtime property state, and publishes every interaction outcome on
// a single ordered event stream that consumers subscribe to with filters.
//
// # Handlers
//
// Three handler kinds exist: property read, property write, and action
// invoke. Exactly one global handler per kind is always installed, seeded
// with defaults at construction: reads return the stored value, writes
// store it, invocations fail until an action handler is set. Per-interaction
// overrides take precedence over the globals; the fallback is silent.
//
//	et, _ := exposed.New(th, cfg)
//	et.SetActionHandler("toggle", func(ctx context.Context, name string, input any) (any, error) {
//	    on, _ := et.ReadProperty(ctx, "on")
//	    next := on != true
//	    return next, et.WriteProperty(ctx, "on", next)
//	})
//
// # Interactions
//
// ReadProperty, WriteProperty, and InvokeAction resolve the handler and
// return its result unmodified. Successful writes publish a propertychange
// event, successful invocations an actioninvocation event; failures publish
// nothing. Writability is checked before the write handler runs.
//
// # Subscriptions
//
// OnEvent, OnPropertyChange, and OnDescriptionChange validate their target
// and subscribe with a matching filter. All subscriptions share one total
// delivery order. Overlapping subscriptions each receive an independent
// copy of matching events.
//
//	sub, _ := et.OnPropertyChange("brightness")
//	for ev := range sub.C() {
//	    change := ev.Payload.(*events.PropertyChange)
//	    fmt.Println(change.Name, change.Value)
//	}
//
// # Runtime mutation
//
// AddProperty, AddAction, AddEvent and their Remove counterparts change the
// thing's description at runtime and publish descriptionchange events.
// Additions carry the new definition and a full description snapshot.
//
// # Lifecycle
//
// Expose and Destroy delegate to the configured Host (the servient).
// Destroy additionally closes the event bus, ending every subscription.
package exposed
