// Package events implements the notification stream of an exposed Thing.
//
// # Event stream
//
// All notifications produced by a Thing, property changes, action
// invocations, description changes, and user-defined events, are published
// onto one Bus in the order the triggering operations completed. Consumers
// attach predicate-filtered subscriptions and receive every matching event
// in publish order:
//
//	bus := events.NewBus(0)
//	sub := bus.Subscribe(func(ev events.Event) bool {
//		return ev.Name == events.NamePropertyChange
//	})
//	defer sub.Cancel()
//
//	for ev := range sub.C() {
//		change := ev.Payload.(*events.PropertyChange)
//		fmt.Println(change.Name, change.Value)
//	}
//
// # Delivery
//
// Publish never blocks: each subscription owns a buffered channel and an
// event is dropped for a subscriber whose buffer is full (the drop count is
// kept per subscription). Subscriptions with overlapping predicates each
// receive their own copy of matching events; the bus has no notion of an
// event being consumed.
package events
