// Package servient hosts exposed things and serves them over protocol
// bindings.
//
// A Servient is the glue between the exposed.ExposedThing facades and the
// network: it keeps the registry of things (by ID and URL name), tracks
// which of them are enabled, runs the configured bindings, and advertises
// itself over mDNS.
//
// Example usage:
//
//	config := servient.DefaultConfig()
//	sv, err := servient.New(config)
//
//	lamp, _ := sv.Produce("My Lamp")
//	lamp.AddProperty("on", thing.PropertyDefinition{Writable: true, Observable: true, Value: false})
//	lamp.Expose()
//
//	sv.Start(ctx)
//	defer sv.Shutdown(ctx)
//
// Things produced before Start are served the moment the bindings come
// up. Produce after Start works the same way; the thing becomes visible
// once Expose is called.
package servient
