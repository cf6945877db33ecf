// Package binding defines the contract between the servient and its
// protocol servers.
//
// A binding server exposes the things of a registry over one protocol.
// Servers do not own things; they resolve them per request through the
// Registry and drive them through the exposed.ExposedThing API.
package binding

import (
	"context"
	"errors"

	"github.com/wot-protocol/wot-go/pkg/exposed"
)

// ErrThingNotFound is returned when a registry lookup names a thing that
// does not exist or is not enabled.
var ErrThingNotFound = errors.New("thing not found")

// Server is one protocol binding serving a registry of things.
type Server interface {
	// Scheme returns the URI scheme the binding serves, e.g. "http".
	Scheme() string

	// Addr returns the listen address. After Start it reports the
	// resolved address, so ":0" configs yield the bound port.
	Addr() string

	// Start binds the listener and begins serving in the background.
	// It returns once the listener is up or with the bind error.
	Start(ctx context.Context) error

	// Stop gracefully shuts the server down.
	Stop(ctx context.Context) error
}

// Registry resolves things for binding servers. The servient implements it.
type Registry interface {
	// ExposedThing resolves a thing by ID or URL name.
	ExposedThing(id string) (*exposed.ExposedThing, bool)

	// Enabled reports whether the thing is currently exposed.
	Enabled(id string) bool

	// Things returns all registered things, enabled or not.
	Things() []*exposed.ExposedThing
}
