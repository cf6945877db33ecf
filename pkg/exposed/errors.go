package exposed

import (
	"errors"

	"github.com/wot-protocol/wot-go/pkg/thing"
)

// Facade errors. All checks fail at the call or subscribe boundary, ahead
// of handler invocation; handler errors pass through unmodified.
var (
	// ErrInteractionNotFound aliases the thing package sentinel so callers
	// can match facade errors without importing both packages.
	ErrInteractionNotFound = thing.ErrInteractionNotFound

	// ErrPropertyNotWritable rejects writes to anything that is not a
	// writable property.
	ErrPropertyNotWritable = errors.New("property is not writable")

	// ErrUnknownEvent rejects subscription or emission for names with no
	// defined interaction.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrUnknownProperty rejects change subscriptions for names that are
	// not defined properties.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrNotObservable rejects change subscriptions on properties whose
	// observable flag is false.
	ErrNotObservable = errors.New("property is not observable")

	// ErrUndefinedActionHandler is returned by the default invoke handler.
	ErrUndefinedActionHandler = errors.New("undefined action handler")

	// ErrNilHandler rejects a nil global handler; the global slot can never
	// be empty.
	ErrNilHandler = errors.New("nil handler")

	// ErrInvalidConfig indicates an invalid Config.
	ErrInvalidConfig = errors.New("invalid configuration")
)
