package exposed

import (
	"log/slog"

	"github.com/wot-protocol/wot-go/pkg/events"
	"github.com/wot-protocol/wot-go/pkg/trace"
)

// Host is the runtime surface an exposed thing delegates its lifecycle to.
// The servient implements it.
type Host interface {
	// EnableThing starts serving the identified thing on the host's bindings.
	EnableThing(id string) error

	// RemoveThing stops serving the identified thing and forgets it.
	RemoveThing(id string) error
}

// Config configures an ExposedThing.
type Config struct {
	// Host receives Expose and Destroy delegation. Required.
	Host Host

	// EventBufferSize is the per-subscription delivery buffer capacity.
	// Zero selects events.DefaultBufferSize.
	EventBufferSize int

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Trace is the optional recorder capturing every interaction.
	// If nil, tracing is disabled.
	Trace trace.Recorder
}

// DefaultConfig returns a Config with sensible defaults.
// Host must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		EventBufferSize: events.DefaultBufferSize,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Host == nil {
		return ErrInvalidConfig
	}
	if c.EventBufferSize < 0 {
		return ErrInvalidConfig
	}
	return nil
}
