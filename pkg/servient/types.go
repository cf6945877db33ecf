package servient

import (
	"errors"
	"log/slog"
	"os"

	"github.com/wot-protocol/wot-go/pkg/binding"
	"github.com/wot-protocol/wot-go/pkg/binding/httpserver"
	"github.com/wot-protocol/wot-go/pkg/binding/wsserver"
	"github.com/wot-protocol/wot-go/pkg/discovery"
)

// Servient errors.
var (
	ErrNotStarted        = errors.New("servient not started")
	ErrAlreadyStarted    = errors.New("servient already started")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrThingAlreadyAdded = errors.New("thing already added")
)

// ErrThingNotFound is returned when an operation names an unknown thing.
// It aliases the binding sentinel so errors.Is matches across packages.
var ErrThingNotFound = binding.ErrThingNotFound

// State represents the servient lifecycle state.
type State uint8

const (
	// StateIdle - servient created but not started.
	StateIdle State = iota

	// StateStarting - servient is starting up.
	StateStarting

	// StateRunning - servient is serving its bindings.
	StateRunning

	// StateStopping - servient is shutting down.
	StateStopping

	// StateStopped - servient has stopped.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Servient.
type Config struct {
	// Hostname is the servient instance name, used for mDNS discovery.
	Hostname string

	// EnableHTTP enables the HTTP binding.
	EnableHTTP bool

	// HTTP configures the HTTP binding.
	HTTP httpserver.Config

	// EnableWS enables the WebSocket binding.
	EnableWS bool

	// WS configures the WebSocket binding.
	WS wsserver.Config

	// EnableMDNS enables DNS-SD advertisement. It requires EnableHTTP
	// since the advertisement points at the HTTP catalogue.
	EnableMDNS bool

	// MDNS configures the advertisement.
	MDNS discovery.Config

	// TraceFile is the path of an interaction trace log (CBOR).
	// Empty disables tracing.
	TraceFile string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults. The hostname
// falls back to "wot-servient" when the OS hostname is unavailable.
func DefaultConfig() Config {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "wot-servient"
	}
	return Config{
		Hostname:   hostname,
		EnableHTTP: true,
		HTTP:       httpserver.DefaultConfig(),
		EnableWS:   true,
		WS:         wsserver.DefaultConfig(),
		EnableMDNS: true,
		MDNS:       discovery.DefaultConfig(),
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Hostname == "" {
		return ErrInvalidConfig
	}
	if c.EnableMDNS && !c.EnableHTTP {
		return ErrInvalidConfig
	}
	if c.EnableMDNS {
		if err := discovery.ValidateInstanceName(c.Hostname); err != nil {
			return ErrInvalidConfig
		}
	}
	if c.EnableHTTP {
		if err := c.HTTP.Validate(); err != nil {
			return ErrInvalidConfig
		}
	}
	if c.EnableWS {
		if err := c.WS.Validate(); err != nil {
			return ErrInvalidConfig
		}
	}
	return nil
}
