package wsserver

import (
	"errors"
	"log/slog"
	"time"
)

// Server errors.
var (
	// ErrAlreadyStarted is returned when starting a started server.
	ErrAlreadyStarted = errors.New("server already started")

	// ErrInvalidConfig is returned for invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// sendBufferSize is the per-connection outbound queue depth. Messages for
// clients that fall further behind are dropped.
const sendBufferSize = 64

// Config holds the websocket binding configuration.
type Config struct {
	// Addr is the TCP listen address (e.g. ":8081").
	Addr string

	// AllowedOrigins lists the Origin header values accepted during the
	// handshake. Empty allows all origins. Requests without an Origin
	// header (non-browser clients) are always accepted.
	AllowedOrigins []string

	// WriteTimeout bounds each write to the socket.
	WriteTimeout time.Duration

	// PingInterval is the keepalive ping period. Zero disables pings and
	// the read deadline that goes with them.
	PingInterval time.Duration

	// ReadHeaderTimeout bounds reading the handshake request headers.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown once Stop is called.
	ShutdownTimeout time.Duration

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8081",
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrInvalidConfig
	}
	if c.WriteTimeout < 0 || c.PingInterval < 0 {
		return ErrInvalidConfig
	}
	if c.ReadHeaderTimeout < 0 || c.ShutdownTimeout < 0 {
		return ErrInvalidConfig
	}
	return nil
}
