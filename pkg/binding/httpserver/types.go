package httpserver

import (
	"errors"
	"log/slog"
	"time"
)

// Server errors.
var (
	ErrAlreadyStarted = errors.New("server already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Config configures the HTTP binding server.
type Config struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string

	// ReadHeaderTimeout bounds how long reading request headers may take.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown on Stop.
	ShutdownTimeout time.Duration

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrInvalidConfig
	}
	if c.ReadHeaderTimeout < 0 || c.ShutdownTimeout < 0 {
		return ErrInvalidConfig
	}
	return nil
}
