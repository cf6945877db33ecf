package discovery

import (
	"context"
	"time"
)

// Advertiser announces one servient over DNS-SD.
type Advertiser interface {
	// Advertise starts advertising the servient. Calling it again replaces
	// the running advertisement.
	Advertise(ctx context.Context, info *ServientInfo) error

	// Update rewrites the TXT records of the running advertisement, for
	// example after the thing count changed. Returns ErrNotFound when
	// nothing is being advertised.
	Update(info *ServientInfo) error

	// Stop withdraws the advertisement. Stopping a stopped advertiser is a
	// no-op.
	Stop() error
}

// Config configures mDNS advertising and browsing.
type Config struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultConfig returns the default discovery configuration.
func DefaultConfig() Config {
	return Config{
		Interface: "",
		TTL:       120 * time.Second,
	}
}
