package discovery

import (
	"errors"
	"fmt"
	"time"
)

// Service constants for mDNS.
const (
	// ServiceType is the DNS-SD service type servients register under.
	ServiceType = "_wot-servient._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is advertised when the info carries no port.
	DefaultPort = 8080
)

// TXT record key constants.
const (
	// TXTKeyPath is the Thing Description catalogue path.
	TXTKeyPath = "path"

	// TXTKeyThings is the number of exposed things.
	TXTKeyThings = "things"
)

// Timing constants.
const (
	// BrowseTimeout is the suggested timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// Discovery errors.
var (
	ErrMalformedTXT        = errors.New("malformed TXT record")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
)

// ServientInfo describes one servient's advertisement. The hostname and
// addresses are filled in by the mDNS stack; the info carries only what goes
// into the instance name and TXT records.
type ServientInfo struct {
	// Instance is the mDNS instance name, normally the servient hostname.
	Instance string

	// Port is the catalogue port. Zero advertises DefaultPort.
	Port uint16

	// Path is the Thing Description catalogue path. Empty means "/".
	Path string

	// Things is the number of exposed things.
	Things int
}

// Validate checks if the advertisement info is valid.
func (i *ServientInfo) Validate() error {
	if i.Instance == "" {
		return fmt.Errorf("%w: instance", ErrMissingRequired)
	}
	if len(i.Instance) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}

// ServientService represents a servient found via mDNS.
type ServientService struct {
	// Instance is the mDNS instance name.
	Instance string

	// Host is the hostname (e.g. "kitchen-pi.local.").
	Host string

	// Port is the catalogue port.
	Port uint16

	// Addresses contains resolved IP addresses.
	Addresses []string

	// Path is the catalogue path (from TXT "path").
	Path string

	// Things is the exposed thing count (from TXT "things").
	Things int
}
