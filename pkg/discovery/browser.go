package discovery

import (
	"context"
)

// Browser searches for servients over DNS-SD.
type Browser interface {
	// Browse streams servients as they are found. Addresses from multiple
	// interfaces are aggregated per instance; every instance is delivered
	// once. The channel closes when ctx is cancelled.
	Browse(ctx context.Context) (<-chan *ServientService, error)

	// Find searches for a specific servient by instance name. Returns when
	// found or when ctx is cancelled.
	Find(ctx context.Context, instance string) (*ServientService, error)
}

// ServiceEntry is raw mDNS service entry data, a transport-agnostic helper
// for Browser implementations and tests.
type ServiceEntry struct {
	Instance string
	Service  string
	Domain   string
	Host     string
	Port     uint16
	Text     []string
	Addrs    []string
}

// ToServientService converts a ServiceEntry to a ServientService.
func (e *ServiceEntry) ToServientService() (*ServientService, error) {
	txt := StringsToTXTRecords(e.Text)
	info, err := DecodeTXT(txt)
	if err != nil {
		return nil, err
	}

	return &ServientService{
		Instance:  e.Instance,
		Host:      e.Host,
		Port:      e.Port,
		Addresses: e.Addrs,
		Path:      info.Path,
		Things:    info.Things,
	}, nil
}
