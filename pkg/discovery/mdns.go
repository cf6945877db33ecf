package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config Config

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config Config) *MDNSAdvertiser {
	return &MDNSAdvertiser{config: config}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts advertising the servient, replacing any running
// advertisement.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *ServientInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	txtStrings := TXTRecordsToStrings(EncodeTXT(info))

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.Instance,
		ServiceType,
		Domain,
		port,
		txtStrings,
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register servient service: %w", err)
	}

	a.server = server
	return nil
}

// Update rewrites the TXT records of the running advertisement.
func (a *MDNSAdvertiser) Update(info *ServientInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotFound
	}

	a.server.SetText(TXTRecordsToStrings(EncodeTXT(info)))
	return nil
}

// Stop withdraws the advertisement.
func (a *MDNSAdvertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
	return nil
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config Config
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config Config) *MDNSBrowser {
	return &MDNSBrowser{config: config}
}

// Browse searches for servients. Services are aggregated by instance name;
// addresses from multiple interfaces are combined into a single entry and
// removals are handled when interfaces disappear.
func (b *MDNSBrowser) Browse(ctx context.Context) (<-chan *ServientService, error) {
	out := make(chan *ServientService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go b.aggregate(ctx, entries, removed, out)

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, b.browserOptions()...)
	}()

	return out, nil
}

// aggregate tracks services by instance name, merging addresses across
// interfaces and emitting each instance once.
func (b *MDNSBrowser) aggregate(ctx context.Context, entries, removed <-chan *zeroconf.ServiceEntry, out chan<- *ServientService) {
	defer close(out)

	services := make(map[string]*ServientService)

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			svc := entryToServient(entry)
			if svc == nil {
				continue
			}

			existing, found := services[svc.Instance]
			if found {
				existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
			} else {
				services[svc.Instance] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}
			}

		case entry, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			// Drop the addresses that came from this interface; forget the
			// service once none remain.
			if existing, found := services[entry.Instance]; found {
				existing.Addresses = removeAddresses(existing.Addresses, entry)
				if len(existing.Addresses) == 0 {
					delete(services, entry.Instance)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

// Find searches for a specific servient by instance name.
func (b *MDNSBrowser) Find(ctx context.Context, instance string) (*ServientService, error) {
	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case svc, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if svc.Instance == instance {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToServient converts a zeroconf entry to a ServientService. Entries
// with undecodable TXT records are skipped.
func entryToServient(entry *zeroconf.ServiceEntry) *ServientService {
	txt := StringsToTXTRecords(entry.Text)
	info, err := DecodeTXT(txt)
	if err != nil {
		return nil
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &ServientService{
		Instance:  entry.Instance,
		Host:      entry.HostName,
		Port:      uint16(entry.Port),
		Addresses: addrs,
		Path:      info.Path,
		Things:    info.Things,
	}
}

// mergeAddresses adds new addresses to the existing list, avoiding
// duplicates.
func mergeAddresses(existing, found []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range found {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the addresses of a zeroconf entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)
