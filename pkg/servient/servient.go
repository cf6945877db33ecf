package servient

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/wot-protocol/wot-go/pkg/binding"
	"github.com/wot-protocol/wot-go/pkg/binding/httpserver"
	"github.com/wot-protocol/wot-go/pkg/binding/wsserver"
	"github.com/wot-protocol/wot-go/pkg/discovery"
	"github.com/wot-protocol/wot-go/pkg/exposed"
	"github.com/wot-protocol/wot-go/pkg/thing"
	"github.com/wot-protocol/wot-go/pkg/trace"
)

// Servient hosts exposed things and serves them over protocol bindings.
// It is the registry the bindings resolve things from and the host the
// things delegate their lifecycle to.
type Servient struct {
	mu sync.RWMutex

	config Config
	state  State

	// things maps thing ID to facade. urlNames maps URL names to IDs so
	// bindings can resolve path segments; on a collision the first
	// registered thing keeps the name. enabled holds the IDs currently
	// served.
	things   map[string]*exposed.ExposedThing
	urlNames map[string]string
	enabled  map[string]struct{}

	// servers are the protocol bindings, started in order and stopped in
	// reverse. http is the catalogue binding the advertisement points at.
	servers []binding.Server
	http    *httpserver.Server

	// advertiser announces the servient over mDNS. Created on Start
	// unless injected via SetAdvertiser.
	advertiser discovery.Advertiser

	// trace receives every thing interaction when TraceFile is set.
	// Closed on Shutdown.
	trace *trace.FileRecorder

	// Logger for debug output (optional)
	logger *slog.Logger
}

// Compile-time checks: the servient is both the host things delegate to
// and the registry bindings resolve from.
var (
	_ exposed.Host     = (*Servient)(nil)
	_ binding.Registry = (*Servient)(nil)
)

// New creates a servient with the given configuration.
func New(config Config) (*Servient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Servient{
		config:   config,
		things:   make(map[string]*exposed.ExposedThing),
		urlNames: make(map[string]string),
		enabled:  make(map[string]struct{}),
		logger:   config.Logger,
	}

	if config.EnableHTTP {
		httpCfg := config.HTTP
		if httpCfg.Logger == nil {
			httpCfg.Logger = config.Logger
		}
		srv, err := httpserver.New(s, httpCfg)
		if err != nil {
			return nil, err
		}
		s.http = srv
		s.servers = append(s.servers, srv)
	}

	if config.EnableWS {
		wsCfg := config.WS
		if wsCfg.Logger == nil {
			wsCfg.Logger = config.Logger
		}
		srv, err := wsserver.New(s, wsCfg)
		if err != nil {
			return nil, err
		}
		s.servers = append(s.servers, srv)
	}

	if config.TraceFile != "" {
		rec, err := trace.NewFileRecorder(config.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		s.trace = rec
	}

	return s, nil
}

// State returns the lifecycle state.
func (s *Servient) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Servers returns the registered protocol bindings.
func (s *Servient) Servers() []binding.Server {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]binding.Server, len(s.servers))
	copy(out, s.servers)
	return out
}

// AddServer registers an additional protocol binding. It must be called
// before Start.
func (s *Servient) AddServer(srv binding.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle && s.state != StateStopped {
		return ErrAlreadyStarted
	}
	s.servers = append(s.servers, srv)
	return nil
}

// SetAdvertiser sets the discovery advertiser (for testing/DI).
func (s *Servient) SetAdvertiser(adv discovery.Advertiser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advertiser = adv
}

// Produce creates an exposed thing with the given title, hosted by this
// servient. The thing stays hidden until its Expose method is called.
func (s *Servient) Produce(title string) (*exposed.ExposedThing, error) {
	return s.ProduceFromThing(thing.New(title))
}

// ProduceFromThing wraps an existing thing model in an exposed thing
// hosted by this servient.
func (s *Servient) ProduceFromThing(th *thing.Thing) (*exposed.ExposedThing, error) {
	cfg := exposed.DefaultConfig()
	cfg.Host = s
	cfg.Logger = s.config.Logger
	if s.trace != nil {
		cfg.Trace = s.trace
	}

	et, err := exposed.New(th, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.AddThing(et); err != nil {
		return nil, err
	}
	return et, nil
}

// AddThing registers an already-built exposed thing.
func (s *Servient) AddThing(et *exposed.ExposedThing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := et.ID()
	if _, exists := s.things[id]; exists {
		return ErrThingAlreadyAdded
	}
	s.things[id] = et

	urlName := et.Thing().URLName()
	if _, taken := s.urlNames[urlName]; !taken {
		s.urlNames[urlName] = id
	}

	s.debugLog("thing added", "id", id, "title", et.Title())
	return nil
}

// ExposedThing resolves a thing by ID or URL name.
func (s *Servient) ExposedThing(id string) (*exposed.ExposedThing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(id)
}

func (s *Servient) lookupLocked(id string) (*exposed.ExposedThing, bool) {
	if et, ok := s.things[id]; ok {
		return et, true
	}
	if tid, ok := s.urlNames[id]; ok {
		if et, ok := s.things[tid]; ok {
			return et, true
		}
	}
	return nil, false
}

// Enabled reports whether the thing is currently exposed.
func (s *Servient) Enabled(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	et, ok := s.lookupLocked(id)
	if !ok {
		return false
	}
	_, on := s.enabled[et.ID()]
	return on
}

// Things returns all registered things, enabled or not, sorted by ID.
func (s *Servient) Things() []*exposed.ExposedThing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*exposed.ExposedThing, 0, len(s.things))
	for _, et := range s.things {
		out = append(out, et)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}

// EnableThing starts serving the identified thing on the bindings.
func (s *Servient) EnableThing(id string) error {
	s.mu.Lock()
	et, ok := s.lookupLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrThingNotFound
	}
	s.enabled[et.ID()] = struct{}{}
	s.mu.Unlock()

	s.debugLog("thing enabled", "id", et.ID())
	s.refreshAdvertisement()
	return nil
}

// DisableThing hides the thing from the bindings without forgetting it.
func (s *Servient) DisableThing(id string) error {
	s.mu.Lock()
	et, ok := s.lookupLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrThingNotFound
	}
	delete(s.enabled, et.ID())
	s.mu.Unlock()

	s.debugLog("thing disabled", "id", et.ID())
	s.refreshAdvertisement()
	return nil
}

// RemoveThing stops serving the identified thing and forgets it.
func (s *Servient) RemoveThing(id string) error {
	s.mu.Lock()
	et, ok := s.lookupLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrThingNotFound
	}
	tid := et.ID()
	delete(s.things, tid)
	delete(s.enabled, tid)
	urlName := et.Thing().URLName()
	if s.urlNames[urlName] == tid {
		delete(s.urlNames, urlName)
	}
	s.mu.Unlock()

	s.debugLog("thing removed", "id", tid)
	s.refreshAdvertisement()
	return nil
}

// Start brings up the protocol bindings and, when enabled, the mDNS
// advertisement.
func (s *Servient) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle && s.state != StateStopped {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateStarting
	servers := s.servers
	s.mu.Unlock()

	for i, srv := range servers {
		if err := srv.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = servers[j].Stop(ctx)
			}
			s.mu.Lock()
			s.state = StateIdle
			s.mu.Unlock()
			return fmt.Errorf("failed to start %s binding: %w", srv.Scheme(), err)
		}
		s.debugLog("binding started", "scheme", srv.Scheme(), "addr", srv.Addr())
	}

	if s.config.EnableMDNS {
		s.mu.Lock()
		if s.advertiser == nil {
			s.advertiser = discovery.NewMDNSAdvertiser(s.config.MDNS)
		}
		adv := s.advertiser
		info := s.servientInfoLocked()
		s.mu.Unlock()

		if err := adv.Advertise(ctx, info); err != nil {
			for j := len(servers) - 1; j >= 0; j-- {
				_ = servers[j].Stop(ctx)
			}
			s.mu.Lock()
			s.state = StateIdle
			s.mu.Unlock()
			return fmt.Errorf("failed to advertise servient: %w", err)
		}
		s.debugLog("advertising", "instance", info.Instance, "port", info.Port)
	}

	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	s.debugLog("servient running", "hostname", s.config.Hostname)
	return nil
}

// Shutdown stops the advertisement and the bindings in reverse start
// order, then disables every thing. Registered things survive a restart
// but must be exposed again.
func (s *Servient) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.state = StateStopping
	adv := s.advertiser
	servers := s.servers
	s.mu.Unlock()

	if adv != nil {
		if err := adv.Stop(); err != nil {
			s.debugLog("advertisement stop failed", "error", err)
		}
	}

	var firstErr error
	for i := len(servers) - 1; i >= 0; i-- {
		if err := servers[i].Stop(ctx); err != nil {
			s.debugLog("binding stop failed", "scheme", servers[i].Scheme(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	s.mu.Lock()
	s.enabled = make(map[string]struct{})
	s.state = StateStopped
	s.mu.Unlock()

	if s.trace != nil {
		_ = s.trace.Close()
	}

	s.debugLog("servient stopped")
	return firstErr
}

// refreshAdvertisement pushes the current thing count into the running
// mDNS advertisement. Registry changes never fail because of it.
func (s *Servient) refreshAdvertisement() {
	s.mu.RLock()
	adv := s.advertiser
	running := s.state == StateRunning
	info := s.servientInfoLocked()
	s.mu.RUnlock()

	if adv == nil || !running {
		return
	}
	if err := adv.Update(info); err != nil {
		s.debugLog("advertisement update failed", "error", err)
	}
}

// servientInfoLocked builds the discovery record. Callers hold s.mu.
func (s *Servient) servientInfoLocked() *discovery.ServientInfo {
	port := uint16(discovery.DefaultPort)
	if s.http != nil {
		port = parsePort(s.http.Addr())
	}
	return &discovery.ServientInfo{
		Instance: s.config.Hostname,
		Port:     port,
		Path:     "/",
		Things:   len(s.enabled),
	}
}

// parsePort extracts the port from a listen address (e.g., ":8080" -> 8080).
func parsePort(addr string) uint16 {
	// Handle formats: ":8080", "0.0.0.0:8080", "localhost:8080"
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			var port uint16
			for j := i + 1; j < len(addr); j++ {
				port = port*10 + uint16(addr[j]-'0')
			}
			return port
		}
	}
	return discovery.DefaultPort
}

func (s *Servient) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
