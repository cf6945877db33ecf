package wsserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wot-protocol/wot-go/pkg/binding"
)

// Compile-time interface check
var _ binding.Server = (*Server)(nil)

// Server exposes a registry of things over a websocket message protocol.
// Every path upgrades to a websocket; the target thing travels in each
// request frame rather than in the URL.
type Server struct {
	mu       sync.Mutex
	config   Config
	registry binding.Registry
	upgrader websocket.Upgrader
	srv      *http.Server
	listener net.Listener
	conns    map[string]*conn
	wg       sync.WaitGroup

	// Logger for debug output (optional)
	logger *slog.Logger
}

// New creates a websocket binding server for the given registry.
func New(registry binding.Registry, cfg Config) (*Server, error) {
	if registry == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config:   cfg,
		registry: registry,
		conns:    make(map[string]*conn),
		logger:   cfg.Logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s, nil
}

// checkOrigin applies the AllowedOrigins handshake policy.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Scheme returns "ws".
func (s *Server) Scheme() string {
	return "ws"
}

// Addr returns the resolved listen address once started, the configured
// address before that.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = ln

	s.srv = &http.Server{
		Handler:           http.HandlerFunc(s.handleUpgrade),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.debugLog("websocket binding serve failed", "error", err)
		}
	}(s.srv)

	s.debugLog("websocket binding listening", "addr", ln.Addr().String())
	return nil
}

// Stop closes every open session, then shuts the listener down. Stopping a
// stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.listener = nil
	conns := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	for _, c := range conns {
		c.close()
	}
	s.wg.Wait()

	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.debugLog("websocket binding shutdown forced", "error", err)
		return srv.Close()
	}

	s.debugLog("websocket binding stopped")
	return nil
}

// handleUpgrade turns an HTTP request into a websocket session.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stopping := s.srv == nil
	s.mu.Unlock()
	if stopping {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.debugLog("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(ws, s.config, s.logger)
	s.addConn(c)
	s.debugLog("websocket session opened", "conn", c.id, "remote", ws.RemoteAddr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.removeConn(c.id)
		c.run(s.registry)
		s.debugLog("websocket session closed", "conn", c.id)
	}()
}

func (s *Server) addConn(c *conn) {
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
}

func (s *Server) removeConn(id string) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

// debugLog logs a debug message if logging is enabled.
func (s *Server) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
