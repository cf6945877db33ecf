package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/wot-protocol/wot-go/pkg/binding"
	"github.com/wot-protocol/wot-go/pkg/events"
	"github.com/wot-protocol/wot-go/pkg/exposed"
)

// Compile-time interface check
var _ binding.Server = (*Server)(nil)

// Server exposes a registry of things over HTTP. It serves the Thing
// Description catalogue, the interaction verbs as JSON endpoints, and
// subscriptions as Server-Sent Event streams.
type Server struct {
	mu       sync.Mutex
	config   Config
	registry binding.Registry
	router   chi.Router
	srv      *http.Server
	listener net.Listener

	// Logger for debug output (optional)
	logger *slog.Logger
}

// New creates an HTTP binding server for the given registry.
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
		logger:   cfg.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// routes builds the binding's route tree.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.handleCatalogue)
	r.Route("/{thing}", func(r chi.Router) {
		r.Get("/", s.handleDescription)
		r.Get("/td-changes", s.handleDescriptionStream)
		r.Route("/properties/{name}", func(r chi.Router) {
			r.Get("/", s.handleReadProperty)
			r.Put("/", s.handleWriteProperty)
			r.Get("/observe", s.handleObserveProperty)
		})
		r.Post("/actions/{name}", s.handleInvokeAction)
		r.Get("/events/{name}", s.handleEventStream)
		r.Post("/events/{name}", s.handleEmitEvent)
	})

	return r
}

// Handler returns the binding's HTTP handler, for tests and for mounting
// the binding under an existing server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Scheme returns "http".
func (s *Server) Scheme() string {
	return "http"
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
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.debugLog("HTTP binding serve failed", "error", err)
		}
	}(s.srv)

	s.debugLog("HTTP binding listening", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the server down, waiting up to ShutdownTimeout for in-flight
// requests. Connections still open after that, such as event streams, are
// closed forcibly. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.debugLog("HTTP binding shutdown forced", "error", err)
		return srv.Close()
	}

	s.debugLog("HTTP binding stopped")
	return nil
}

// thingFor resolves an enabled thing by ID or URL name.
func (s *Server) thingFor(id string) (*exposed.ExposedThing, error) {
	et, ok := s.registry.ExposedThing(id)
	if !ok || !s.registry.Enabled(et.ID()) {
		return nil, fmt.Errorf("%w: %s", binding.ErrThingNotFound, id)
	}
	return et, nil
}

// handleCatalogue returns the TDs of all enabled things as a JSON array.
func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	catalogue := make([]json.RawMessage, 0)
	for _, et := range s.registry.Things() {
		if !s.registry.Enabled(et.ID()) {
			continue
		}
		td, err := et.ThingDescription()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		catalogue = append(catalogue, td)
	}
	writeJSON(w, http.StatusOK, catalogue)
}

// handleDescription returns one thing's TD.
func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	td, err := et.ThingDescription()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(td)
}

func (s *Server) handleReadProperty(w http.ResponseWriter, r *http.Request) {
	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	value, err := et.ReadProperty(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, propertyBody{Value: value})
}

func (s *Server) handleWriteProperty(w http.ResponseWriter, r *http.Request) {
	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var body propertyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed body: %w", err))
		return
	}

	if err := et.WriteProperty(r.Context(), chi.URLParam(r, "name"), body.Value); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvokeAction(w http.ResponseWriter, r *http.Request) {
	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	// The body is optional: actions may take no input.
	var body actionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed body: %w", err))
		return
	}

	result, err := et.InvokeAction(r.Context(), chi.URLParam(r, "name"), body.Input)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, actionResult{Result: result})
}

func (s *Server) handleEmitEvent(w http.ResponseWriter, r *http.Request) {
	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var body eventBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed body: %w", err))
		return
	}

	if err := et.EmitEvent(chi.URLParam(r, "name"), body.Data); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleObserveProperty streams property change payloads over SSE.
func (s *Server) handleObserveProperty(w http.ResponseWriter, r *http.Request) {
	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	sub, err := et.OnPropertyChange(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	defer sub.Cancel()

	s.streamEvents(w, r, sub)
}

// handleEventStream streams emissions of one event over SSE.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		writeError(w, http.StatusNotAcceptable,
			errors.New("event streams require Accept: text/event-stream"))
		return
	}

	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	sub, err := et.OnEvent(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	defer sub.Cancel()

	s.streamEvents(w, r, sub)
}

// handleDescriptionStream streams description change payloads over SSE.
func (s *Server) handleDescriptionStream(w http.ResponseWriter, r *http.Request) {
	et, err := s.thingFor(chi.URLParam(r, "thing"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	sub := et.OnDescriptionChange()
	defer sub.Cancel()

	s.streamEvents(w, r, sub)
}

// streamEvents writes one SSE message per delivered event until the client
// disconnects or the subscription ends.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request, sub *events.Subscription) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				s.debugLog("dropping unencodable event", "name", ev.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// statusFor maps runtime errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, binding.ErrThingNotFound),
		errors.Is(err, exposed.ErrInteractionNotFound),
		errors.Is(err, exposed.ErrUnknownProperty),
		errors.Is(err, exposed.ErrUnknownEvent):
		return http.StatusNotFound
	case errors.Is(err, exposed.ErrPropertyNotWritable),
		errors.Is(err, exposed.ErrNotObservable):
		return http.StatusForbidden
	case errors.Is(err, exposed.ErrUndefinedActionHandler):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// propertyBody is the JSON body of property reads and writes.
type propertyBody struct {
	Value any `json:"value"`
}

// actionBody is the JSON body of action invocations.
type actionBody struct {
	Input any `json:"input"`
}

// actionResult is the JSON body of action results.
type actionResult struct {
	Result any `json:"result"`
}

// eventBody is the JSON body of event emissions.
type eventBody struct {
	Data any `json:"data"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// debugLog logs a debug message if logging is enabled.
func (s *Server) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
