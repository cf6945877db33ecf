package wsserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wot-protocol/wot-go/pkg/binding"
	"github.com/wot-protocol/wot-go/pkg/events"
	"github.com/wot-protocol/wot-go/pkg/exposed"
	"github.com/wot-protocol/wot-go/pkg/wire"
)

// conn is a single websocket session. Gorilla connections support one
// concurrent writer, so every outbound frame goes through the send channel
// and the write loop.
type conn struct {
	id     string
	ws     *websocket.Conn
	cfg    Config
	logger *slog.Logger

	// ctx is canceled on teardown so in-flight handlers can abort.
	ctx    context.Context
	cancel context.CancelFunc

	send chan []byte
	done chan struct{}

	mu      sync.Mutex
	subs    map[uint64]*events.Subscription
	nextSub uint64
	closed  bool
}

func newConn(ws *websocket.Conn, cfg Config, logger *slog.Logger) *conn {
	ctx, cancel := context.WithCancel(context.Background())
	return &conn{
		id:     uuid.New().String(),
		ws:     ws,
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		subs:   make(map[uint64]*events.Subscription),
	}
}

// run reads and dispatches requests until the socket fails or the session
// is closed. It owns the session teardown.
func (c *conn) run(registry binding.Registry) {
	defer c.close()

	go c.writeLoop()

	if c.cfg.PingInterval > 0 {
		pongWait := 2 * c.cfg.PingInterval
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		c.ws.SetPongHandler(func(string) error {
			return c.ws.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.debugLog("connection read ended", "error", err)
			return
		}
		c.handleMessage(registry, data)
	}
}

// handleMessage decodes one inbound frame and replies. Decoding happens in
// two steps so that a validation failure still answers under the request ID
// the client sent.
func (c *conn) handleMessage(registry binding.Registry, data []byte) {
	var req wire.Request
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply(wire.BadRequestResponse(req.ID, fmt.Errorf("malformed request: %w", err)))
		return
	}
	if err := req.Validate(); err != nil {
		c.reply(wire.BadRequestResponse(req.ID, err))
		return
	}
	c.reply(c.dispatch(registry, &req))
}

// dispatch runs one request against the registry.
func (c *conn) dispatch(registry binding.Registry, req *wire.Request) *wire.Response {
	switch req.Op {
	case wire.OpPing:
		return wire.SuccessResponse(req.ID, "pong")

	case wire.OpUnsubscribe:
		if !c.unsubscribe(req.Subscription) {
			return &wire.Response{
				ID:     req.ID,
				Status: wire.StatusError,
				Code:   wire.CodeNotFound,
				Error:  fmt.Sprintf("unknown subscription: %d", req.Subscription),
			}
		}
		return wire.SuccessResponse(req.ID, nil)
	}

	et, ok := registry.ExposedThing(req.Thing)
	if !ok || !registry.Enabled(et.ID()) {
		return wire.ErrorResponse(req.ID, fmt.Errorf("%w: %s", binding.ErrThingNotFound, req.Thing))
	}

	switch req.Op {
	case wire.OpRead:
		value, err := et.ReadProperty(c.ctx, req.Name)
		if err != nil {
			return wire.ErrorResponse(req.ID, err)
		}
		return wire.SuccessResponse(req.ID, value)

	case wire.OpWrite:
		value, err := req.DecodeValue()
		if err != nil {
			return wire.BadRequestResponse(req.ID, err)
		}
		if err := et.WriteProperty(c.ctx, req.Name, value); err != nil {
			return wire.ErrorResponse(req.ID, err)
		}
		return wire.SuccessResponse(req.ID, nil)

	case wire.OpInvoke:
		input, err := req.DecodeInput()
		if err != nil {
			return wire.BadRequestResponse(req.ID, err)
		}
		result, err := et.InvokeAction(c.ctx, req.Name, input)
		if err != nil {
			return wire.ErrorResponse(req.ID, err)
		}
		return wire.SuccessResponse(req.ID, result)

	case wire.OpSubscribeEvent, wire.OpSubscribeProperty, wire.OpSubscribeTD:
		sub, err := c.subscribe(et, req)
		if err != nil {
			return wire.ErrorResponse(req.ID, err)
		}
		return wire.SuccessResponse(req.ID, c.addSub(sub))

	default:
		return wire.BadRequestResponse(req.ID, fmt.Errorf("unsupported operation: %s", req.Op))
	}
}

func (c *conn) subscribe(et *exposed.ExposedThing, req *wire.Request) (*events.Subscription, error) {
	switch req.Op {
	case wire.OpSubscribeEvent:
		return et.OnEvent(req.Name)
	case wire.OpSubscribeProperty:
		return et.OnPropertyChange(req.Name)
	default:
		return et.OnDescriptionChange(), nil
	}
}

// addSub registers a subscription under a fresh per-connection ID and starts
// forwarding its deliveries.
func (c *conn) addSub(sub *events.Subscription) uint64 {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		sub.Cancel()
		return 0
	}
	c.nextSub++
	id := c.nextSub
	c.subs[id] = sub
	c.mu.Unlock()

	go c.pump(id, sub)
	return id
}

// pump forwards one subscription's deliveries as notification frames until
// the subscription ends.
func (c *conn) pump(id uint64, sub *events.Subscription) {
	defer c.dropSub(id)
	for ev := range sub.C() {
		data, err := wire.EncodeNotification(&wire.Notification{
			Subscription: id,
			Name:         ev.Name,
			Data:         ev.Payload,
		})
		if err != nil {
			c.debugLog("dropping unencodable event", "name", ev.Name, "error", err)
			continue
		}
		c.enqueue(data)
	}
}

func (c *conn) dropSub(id uint64) {
	c.mu.Lock()
	delete(c.subs, id)
	c.mu.Unlock()
}

// unsubscribe cancels a subscription by its per-connection ID. Returns false
// if the ID is unknown.
func (c *conn) unsubscribe(id uint64) bool {
	c.mu.Lock()
	sub, ok := c.subs[id]
	if ok {
		delete(c.subs, id)
	}
	c.mu.Unlock()

	if ok {
		sub.Cancel()
	}
	return ok
}

// reply encodes and queues a response frame.
func (c *conn) reply(resp *wire.Response) {
	data, err := wire.EncodeResponse(resp)
	if err != nil {
		c.debugLog("failed to encode response", "error", err)
		return
	}
	c.enqueue(data)
}

// enqueue hands a frame to the write loop without blocking. Frames for
// consumers that outrun the send buffer are dropped.
func (c *conn) enqueue(data []byte) {
	select {
	case c.send <- data:
	case <-c.done:
	default:
		c.debugLog("send buffer full, dropping frame")
	}
}

// writeLoop is the only goroutine writing to the socket. It drains the send
// queue, emits keepalive pings, and sends a close frame on teardown.
func (c *conn) writeLoop() {
	defer c.close()

	var pingC <-chan time.Time
	if c.cfg.PingInterval > 0 {
		ticker := time.NewTicker(c.cfg.PingInterval)
		defer ticker.Stop()
		pingC = ticker.C
	}

	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.debugLog("connection write failed", "error", err)
				return
			}

		case <-pingC:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.write(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *conn) write(messageType int, data []byte) error {
	if c.cfg.WriteTimeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	return c.ws.WriteMessage(messageType, data)
}

// close tears the session down exactly once: it cancels in-flight handler
// contexts, stops the write loop, cancels every subscription and closes the
// socket.
func (c *conn) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := make([]*events.Subscription, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.subs = make(map[uint64]*events.Subscription)
	c.mu.Unlock()

	c.cancel()
	close(c.done)
	for _, sub := range subs {
		sub.Cancel()
	}
	_ = c.ws.Close()
}

// debugLog logs a debug message if logging is enabled.
func (c *conn) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, append([]any{"conn", c.id}, args...)...)
	}
}
