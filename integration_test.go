package wot_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wot-protocol/wot-go/pkg/discovery"
	"github.com/wot-protocol/wot-go/pkg/examples"
	"github.com/wot-protocol/wot-go/pkg/servient"
	"github.com/wot-protocol/wot-go/pkg/wire"
)

// TestE2E_Discovery tests that a running servient can be discovered via mDNS.
func TestE2E_Discovery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := servient.DefaultConfig()
	cfg.Hostname = "e2e-discovery"
	cfg.EnableWS = false
	cfg.EnableMDNS = true
	cfg.HTTP.Addr = "127.0.0.1:0"

	sv, err := servient.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create servient: %v", err)
	}
	exposeExamples(t, sv)
	if err := sv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start servient: %v", err)
	}
	defer func() {
		if err := sv.Shutdown(context.Background()); err != nil {
			t.Errorf("Failed to shut down servient: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	browser := discovery.NewMDNSBrowser(discovery.DefaultConfig())
	svc, err := browser.Find(ctx, "e2e-discovery")
	if err != nil {
		t.Fatalf("Failed to discover servient: %v", err)
	}

	if svc.Instance != "e2e-discovery" {
		t.Errorf("Instance = %q, want %q", svc.Instance, "e2e-discovery")
	}
	_, portStr, err := net.SplitHostPort(bindingAddr(t, sv, "http"))
	if err != nil {
		t.Fatalf("Failed to split HTTP address: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Failed to parse HTTP port: %v", err)
	}
	if int(svc.Port) != port {
		t.Errorf("Port = %d, want %d", svc.Port, port)
	}
	if svc.Things != 2 {
		t.Errorf("Things = %d, want 2", svc.Things)
	}
	if svc.Path != "/" {
		t.Errorf("Path = %q, want %q", svc.Path, "/")
	}

	t.Logf("Discovered %s at port %d announcing %d things", svc.Instance, svc.Port, svc.Things)
}

// TestE2E_HTTPReadWriteInvoke drives the demo lamp over the HTTP binding:
// property reads and writes, then an action invocation that flips state.
func TestE2E_HTTPReadWriteInvoke(t *testing.T) {
	_, httpURL, _ := startServient(t)

	if got := readProperty(t, httpURL, "my-lamp", "on"); got != false {
		t.Fatalf("Initial on = %v, want false", got)
	}

	writeProperty(t, httpURL, "my-lamp", "on", true)
	if got := readProperty(t, httpURL, "my-lamp", "on"); got != true {
		t.Fatalf("on after write = %v, want true", got)
	}

	resp, err := http.Post(httpURL+"/my-lamp/actions/toggle", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("Failed to invoke toggle: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Toggle returned status %d, want 200", resp.StatusCode)
	}
	var result struct {
		Result any `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode action result: %v", err)
	}
	if result.Result != false {
		t.Errorf("Toggle result = %v, want false", result.Result)
	}
	if got := readProperty(t, httpURL, "my-lamp", "on"); got != false {
		t.Errorf("on after toggle = %v, want false", got)
	}

	notFound, err := http.Get(httpURL + "/no-such-thing/properties/on")
	if err != nil {
		t.Fatalf("Failed to read unknown thing: %v", err)
	}
	notFound.Body.Close()
	if notFound.StatusCode != http.StatusNotFound {
		t.Errorf("Unknown thing returned status %d, want 404", notFound.StatusCode)
	}
}

// TestE2E_Catalogue tests that the catalogue and the TD routes track
// enabling and disabling of things.
func TestE2E_Catalogue(t *testing.T) {
	sv, httpURL, _ := startServient(t)

	tds := fetchCatalogue(t, httpURL)
	if len(tds) != 2 {
		t.Fatalf("Catalogue has %d things, want 2", len(tds))
	}
	titles := make(map[string]bool)
	for _, td := range tds {
		titles[td.Title] = true
	}
	if !titles["My Lamp"] || !titles["Temperature Sensor"] {
		t.Errorf("Catalogue titles = %v, want My Lamp and Temperature Sensor", titles)
	}

	if err := sv.DisableThing("my-lamp"); err != nil {
		t.Fatalf("Failed to disable lamp: %v", err)
	}
	tds = fetchCatalogue(t, httpURL)
	if len(tds) != 1 {
		t.Fatalf("Catalogue has %d things after disable, want 1", len(tds))
	}
	if tds[0].Title != "Temperature Sensor" {
		t.Errorf("Remaining thing = %q, want %q", tds[0].Title, "Temperature Sensor")
	}
	resp, err := http.Get(httpURL + "/my-lamp")
	if err != nil {
		t.Fatalf("Failed to fetch TD: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Disabled thing TD returned status %d, want 404", resp.StatusCode)
	}

	if err := sv.EnableThing("my-lamp"); err != nil {
		t.Fatalf("Failed to re-enable lamp: %v", err)
	}
	if tds = fetchCatalogue(t, httpURL); len(tds) != 2 {
		t.Errorf("Catalogue has %d things after re-enable, want 2", len(tds))
	}
}

// TestE2E_EventStream tests that an emitted event reaches a client streaming
// the event over SSE.
func TestE2E_EventStream(t *testing.T) {
	sv, httpURL, _ := startServient(t)

	sensor, ok := sv.ExposedThing("temperature-sensor")
	if !ok {
		t.Fatal("Sensor not registered")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpURL+"/temperature-sensor/events/threshold-crossed", nil)
	if err != nil {
		t.Fatalf("Failed to build stream request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to open event stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Event stream returned status %d, want 200", resp.StatusCode)
	}

	// The subscription is registered before the response headers are
	// written, so emitting now cannot lose the event.
	if err := examples.EmitThresholdCrossed(sensor, 30.5, 25.0); err != nil {
		t.Fatalf("Failed to emit event: %v", err)
	}

	// Abort the stream if the event never arrives.
	abort := time.AfterFunc(5*time.Second, cancel)
	defer abort.Stop()

	var eventName, data string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventName = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
		if eventName != "" && data != "" {
			break
		}
	}
	if eventName == "" || data == "" {
		t.Fatalf("Stream ended before a full event arrived: %v", scanner.Err())
	}

	if eventName != "threshold-crossed" {
		t.Errorf("Event name = %q, want %q", eventName, "threshold-crossed")
	}
	var crossing struct {
		Temperature float64 `json:"temperature"`
		Threshold   float64 `json:"threshold"`
	}
	if err := json.Unmarshal([]byte(data), &crossing); err != nil {
		t.Fatalf("Failed to decode event payload %q: %v", data, err)
	}
	if crossing.Temperature != 30.5 || crossing.Threshold != 25.0 {
		t.Errorf("Payload = %+v, want temperature 30.5 threshold 25", crossing)
	}
}

// TestE2E_WebSocketSession drives the demo lamp over the websocket binding:
// ping, read, write, invoke, and an error for an unknown thing.
func TestE2E_WebSocketSession(t *testing.T) {
	_, _, wsURL := startServient(t)
	ws := dialWS(t, wsURL)

	resp := roundTrip(t, ws, &wire.Request{ID: 1, Op: wire.OpPing})
	if !resp.IsSuccess() || resp.Value != "pong" {
		t.Fatalf("Ping response = %+v, want pong", resp)
	}

	resp = roundTrip(t, ws, &wire.Request{ID: 2, Op: wire.OpRead, Thing: "my-lamp", Name: "on"})
	if resp.Value != false {
		t.Fatalf("on = %v, want false", resp.Value)
	}

	resp = roundTrip(t, ws, &wire.Request{ID: 3, Op: wire.OpWrite, Thing: "my-lamp", Name: "on", Value: json.RawMessage("true")})
	if !resp.IsSuccess() {
		t.Fatalf("Write failed: %s %s", resp.Code, resp.Error)
	}

	resp = roundTrip(t, ws, &wire.Request{ID: 4, Op: wire.OpRead, Thing: "my-lamp", Name: "on"})
	if resp.Value != true {
		t.Fatalf("on after write = %v, want true", resp.Value)
	}

	resp = roundTrip(t, ws, &wire.Request{ID: 5, Op: wire.OpInvoke, Thing: "my-lamp", Name: "toggle"})
	if !resp.IsSuccess() {
		t.Fatalf("Invoke failed: %s %s", resp.Code, resp.Error)
	}
	if resp.Value != false {
		t.Errorf("Toggle result = %v, want false", resp.Value)
	}

	resp = roundTrip(t, ws, &wire.Request{ID: 6, Op: wire.OpRead, Thing: "no-such-thing", Name: "on"})
	if resp.IsSuccess() {
		t.Fatal("Read of unknown thing succeeded, want error")
	}
	if resp.Code != wire.CodeNotFound {
		t.Errorf("Error code = %q, want %q", resp.Code, wire.CodeNotFound)
	}
}

// TestE2E_WebSocketSubscription tests property change notifications over the
// websocket binding, including silence after unsubscribing.
func TestE2E_WebSocketSubscription(t *testing.T) {
	_, _, wsURL := startServient(t)
	ws := dialWS(t, wsURL)

	resp := roundTrip(t, ws, &wire.Request{ID: 1, Op: wire.OpSubscribeProperty, Thing: "my-lamp", Name: "brightness"})
	if !resp.IsSuccess() {
		t.Fatalf("Subscribe failed: %s %s", resp.Code, resp.Error)
	}
	subID, ok := resp.Value.(float64)
	if !ok || subID == 0 {
		t.Fatalf("Subscribe returned %v (%T), want a numeric subscription ID", resp.Value, resp.Value)
	}

	// The write response and the change notification race onto the socket.
	sendWS(t, ws, &wire.Request{ID: 2, Op: wire.OpWrite, Thing: "my-lamp", Name: "brightness", Value: json.RawMessage("42")})
	resps, notes := readWSFrames(t, ws, 2)
	if len(resps) != 1 || len(notes) != 1 {
		t.Fatalf("Got %d responses and %d notifications, want one of each", len(resps), len(notes))
	}
	if !resps[0].IsSuccess() {
		t.Fatalf("Write failed: %s %s", resps[0].Code, resps[0].Error)
	}
	note := notes[0]
	if note.Subscription != uint64(subID) {
		t.Errorf("Notification subscription = %d, want %d", note.Subscription, uint64(subID))
	}
	if note.Name != "brightness" {
		t.Errorf("Notification name = %q, want %q", note.Name, "brightness")
	}
	if note.Data != float64(42) {
		t.Errorf("Notification data = %v, want 42", note.Data)
	}

	resp = roundTrip(t, ws, &wire.Request{ID: 3, Op: wire.OpUnsubscribe, Subscription: uint64(subID)})
	if !resp.IsSuccess() {
		t.Fatalf("Unsubscribe failed: %s %s", resp.Code, resp.Error)
	}

	// After unsubscribing a write answers with just its response.
	resp = roundTrip(t, ws, &wire.Request{ID: 4, Op: wire.OpWrite, Thing: "my-lamp", Name: "brightness", Value: json.RawMessage("7")})
	if !resp.IsSuccess() {
		t.Fatalf("Write after unsubscribe failed: %s %s", resp.Code, resp.Error)
	}
	if err := ws.SetReadDeadline(time.Now().Add(300 * time.Millisecond)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Fatal("Received a frame after unsubscribe, want silence")
	}
}

// TestE2E_Restart tests that a stopped servient can start again and that
// registered things survive the restart but stay hidden until re-exposed.
func TestE2E_Restart(t *testing.T) {
	sv, httpURL, _ := startServient(t)

	if got := readProperty(t, httpURL, "my-lamp", "on"); got != false {
		t.Fatalf("Initial on = %v, want false", got)
	}

	if err := sv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Failed to shut down servient: %v", err)
	}
	if _, err := http.Get(httpURL + "/"); err == nil {
		t.Fatal("Catalogue still reachable after shutdown")
	}

	lamp, ok := sv.ExposedThing("my-lamp")
	if !ok {
		t.Fatal("Lamp did not survive the restart")
	}

	if err := sv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to restart servient: %v", err)
	}
	httpURL = "http://" + bindingAddr(t, sv, "http")

	if tds := fetchCatalogue(t, httpURL); len(tds) != 0 {
		t.Fatalf("Catalogue has %d things after restart, want 0 before re-exposing", len(tds))
	}

	if err := lamp.Expose(); err != nil {
		t.Fatalf("Failed to re-expose lamp: %v", err)
	}
	tds := fetchCatalogue(t, httpURL)
	if len(tds) != 1 || tds[0].Title != "My Lamp" {
		t.Fatalf("Catalogue = %+v, want just the lamp", tds)
	}

	t.Logf("Servient restarted on %s with %d thing exposed", httpURL, len(tds))
}

// startServient boots a servient with the demo lamp and sensor exposed over
// HTTP and websocket on loopback ports. It returns the servient and the base
// URLs of both bindings.
func startServient(t *testing.T) (*servient.Servient, string, string) {
	t.Helper()

	cfg := servient.DefaultConfig()
	cfg.Hostname = "e2e-servient"
	cfg.EnableMDNS = false
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.WS.Addr = "127.0.0.1:0"

	sv, err := servient.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create servient: %v", err)
	}
	exposeExamples(t, sv)

	if err := sv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start servient: %v", err)
	}
	t.Cleanup(func() {
		if sv.State() == servient.StateRunning {
			if err := sv.Shutdown(context.Background()); err != nil {
				t.Errorf("Failed to shut down servient: %v", err)
			}
		}
	})

	return sv, "http://" + bindingAddr(t, sv, "http"), "ws://" + bindingAddr(t, sv, "ws")
}

// exposeExamples registers the demo lamp and sensor and exposes both.
func exposeExamples(t *testing.T, sv *servient.Servient) {
	t.Helper()
	lamp, err := examples.NewLamp(sv)
	if err != nil {
		t.Fatalf("Failed to create lamp: %v", err)
	}
	if err := lamp.Expose(); err != nil {
		t.Fatalf("Failed to expose lamp: %v", err)
	}
	sensor, err := examples.NewSensor(sv)
	if err != nil {
		t.Fatalf("Failed to create sensor: %v", err)
	}
	if err := sensor.Expose(); err != nil {
		t.Fatalf("Failed to expose sensor: %v", err)
	}
}

// bindingAddr returns the resolved listen address of the binding with the
// given scheme.
func bindingAddr(t *testing.T, sv *servient.Servient, scheme string) string {
	t.Helper()
	for _, srv := range sv.Servers() {
		if srv.Scheme() == scheme {
			return srv.Addr()
		}
	}
	t.Fatalf("No %s binding registered", scheme)
	return ""
}

// readProperty fetches a property value over HTTP.
func readProperty(t *testing.T, baseURL, thingName, property string) any {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("%s/%s/properties/%s", baseURL, thingName, property))
	if err != nil {
		t.Fatalf("Failed to read property %s: %v", property, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Read of %s returned status %d, want 200", property, resp.StatusCode)
	}
	var body struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode property response: %v", err)
	}
	return body.Value
}

// writeProperty writes a property value over HTTP and expects 204.
func writeProperty(t *testing.T, baseURL, thingName, property string, value any) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		t.Fatalf("Failed to marshal property value: %v", err)
	}
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/%s/properties/%s", baseURL, thingName, property), bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to build write request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to write property %s: %v", property, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Write of %s returned status %d, want 204", property, resp.StatusCode)
	}
}

// catalogueEntry is the slice of a TD the catalogue assertions care about.
type catalogueEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// fetchCatalogue fetches and decodes the thing catalogue.
func fetchCatalogue(t *testing.T, baseURL string) []catalogueEntry {
	t.Helper()
	resp, err := http.Get(baseURL + "/")
	if err != nil {
		t.Fatalf("Failed to fetch catalogue: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Catalogue returned status %d, want 200", resp.StatusCode)
	}
	var tds []catalogueEntry
	if err := json.NewDecoder(resp.Body).Decode(&tds); err != nil {
		t.Fatalf("Failed to decode catalogue: %v", err)
	}
	return tds
}

// dialWS opens a websocket connection to the servient.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL+"/", nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", wsURL, err)
	}
	resp.Body.Close()
	t.Cleanup(func() { ws.Close() })
	return ws
}

// sendWS encodes and sends one request frame.
func sendWS(t *testing.T, ws *websocket.Conn, req *wire.Request) {
	t.Helper()
	data, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
}

// readWSFrames reads n frames and sorts them by type. A response and a
// notification triggered by the same request race onto the socket, so
// callers expecting both must not assume an order.
func readWSFrames(t *testing.T, ws *websocket.Conn, n int) ([]*wire.Response, []*wire.Notification) {
	t.Helper()
	var resps []*wire.Response
	var notes []*wire.Notification
	for i := 0; i < n; i++ {
		if err := ws.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			t.Fatalf("Failed to set read deadline: %v", err)
		}
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read frame %d of %d: %v", i+1, n, err)
		}
		kind, err := wire.PeekMessageType(data)
		if err != nil {
			t.Fatalf("Failed to classify frame: %v", err)
		}
		switch kind {
		case wire.MessageTypeResponse:
			resp, err := wire.DecodeResponse(data)
			if err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			resps = append(resps, resp)
		case wire.MessageTypeNotification:
			note, err := wire.DecodeNotification(data)
			if err != nil {
				t.Fatalf("Failed to decode notification: %v", err)
			}
			notes = append(notes, note)
		default:
			t.Fatalf("Unexpected frame type %v", kind)
		}
	}
	return resps, notes
}

// roundTrip sends a request and reads the single response for it. Only valid
// while the connection has no active subscription that the request would
// trigger.
func roundTrip(t *testing.T, ws *websocket.Conn, req *wire.Request) *wire.Response {
	t.Helper()
	sendWS(t, ws, req)
	resps, notes := readWSFrames(t, ws, 1)
	if len(notes) != 0 || len(resps) != 1 {
		t.Fatalf("Got %d responses and %d notifications, want exactly one response", len(resps), len(notes))
	}
	if resps[0].ID != req.ID {
		t.Fatalf("Response ID = %d, want %d", resps[0].ID, req.ID)
	}
	return resps[0]
}
