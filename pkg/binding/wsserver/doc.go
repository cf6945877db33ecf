// Package wsserver exposes things over a websocket message protocol.
//
// Unlike the HTTP binding, a websocket session is multiplexed: one socket
// carries requests for any thing in the registry, and the target thing ID
// travels in each frame. Three frame shapes flow over a session, all JSON
// text frames from the wire package:
//
//   - Request: client to server, correlated by a client-assigned ID.
//   - Response: server to client, answering one request under its ID.
//   - Notification: server to client, pushed for one subscription.
//
// # Subscriptions
//
// The subscribeevent, subscribeproperty and subscribetd operations answer
// with a server-assigned numeric subscription ID. Deliveries then arrive as
// notification frames carrying that ID until the client sends unsubscribe
// or the session ends. All subscriptions die with their session.
//
// Responses and notifications share the session's outbound queue and are
// written in queue order. A client that stops reading long enough to fill
// the queue loses frames rather than stalling the things it observes.
//
// # Keepalive
//
// The server pings idle connections every PingInterval and drops sessions
// that miss two pong deadlines in a row.
package wsserver
