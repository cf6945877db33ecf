// Package wire defines the JSON message schema of the WebSocket binding.
//
// Messages are newline-free JSON objects, one per WebSocket text frame.
//
// # Message Types
//
// There are three message types:
//   - Request: client to servient (read, write, invoke, subscribe ops, ping)
//   - Response: servient to client, correlated with the request by ID
//   - Notification: servient to client, one per subscription delivery
//
// # Correlation
//
// Clients assign request IDs; ID 0 is reserved so a zero-valued message is
// never a valid request. Notifications carry no request ID, only the
// server-assigned subscription ID returned by the subscribe response.
//
// # Error Codes
//
// Failed responses carry a stable machine-readable code alongside the
// human-readable message. Codes never change between releases.
package wire
