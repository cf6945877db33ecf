// Package httpserver implements the HTTP protocol binding.
//
// The binding serves a registry of things as a REST-style API:
//
//	GET  /                                   catalogue of enabled TDs
//	GET  /{thing}                            one TD
//	GET  /{thing}/properties/{name}          read a property
//	PUT  /{thing}/properties/{name}          write a property
//	GET  /{thing}/properties/{name}/observe  SSE stream of changes
//	POST /{thing}/actions/{name}             invoke an action
//	POST /{thing}/events/{name}              emit an event
//	GET  /{thing}/events/{name}              SSE stream of emissions
//	GET  /{thing}/td-changes                 SSE stream of TD changes
//
// Property bodies are {"value": v}, action bodies {"input": v} with
// {"result": r} responses, event bodies {"data": v}. Errors carry
// {"error": "..."} with 404 for unknown things and interactions, 403 for
// writes to read-only properties and observes of unobservable ones, 501
// for actions without a handler, and 400 for malformed bodies.
package httpserver
