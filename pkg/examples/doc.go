// Package examples provides reference things demonstrating how to build
// devices with the wot-go library.
//
// The example things show:
//   - Affordance construction (properties, actions, events with schemas)
//   - Default handler state versus custom handler overrides
//   - Action handlers driving property state through the facade
//   - Event emission helpers
//
// Available examples:
//   - Lamp: a switchable light with brightness and an overheated event
//   - Sensor: a temperature sensor with a simulated source and calibration
//
// Both are used by the wot-servient demo mode and can serve as templates
// for real device implementations.
package examples
