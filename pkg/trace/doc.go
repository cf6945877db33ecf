// Package trace provides structured interaction tracing for exposed things.
//
// This package defines the Recorder interface and Record type for capturing
// every interaction an exposed thing performs (reads, writes, invocations,
// emissions, description mutations, lifecycle changes). It is separate from
// operational logging (slog) - a trace is a complete machine-readable record
// of runtime behavior for debugging and offline analysis.
//
// # Basic Usage
//
// Applications configure tracing by providing a Recorder implementation:
//
//	// For development: mirror records to slog
//	cfg.Trace = trace.NewSlogRecorder(slog.Default())
//
//	// For production: write to a binary file
//	cfg.Trace, _ = trace.NewFileRecorder("/var/log/wot/servient.trace")
//
//	// Both: use MultiRecorder
//	cfg.Trace = trace.NewMultiRecorder(
//	    trace.NewSlogRecorder(slog.Default()),
//	    fileRecorder,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded records with integer keys.
// Reader streams them back, optionally filtered by thing, operation,
// status, or time window.
package trace
