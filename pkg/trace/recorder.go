package trace

// Recorder is the interface applications implement to receive interaction
// records. Pass nil or NopRecorder to disable tracing.
type Recorder interface {
	// Record captures one interaction. Implementations must be thread-safe
	// and must never block the interaction being traced.
	Record(rec Record)

	// Close releases any resources held by the recorder.
	Close() error
}

// NopRecorder discards all records. Use when tracing is disabled.
// NopRecorder is safe for concurrent use and usable as a zero value.
type NopRecorder struct{}

// Record discards the record.
func (NopRecorder) Record(Record) {}

// Close does nothing.
func (NopRecorder) Close() error { return nil }

// Compile-time interface satisfaction check.
var _ Recorder = NopRecorder{}
