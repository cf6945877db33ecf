package trace

import "errors"

// MultiRecorder sends records to multiple recorders.
// Useful when you want both console output (via SlogRecorder)
// and file output (via FileRecorder) simultaneously.
type MultiRecorder struct {
	recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder that sends records to all provided recorders.
func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	return &MultiRecorder{recorders: recorders}
}

// Record sends the record to all configured recorders.
func (m *MultiRecorder) Record(rec Record) {
	for _, r := range m.recorders {
		r.Record(rec)
	}
}

// Close closes all configured recorders and joins their errors.
func (m *MultiRecorder) Close() error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compile-time interface satisfaction check.
var _ Recorder = (*MultiRecorder)(nil)
