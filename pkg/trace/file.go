package trace

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileRecorder writes interaction records to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileRecorder struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileRecorder creates a FileRecorder that writes to the specified path.
// If the file exists, new records are appended. The file is created with
// permissions 0644 if it doesn't exist.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Record writes a record to the trace file.
// This method is safe for concurrent use.
func (r *FileRecorder) Record(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	// Ignore encoding errors - tracing must not disrupt the interaction
	_ = r.encoder.Encode(rec)
}

// Close closes the trace file.
// It is safe to call Close multiple times.
// After Close is called, subsequent Record calls are silently ignored.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	return r.file.Close()
}

// Compile-time interface satisfaction check.
var _ Recorder = (*FileRecorder)(nil)
