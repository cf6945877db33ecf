package trace

import (
	"context"
	"log/slog"
)

// SlogRecorder mirrors interaction records to an slog.Logger.
// Useful for development when you want to see interactions in the console.
type SlogRecorder struct {
	logger *slog.Logger
}

// NewSlogRecorder creates a SlogRecorder that writes to the given slog.Logger.
func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	return &SlogRecorder{logger: logger}
}

// Record writes the record to the slog logger at Debug level.
func (s *SlogRecorder) Record(rec Record) {
	attrs := []slog.Attr{
		slog.String("op", rec.Op.String()),
		slog.String("thing", rec.ThingID),
		slog.String("status", rec.Status.String()),
	}

	if rec.Name != "" {
		attrs = append(attrs, slog.String("name", rec.Name))
	}
	if rec.Value != nil {
		attrs = append(attrs, slog.Any("value", rec.Value))
	}
	if rec.Err != "" {
		attrs = append(attrs, slog.String("error", rec.Err))
	}

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "interaction", attrs...)
}

// Close does nothing; the underlying slog.Logger is owned by the caller.
func (s *SlogRecorder) Close() error { return nil }

// Compile-time interface satisfaction check.
var _ Recorder = (*SlogRecorder)(nil)
