package trace

import (
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering trace records.
// Empty/nil fields match all records for that criterion.
type Filter struct {
	// ThingID filters by exact thing ID match.
	ThingID string

	// Name filters by interaction name.
	Name string

	// Op filters by interaction kind.
	Op *Op

	// Status filters by outcome.
	Status *Status

	// Since filters records at or after this time.
	Since *time.Time

	// Until filters records before this time.
	Until *time.Time
}

// matches returns true if the record matches all filter criteria.
func (f *Filter) matches(rec Record) bool {
	if f.ThingID != "" && rec.ThingID != f.ThingID {
		return false
	}
	if f.Name != "" && rec.Name != f.Name {
		return false
	}
	if f.Op != nil && rec.Op != *f.Op {
		return false
	}
	if f.Status != nil && rec.Status != *f.Status {
		return false
	}
	if f.Since != nil && rec.Time.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !rec.Time.Before(*f.Until) {
		return false
	}
	return true
}

// Reader reads interaction records from a CBOR-encoded trace file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all records from the specified file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads records matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next record that matches the filter.
// Returns io.EOF when no more records are available.
func (r *Reader) Next() (Record, error) {
	for {
		var rec Record
		if err := r.decoder.Decode(&rec); err != nil {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			return Record{}, err
		}

		if r.filter.matches(rec) {
			return rec, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll reads every record from a trace file.
func ReadAll(path string) ([]Record, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
