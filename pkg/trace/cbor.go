package trace

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// traceEncMode is the CBOR encoder mode for trace records.
// Configured for nanosecond-precision timestamps and deterministic encoding.
var traceEncMode cbor.EncMode

// traceDecMode is the CBOR decoder mode for trace records.
var traceDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	traceEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	traceDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// EncodeRecord encodes a Record to CBOR bytes using integer keys for compactness.
func EncodeRecord(rec Record) ([]byte, error) {
	return traceEncMode.Marshal(rec)
}

// DecodeRecord decodes CBOR bytes into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := traceDecMode.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// NewEncoder creates a CBOR encoder for trace records that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for trace records that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
