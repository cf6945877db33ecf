package trace

import "time"

// Record captures a single interaction on an exposed thing.
// CBOR encoding uses integer keys for compactness.
type Record struct {
	// Time when the interaction completed (nanosecond precision).
	Time time.Time `cbor:"1,keyasint"`

	// Op is the interaction kind.
	Op Op `cbor:"2,keyasint"`

	// ThingID identifies the thing the interaction targeted.
	ThingID string `cbor:"3,keyasint"`

	// Name is the interaction name (empty for lifecycle operations).
	Name string `cbor:"4,keyasint,omitempty"`

	// Status is the interaction outcome.
	Status Status `cbor:"5,keyasint"`

	// Value is the value read, written, returned, or emitted.
	Value any `cbor:"6,keyasint,omitempty"`

	// Err is the error message for failed interactions.
	Err string `cbor:"7,keyasint,omitempty"`
}

// Op is the interaction kind.
type Op uint8

const (
	// OpRead is a property read.
	OpRead Op = 0
	// OpWrite is a property write.
	OpWrite Op = 1
	// OpInvoke is an action invocation.
	OpInvoke Op = 2
	// OpEmit is an event emission.
	OpEmit Op = 3
	// OpSubscribe is a subscription creation.
	OpSubscribe Op = 4
	// OpAdd is an interaction addition.
	OpAdd Op = 5
	// OpRemove is an interaction removal.
	OpRemove Op = 6
	// OpExpose is a thing being enabled on its host.
	OpExpose Op = 7
	// OpDestroy is a thing being removed from its host.
	OpDestroy Op = 8
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	case OpInvoke:
		return "INVOKE"
	case OpEmit:
		return "EMIT"
	case OpSubscribe:
		return "SUBSCRIBE"
	case OpAdd:
		return "ADD"
	case OpRemove:
		return "REMOVE"
	case OpExpose:
		return "EXPOSE"
	case OpDestroy:
		return "DESTROY"
	default:
		return "UNKNOWN"
	}
}

// Status is the interaction outcome.
type Status uint8

const (
	// StatusOK indicates the interaction succeeded.
	StatusOK Status = 0
	// StatusError indicates the interaction failed.
	StatusError Status = 1
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
