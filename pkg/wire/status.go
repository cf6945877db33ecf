package wire

import (
	"errors"

	"github.com/wot-protocol/wot-go/pkg/binding"
	"github.com/wot-protocol/wot-go/pkg/exposed"
)

// Status reports whether a request succeeded.
type Status string

const (
	// StatusOK indicates the operation completed successfully.
	StatusOK Status = "ok"

	// StatusError indicates the operation failed; the response carries
	// an error code and message.
	StatusError Status = "error"
)

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusOK
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return s != StatusOK
}

// ErrorCode is a stable machine-readable failure category. Codes never
// change between releases; the accompanying message may.
type ErrorCode string

const (
	// CodeNotFound means the thing or interaction does not exist.
	CodeNotFound ErrorCode = "not-found"

	// CodeNotWritable means a write targeted a read-only property or a
	// non-property interaction.
	CodeNotWritable ErrorCode = "not-writable"

	// CodeUnknownEvent means a subscribe or emit named a missing event.
	CodeUnknownEvent ErrorCode = "unknown-event"

	// CodeUnknownProperty means a property subscription named a missing
	// property or a non-property interaction.
	CodeUnknownProperty ErrorCode = "unknown-property"

	// CodeNotObservable means a change subscription targeted a property
	// that is not observable.
	CodeNotObservable ErrorCode = "not-observable"

	// CodeNoHandler means an action was invoked without an installed
	// handler.
	CodeNoHandler ErrorCode = "no-handler"

	// CodeBadRequest means the request itself was malformed.
	CodeBadRequest ErrorCode = "bad-request"

	// CodeInternal covers handler failures and anything unclassified.
	CodeInternal ErrorCode = "internal"
)

// CodeFor maps a runtime error to its wire code. Unrecognized errors,
// including application handler failures, map to CodeInternal.
func CodeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, binding.ErrThingNotFound):
		return CodeNotFound
	case errors.Is(err, exposed.ErrInteractionNotFound):
		return CodeNotFound
	case errors.Is(err, exposed.ErrPropertyNotWritable):
		return CodeNotWritable
	case errors.Is(err, exposed.ErrUnknownEvent):
		return CodeUnknownEvent
	case errors.Is(err, exposed.ErrUnknownProperty):
		return CodeUnknownProperty
	case errors.Is(err, exposed.ErrNotObservable):
		return CodeNotObservable
	case errors.Is(err, exposed.ErrUndefinedActionHandler):
		return CodeNoHandler
	default:
		return CodeInternal
	}
}
