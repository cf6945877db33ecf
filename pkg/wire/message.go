package wire

import (
	"encoding/json"
	"fmt"
)

// Request is a client-to-servient message. Requests are correlated with
// responses by ID; ID 0 is invalid so that a zero-valued message is never
// mistaken for a request.
type Request struct {
	// ID correlates the response. Client-assigned, must be nonzero.
	ID uint64 `json:"id"`

	// Op selects the operation.
	Op Operation `json:"op"`

	// Thing is the target thing ID or URL name. Required for every
	// operation except unsubscribe and ping.
	Thing string `json:"thing,omitempty"`

	// Name is the target interaction name. Required for read, write,
	// invoke, subscribeevent and subscribeproperty.
	Name string `json:"name,omitempty"`

	// Value carries the value for write requests.
	Value json.RawMessage `json:"value,omitempty"`

	// Input carries the input for invoke requests.
	Input json.RawMessage `json:"input,omitempty"`

	// Subscription names the subscription to cancel for unsubscribe.
	Subscription uint64 `json:"subscription,omitempty"`
}

// Validate checks that the request carries everything its operation needs.
func (r *Request) Validate() error {
	if r.ID == 0 {
		return fmt.Errorf("request id 0 is reserved")
	}
	if !r.Op.IsValid() {
		return fmt.Errorf("invalid operation: %q", r.Op)
	}

	switch r.Op {
	case OpPing:
	case OpUnsubscribe:
		if r.Subscription == 0 {
			return fmt.Errorf("unsubscribe requires a subscription id")
		}
	case OpSubscribeTD:
		if r.Thing == "" {
			return fmt.Errorf("%s requires a thing", r.Op)
		}
	default:
		if r.Thing == "" {
			return fmt.Errorf("%s requires a thing", r.Op)
		}
		if r.Name == "" {
			return fmt.Errorf("%s requires an interaction name", r.Op)
		}
	}
	return nil
}

// DecodeValue decodes the write value. Returns nil for an absent value.
func (r *Request) DecodeValue() (any, error) {
	return decodeRaw(r.Value)
}

// DecodeInput decodes the invoke input. Returns nil for an absent input.
func (r *Request) DecodeInput() (any, error) {
	return decodeRaw(r.Input)
}

func decodeRaw(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	return v, nil
}

// Response is a servient-to-client message answering one request.
type Response struct {
	// ID matches the request.
	ID uint64 `json:"id"`

	// Status is ok or error.
	Status Status `json:"status"`

	// Value carries the operation result: the property value for read,
	// the action result for invoke, the subscription ID for subscribe
	// operations.
	Value any `json:"value,omitempty"`

	// Code is the stable failure category, set when Status is error.
	Code ErrorCode `json:"code,omitempty"`

	// Error is the human-readable failure message, set when Status is
	// error.
	Error string `json:"error,omitempty"`
}

// IsSuccess returns true if the response indicates success.
func (r *Response) IsSuccess() bool {
	return r.Status.IsSuccess()
}

// SuccessResponse builds an ok response for the given request ID.
func SuccessResponse(id uint64, value any) *Response {
	return &Response{ID: id, Status: StatusOK, Value: value}
}

// ErrorResponse builds an error response for the given request ID, mapping
// the error to its stable code.
func ErrorResponse(id uint64, err error) *Response {
	return &Response{
		ID:     id,
		Status: StatusError,
		Code:   CodeFor(err),
		Error:  err.Error(),
	}
}

// BadRequestResponse builds an error response for a request that never
// reached dispatch, carrying CodeBadRequest instead of a mapped code.
func BadRequestResponse(id uint64, err error) *Response {
	return &Response{
		ID:     id,
		Status: StatusError,
		Code:   CodeBadRequest,
		Error:  err.Error(),
	}
}

// Notification is a servient-to-client message pushed for one subscription
// delivery. Notifications carry no request ID.
type Notification struct {
	// Subscription is the server-assigned subscription this delivery
	// belongs to.
	Subscription uint64 `json:"subscription"`

	// Name is the event name of the delivered event.
	Name string `json:"name"`

	// Data is the event payload.
	Data any `json:"data,omitempty"`
}
