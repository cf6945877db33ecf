package wire

import (
	"encoding/json"
	"fmt"
)

// EncodeRequest encodes a request message to JSON bytes.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return json.Marshal(req)
}

// DecodeRequest decodes JSON bytes into a request message.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

// EncodeResponse encodes a response message to JSON bytes.
func EncodeResponse(resp *Response) ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeResponse decodes JSON bytes into a response message.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// EncodeNotification encodes a notification message to JSON bytes.
func EncodeNotification(notif *Notification) ([]byte, error) {
	return json.Marshal(notif)
}

// DecodeNotification decodes JSON bytes into a notification message.
func DecodeNotification(data []byte) (*Notification, error) {
	var notif Notification
	if err := json.Unmarshal(data, &notif); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	if notif.Subscription == 0 {
		return nil, fmt.Errorf("not a notification message: no subscription id")
	}
	return &notif, nil
}

// MessageType represents the type of a decoded message.
type MessageType int

const (
	MessageTypeUnknown MessageType = iota
	MessageTypeRequest
	MessageTypeResponse
	MessageTypeNotification
)

// PeekMessageType examines JSON data to determine the message type without
// fully decoding it. Requests carry an op, responses a status, and
// notifications a subscription ID with neither.
func PeekMessageType(data []byte) (MessageType, error) {
	var peek struct {
		Op           Operation `json:"op"`
		Status       Status    `json:"status"`
		Subscription uint64    `json:"subscription"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return MessageTypeUnknown, fmt.Errorf("failed to peek message: %w", err)
	}

	switch {
	case peek.Op != "":
		return MessageTypeRequest, nil
	case peek.Status != "":
		return MessageTypeResponse, nil
	case peek.Subscription != 0:
		return MessageTypeNotification, nil
	default:
		return MessageTypeUnknown, nil
	}
}
