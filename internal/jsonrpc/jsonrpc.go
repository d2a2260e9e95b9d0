package jsonrpc

import (
	"encoding/json"
)

// Version is the protocol marker carried by every envelope.
const Version = "2.0"

// Message represents a raw JSON-RPC message.
type Message struct {
	raw json.RawMessage
}

// NewMessage wraps the raw JSON bytes as a Message instance.
func NewMessage(raw []byte) Message {
	dup := make([]byte, len(raw))
	copy(dup, raw)
	return Message{raw: json.RawMessage(dup)}
}

// Bytes returns the raw JSON payload for the message.
func (m Message) Bytes() []byte {
	dup := make([]byte, len(m.raw))
	copy(dup, m.raw)
	return dup
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	return m.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	dup := make([]byte, len(data))
	copy(dup, data)
	m.raw = json.RawMessage(dup)
	return nil
}

// Request is a minimal JSON-RPC request representation. The ID is kept as
// raw bytes so that null, string, and numeric forms survive a round trip
// unchanged, and an absent ID stays absent (zero length).
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	ID      json.RawMessage `json:"id,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// ResponseError represents a JSON-RPC error object.
type ResponseError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response is a minimal JSON-RPC response representation. Field order
// matters: responses serialize as jsonrpc, result, error, id.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// IsNotification returns true when the message lacks an id field.
func IsNotification(raw []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}

	_, hasID := obj["id"]
	return !hasID
}

// IsResponse returns true when the message carries a result or error field
// and no method, i.e. it answers a request rather than making one.
func IsResponse(raw []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}

	if _, hasMethod := obj["method"]; hasMethod {
		return false
	}

	_, hasResult := obj["result"]
	_, hasError := obj["error"]
	return hasResult || hasError
}
