package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove            MessageType = "move"
	MessageTypePromote         MessageType = "promote"
	MessageTypeCancelPromotion MessageType = "cancelPromotion"
	MessageTypeUndo            MessageType = "undo"
	MessageTypeReset           MessageType = "reset"
	MessageTypeGameState       MessageType = "gameState"
	MessageTypeError           MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload is the body of a MessageTypeError message.
type ErrorPayload struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: json.RawMessage(b)}, nil
}
