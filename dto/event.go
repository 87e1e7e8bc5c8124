package dto

import "encoding/json"

// EventEnvelope frames every inbound and outbound websocket event. Data holds
// the event-specific payload.
type EventEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutboundEvent pairs a reply event with its payload and the chat room it
// should fan out to. ChatID "" broadcasts to every connected client.
type OutboundEvent struct {
	Event  string `json:"event"`
	ChatID string `json:"chatId,omitempty"`
	Data   any    `json:"data"`
}

// ErrorEvent is emitted on the socket when an operation fails.
type ErrorEvent struct {
	Event string `json:"event"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
