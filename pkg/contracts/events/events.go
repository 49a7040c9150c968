// Package events contains the event contract definitions for WebSocket
// communication in the serex export service.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Export lifecycle messages - the primary event types
	MessageTypeExportComplete MessageType = "export:complete"
	MessageTypeExportFailed   MessageType = "export:failed"

	// System messages
	MessageTypeSystemStatus MessageType = "system:status"

	// Connection messages
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"` // Message payload
}

// ExportEvent is the payload for export lifecycle messages.
// On failure Destination and Bytes are zero and Error carries the cause.
type ExportEvent struct {
	Series      string `json:"series"`
	Format      string `json:"format"`
	Destination string `json:"destination,omitempty"`
	Bytes       int    `json:"bytes,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewExportComplete builds an export:complete message for a finished export.
func NewExportComplete(seriesName, format, destination string, bytes int) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeExportComplete,
			Timestamp: time.Now(),
		},
		Data: ExportEvent{
			Series:      seriesName,
			Format:      format,
			Destination: destination,
			Bytes:       bytes,
		},
	}
}

// NewExportFailed builds an export:failed message carrying the failure cause.
func NewExportFailed(seriesName, format string, err error) WebSocketMessage {
	msg := WebSocketMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeExportFailed,
			Timestamp: time.Now(),
		},
	}

	event := ExportEvent{
		Series: seriesName,
		Format: format,
	}
	if err != nil {
		event.Error = err.Error()
	}
	msg.Data = event

	return msg
}

// SystemStatusEvent represents a system status event
type SystemStatusEvent struct {
	BaseMessage
	Data struct {
		Status     string            `json:"status"` // healthy|degraded|unhealthy
		Components map[string]string `json:"components"`
		Uptime     string            `json:"uptime"`
		Version    string            `json:"version"`
	} `json:"data"`
}
