package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeSlipUpdate  = "slip_update"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SlipUpdate is broadcast whenever a slip changes
type SlipUpdate struct {
	SlipID   string           `json:"slip_id"`
	Picks    []Selection      `json:"picks"`
	Analysis AnalysisResponse `json:"analysis"`
}

// SlipEvent is published to the analysis stream
type SlipEvent struct {
	SlipID        string    `json:"slip_id"`
	PickCount     int       `json:"pick_count"`
	RiskScore     float64   `json:"risk_score"`
	TrendStrength float64   `json:"trend_strength"`
	Warning       *string   `json:"warning,omitempty"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	SlipID            string    `json:"slip_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
