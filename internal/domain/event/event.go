package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a change to a claim session
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	SessionID     string                 `json:"session_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, sessionID string, payload map[string]interface{}) *Event {
	id := uuid.NewString()
	return &Event{
		ID:            id,
		Type:          eventType,
		SessionID:     sessionID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: id,
	}
}

// NewEventWithCorrelation creates an event linked to a correlation chain,
// typically the HTTP request that caused it
func NewEventWithCorrelation(eventType Type, sessionID string, payload map[string]interface{}, correlationID string) *Event {
	evt := NewEvent(eventType, sessionID, payload)
	if correlationID != "" {
		evt.CorrelationID = correlationID
	}
	return evt
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case string:
			return v
		case interface{ String() string }:
			return v.String()
		}
	}
	return ""
}

// GetPayloadUint retrieves an unsigned counter from the payload
func (e *Event) GetPayloadUint(key string) uint64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case uint64:
			return v
		case int64:
			if v > 0 {
				return uint64(v)
			}
		case int:
			if v > 0 {
				return uint64(v)
			}
		case float64:
			if v > 0 {
				return uint64(v)
			}
		}
	}
	return 0
}

// GetPayloadBytes retrieves a byte slice from the payload
func (e *Event) GetPayloadBytes(key string) []byte {
	if val, ok := e.Payload[key]; ok {
		if b, ok := val.([]byte); ok {
			return b
		}
	}
	return nil
}
