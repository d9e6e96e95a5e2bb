package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionChanged     EventType = "session_changed"
	EventTicketStoreChanged EventType = "ticket_store_changed"
	EventLocaleChanged      EventType = "locale_changed"
)

// Event announces a state change of a store. Payload is an immutable snapshot
// of the store taken right after the change.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
