package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSupportGroupCreated EventType = "support_group_created"
	EventOperatorLoggedOut   EventType = "operator_logged_out"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subjectID, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SupportGroupCreatedPayload payload.
type SupportGroupCreatedPayload struct {
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	NextMeeting time.Time `json:"next_meeting"`
}

// OperatorLoggedOutPayload payload.
type OperatorLoggedOutPayload struct {
	TokenID string `json:"token_id"`
}
