package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Mutation actions carried by an Event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes a successful change to a backend resource.
type Event struct {
	ID         string    `json:"id"`
	Service    string    `json:"service"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resource_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps a mutation with a fresh id and the current time.
func NewEvent(service, action, resourceID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Service:    service,
		Action:     action,
		ResourceID: resourceID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id": e.ID,
		"service":  e.Service,
		"action":   e.Action,
	}
}
