package entities

import "time"

// EntityEventType describes a lifecycle transition of a stored entity.
type EntityEventType string

const (
	EntityEventCreated EntityEventType = "created"
	EntityEventUpdated EntityEventType = "updated"
	EntityEventDeleted EntityEventType = "deleted"
)

// EntityEvent is published on the event bus whenever a listing changes.
type EntityEvent struct {
	ID         string          `json:"id"`
	Type       EntityEventType `json:"type"`
	EntityKind string          `json:"entity_kind"`
	EntityID   string          `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
}
