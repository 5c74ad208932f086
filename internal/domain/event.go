package domain

import (
	"encoding/json"
	"time"
)

// EventType is a lifecycle transition broadcast to subscribers.
type EventType string

const (
	EventTypeRequestCreated  EventType = "RequestCreated"
	EventTypeRequestApproved EventType = "RequestApproved"
	EventTypeRequestRejected EventType = "RequestRejected"
)

// EventDetailType builds the origin-type-scoped event name subscribers
// filter on, e.g. "docRequestCreated".
func EventDetailType(originType string, eventType EventType) string {
	return originType + string(eventType)
}

// EventPayload is the body of every lifecycle event. DateTime is the
// request's CreatedAt for creation events and UpdatedAt for decisions.
type EventPayload struct {
	OriginID   string    `json:"originId"`
	OriginType string    `json:"originType"`
	DateTime   time.Time `json:"dateTime"`
}

// EventOutboxEntry is a lifecycle event whose delivery failed and is parked
// for redelivery by the scheduler.
type EventOutboxEntry struct {
	ID          string          `json:"id"`
	EventName   string          `json:"eventName"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int32           `json:"attempts"`
	CreatedAt   time.Time       `json:"createdAt"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty"`
}
