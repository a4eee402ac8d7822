package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "store_added").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common concrete implementation.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewActivity builds a user-activity event. The user id is always opaque by
// the time an event is published; raw platform ids never reach the bus.
func NewActivity(opaqueUserID, event string, data map[string]interface{}) Event {
	if data == nil {
		data = map[string]interface{}{}
	}
	payload := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["user_id"] = opaqueUserID
	return BaseEvent{
		Type:       event,
		Data:       payload,
		OccurredAt: time.Now(),
	}
}
