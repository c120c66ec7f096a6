package events

import "time"

// Kind is a stable, namespaced identifier for an event type.
type Kind string

// Event is the common surface of every dialogue event.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the fields shared by all events. Embed it and construct it
// with [NewBase] so kinds and timestamps are always populated.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase creates a base stamped with the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
