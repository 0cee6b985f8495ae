package events

import (
	"slices"
	"time"
)

// DomainEvent is something that happened to a listing or lead. EventName is
// used as the broker topic suffix.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder is embedded by aggregates that raise events during a change.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event != nil {
		r.pending = append(r.pending, event)
	}
}

func (r *EventRecorder) PendingEvents() []DomainEvent { return slices.Clone(r.pending) }

func (r *EventRecorder) ClearEvents() { r.pending = r.pending[:0:0] }
