package properties

import (
	"time"
)

type PropertyCreatedEvent struct {
	PropertyID PropertyID
	Type       string
	At         time.Time
}

func (e PropertyCreatedEvent) EventName() string     { return "property.created" }
func (e PropertyCreatedEvent) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyCreatedEvent) OccurredAt() time.Time { return e.At }

type PropertyUpdatedEvent struct {
	PropertyID PropertyID
	At         time.Time
}

func (e PropertyUpdatedEvent) EventName() string     { return "property.updated" }
func (e PropertyUpdatedEvent) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyUpdatedEvent) OccurredAt() time.Time { return e.At }

type PropertyDeletedEvent struct {
	PropertyID PropertyID
	At         time.Time
}

func (e PropertyDeletedEvent) EventName() string     { return "property.deleted" }
func (e PropertyDeletedEvent) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyDeletedEvent) OccurredAt() time.Time { return e.At }
