package contacts

import "time"

type ReceivedEvent struct {
	ContactID  ContactID
	PropertyID string
	Source     string
	At         time.Time
}

func (e ReceivedEvent) EventName() string     { return "contact.received" }
func (e ReceivedEvent) AggregateID() string   { return string(e.ContactID) }
func (e ReceivedEvent) OccurredAt() time.Time { return e.At }
