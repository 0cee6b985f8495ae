package memory

import (
	"context"
	"errors"
	"sync"

	appoutbox "milhouse/internal/app/outbox"
)

// Outbox buffers records until Flush hands them to Publisher. Without a
// publisher flushed records are dropped.
type Outbox struct {
	mu        sync.Mutex
	records   []appoutbox.EventRecord
	Publisher appoutbox.Publisher
}

func NewOutbox(publisher appoutbox.Publisher) *Outbox {
	return &Outbox{Publisher: publisher}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Flush publishes every buffered record. Records that fail stay buffered for the
// next flush.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.records
	o.records = nil
	o.mu.Unlock()
	if o.Publisher == nil || len(pending) == 0 {
		return nil
	}

	var (
		failed []appoutbox.EventRecord
		errs   []error
	)
	for _, rec := range pending {
		if err := o.Publisher.Publish(ctx, rec); err != nil {
			failed = append(failed, rec)
			errs = append(errs, err)
		}
	}
	if len(failed) > 0 {
		o.mu.Lock()
		o.records = append(failed, o.records...)
		o.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Pending reports how many records wait for the next flush.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
