package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	appoutbox "milhouse/internal/app/outbox"
)

// Sender is the raw broker write used by EventPublisher.
type Sender interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

var ErrPublisherNotConfigured = errors.New("kafka: publisher missing sender")

// EventPublisher wraps outbox records in a CloudEvents envelope and routes them
// to "<aggregate>.events.v1" topics, e.g. property.created goes to
// property.events.v1.
type EventPublisher struct {
	Sender      Sender
	TopicPrefix string
	Source      string
}

func (p EventPublisher) Publish(ctx context.Context, record appoutbox.EventRecord) error {
	if p.Sender == nil {
		return ErrPublisherNotConfigured
	}
	payload, headers, err := p.format(record)
	if err != nil {
		return err
	}
	return p.Sender.Publish(ctx, p.TopicFor(record.Name), record.Aggregate, payload, headers)
}

func (p EventPublisher) format(record appoutbox.EventRecord) ([]byte, map[string]string, error) {
	var data any = map[string]any{}
	if len(record.Payload) > 0 {
		if err := json.Unmarshal(record.Payload, &data); err != nil {
			return nil, nil, err
		}
	}
	id := record.ID
	if id == "" {
		id = uuid.NewString()
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              id,
		"type":            record.Name + ".v1",
		"source":          p.source(),
		"time":            record.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	if record.Aggregate != "" {
		evt["subject"] = record.Aggregate
	}
	if trace, ok := record.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := make(map[string]string, len(record.Headers)+1)
	for k, v := range record.Headers {
		headers[k] = v
	}
	// the record's content-type describes data, not the envelope
	headers["content-type"] = "application/cloudevents+json"
	return payload, headers, nil
}

// TopicFor maps an event name to its topic.
func (p EventPublisher) TopicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if p.TopicPrefix != "" {
		topic = p.TopicPrefix + topic
	}
	return topic
}

func (p EventPublisher) source() string {
	if p.Source != "" {
		return p.Source
	}
	return "app://milhouse"
}

var _ appoutbox.Publisher = EventPublisher{}
