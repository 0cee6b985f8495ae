package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "milhouse/internal/app/outbox"
)

type sentMessage struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func TestEventPublisher_CloudEventEnvelope(t *testing.T) {
	sender := &fakeSender{}
	pub := EventPublisher{Sender: sender, TopicPrefix: "dev."}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	err := pub.Publish(context.Background(), appoutbox.EventRecord{
		ID:         "evt-1",
		Name:       "property.created",
		Payload:    []byte(`{"propertyId":"abc","type":"Casa"}`),
		OccurredAt: at,
		Aggregate:  "abc",
		Headers:    map[string]string{"traceparent": "00-1-2-01"},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "dev.property.events.v1", msg.topic)
	assert.Equal(t, "abc", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])
	assert.Equal(t, "00-1-2-01", msg.headers["traceparent"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "evt-1", evt["id"])
	assert.Equal(t, "property.created.v1", evt["type"])
	assert.Equal(t, "app://milhouse", evt["source"])
	assert.Equal(t, "abc", evt["subject"])
	assert.Equal(t, map[string]any{"propertyId": "abc", "type": "Casa"}, evt["data"])
}

func TestEventPublisher_Errors(t *testing.T) {
	assert.ErrorIs(t, EventPublisher{}.Publish(context.Background(), appoutbox.EventRecord{}), ErrPublisherNotConfigured)

	boom := errors.New("broker down")
	pub := EventPublisher{Sender: &fakeSender{err: boom}}
	assert.ErrorIs(t, pub.Publish(context.Background(), appoutbox.EventRecord{Name: "contact.received"}), boom)

	bad := EventPublisher{Sender: &fakeSender{}}
	assert.Error(t, bad.Publish(context.Background(), appoutbox.EventRecord{Name: "x", Payload: []byte("{")}))
}

func TestTopicFor(t *testing.T) {
	p := EventPublisher{}
	assert.Equal(t, "contact.events.v1", p.TopicFor("contact.received"))
	assert.Equal(t, "standalone.events.v1", p.TopicFor("standalone"))
}

func TestProducer_SendsThroughSyncProducer(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != "payload" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := newProducerWith(mock)
	require.NoError(t, p.Publish(context.Background(), "property.events.v1", "k", []byte("payload"), map[string]string{"a": "b"}))
	require.NoError(t, p.Close())
}

var _ sarama.SyncProducer = (*mocks.SyncProducer)(nil)

func TestRecordHeaders_Sorted(t *testing.T) {
	hs := recordHeaders(map[string]string{"z": "1", "a": "2"})
	require.Len(t, hs, 2)
	assert.Equal(t, "a", string(hs[0].Key))
	assert.Nil(t, recordHeaders(nil))
}
