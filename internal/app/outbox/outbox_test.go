package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/domain/properties"
	"milhouse/internal/domain/shared/events"
)

type recordingBox struct {
	records []EventRecord
}

func (b *recordingBox) Add(_ context.Context, r EventRecord) error {
	b.records = append(b.records, r)
	return nil
}

func (b *recordingBox) Flush(context.Context) error { return nil }

func TestRecordDomainEvents(t *testing.T) {
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	box := &recordingBox{}
	evs := []events.DomainEvent{
		properties.PropertyCreatedEvent{PropertyID: "p-1", Type: "Casa", At: at},
		properties.PropertyDeletedEvent{PropertyID: "p-1", At: at},
	}
	enc := JSONEventEncoder{IDGenerator: func() string { return "evt-fixed" }}

	require.NoError(t, RecordDomainEvents(context.Background(), box, enc, evs))
	require.Len(t, box.records, 2)
	assert.Equal(t, "property.created", box.records[0].Name)
	assert.Equal(t, "p-1", box.records[0].Aggregate)
	assert.Equal(t, "evt-fixed", box.records[0].ID)
	assert.Equal(t, at, box.records[1].OccurredAt)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(box.records[0].Payload, &payload))
	assert.Equal(t, "Casa", payload["Type"])
}

func TestRecordDomainEvents_NilBox(t *testing.T) {
	assert.NoError(t, RecordDomainEvents(context.Background(), nil, nil, []events.DomainEvent{
		properties.PropertyUpdatedEvent{PropertyID: "x"},
	}))
}

func TestJSONEventEncoder_DefaultsToUUID(t *testing.T) {
	rec, err := JSONEventEncoder{}.Encode(properties.PropertyUpdatedEvent{PropertyID: "x"})
	require.NoError(t, err)
	assert.Len(t, rec.ID, 36)
}
