package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/app/outbox"
	domaincontacts "milhouse/internal/domain/contacts"
	"milhouse/internal/infra/storage/memory"
)

type recordingOutbox struct {
	records []outbox.EventRecord
}

func (o *recordingOutbox) Add(_ context.Context, rec outbox.EventRecord) error {
	o.records = append(o.records, rec)
	return nil
}

func (o *recordingOutbox) Flush(context.Context) error { return nil }

func TestSubmitContact(t *testing.T) {
	repo := memory.NewContactRepository()
	box := &recordingOutbox{}
	at := time.Date(2025, 7, 4, 10, 30, 0, 0, time.UTC)
	h := &SubmitContactHandler{Repo: repo, Outbox: box, Now: func() time.Time { return at }}
	ctx := context.Background()

	first, err := h.Handle(ctx, SubmitContactCommand{Name: " Ana ", Email: "Ana@Example.com ", PropertyID: "65f0c0ffee0000000000000b", Source: "ficha"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Ana", first.Name)
	assert.Equal(t, "ana@example.com", first.Email)
	assert.Equal(t, at, first.CreatedAt)

	_, err = h.Handle(ctx, SubmitContactCommand{Name: "Luis", Phone: "809-555-0101"})
	require.NoError(t, err)

	require.Len(t, box.records, 2)
	assert.Equal(t, "contact.received", box.records[0].Name)
	assert.Equal(t, first.ID, box.records[0].Aggregate)

	list, err := (&ListContactsHandler{Repo: repo}).Handle(ctx, ListContactsQuery{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Luis", list[0].Name)
}

func TestSubmitContact_Invalid(t *testing.T) {
	repo := memory.NewContactRepository()
	box := &recordingOutbox{}
	h := &SubmitContactHandler{Repo: repo, Outbox: box}
	ctx := context.Background()

	_, err := h.Handle(ctx, SubmitContactCommand{Email: "a@b.do"})
	assert.ErrorIs(t, err, domaincontacts.ErrNameRequired)

	_, err = h.Handle(ctx, SubmitContactCommand{Name: "Ana"})
	assert.ErrorIs(t, err, domaincontacts.ErrChannelRequired)

	_, err = h.Handle(ctx, SubmitContactCommand{Name: "Ana", Email: "no-es-correo"})
	assert.ErrorIs(t, err, domaincontacts.ErrInvalidEmail)

	list, err := (&ListContactsHandler{Repo: repo}).Handle(ctx, ListContactsQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, box.records)
}
