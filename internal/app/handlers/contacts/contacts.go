package contacts

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	"milhouse/internal/app/outbox"
	"milhouse/internal/app/queries"
	domaincontacts "milhouse/internal/domain/contacts"
	"milhouse/internal/domain/shared/events"
)

const (
	submitContactKey = "contacts.submit"
	listContactsKey  = "contacts.list"
)

// SubmitContactCommand records a lead from the public contact form.
type SubmitContactCommand struct {
	Name       string
	Email      string
	Phone      string
	Message    string
	PropertyID string
	Source     string
	RequestKey string
}

func (SubmitContactCommand) Key() string              { return submitContactKey }
func (c SubmitContactCommand) IdempotencyKey() string { return c.RequestKey }
func (SubmitContactCommand) ResultPrototype() any     { return &dto.Contact{} }

type SubmitContactHandler struct {
	Repo    domaincontacts.Repository
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *SubmitContactHandler) Handle(ctx context.Context, cmd SubmitContactCommand) (dto.Contact, error) {
	req := domaincontacts.Request{
		Name:       cmd.Name,
		Email:      cmd.Email,
		Phone:      cmd.Phone,
		Message:    cmd.Message,
		PropertyID: cmd.PropertyID,
		Source:     cmd.Source,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return dto.Contact{}, err
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	req.ID = domaincontacts.ContactID(uuid.NewString())
	req.CreatedAt = now.UTC()

	if err := h.Repo.Add(ctx, &req); err != nil {
		return dto.Contact{}, err
	}
	ev := domaincontacts.ReceivedEvent{ContactID: req.ID, PropertyID: req.PropertyID, Source: req.Source, At: req.CreatedAt}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{ev}); err != nil {
		return dto.Contact{}, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "contact received", "contact_id", req.ID, "property_id", req.PropertyID)
	}
	return dto.MapContact(req), nil
}

// ListContactsQuery returns every stored lead, newest first.
type ListContactsQuery struct{}

func (ListContactsQuery) Key() string { return listContactsKey }

type ListContactsHandler struct {
	Repo domaincontacts.Repository
}

func (h *ListContactsHandler) Handle(ctx context.Context, _ ListContactsQuery) ([]dto.Contact, error) {
	items, err := h.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.MapContacts(items), nil
}

var (
	_ commands.Handler[SubmitContactCommand, dto.Contact] = (*SubmitContactHandler)(nil)
	_ queries.Handler[ListContactsQuery, []dto.Contact]   = (*ListContactsHandler)(nil)
)
