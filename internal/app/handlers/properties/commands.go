package properties

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	"milhouse/internal/app/outbox"
	"milhouse/internal/app/policies"
	domainproperties "milhouse/internal/domain/properties"
	"milhouse/internal/domain/shared/events"
)

const (
	createPropertyKey = "properties.create"
	updatePropertyKey = "properties.update"
	deletePropertyKey = "properties.delete"
)

// Deps is shared by the property command handlers.
type Deps struct {
	Repo        domainproperties.Repository
	Snapshot    policies.PropertySnapshot
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Logger      *slog.Logger
	IDGenerator func() string
	Now         func() time.Time
}

func (d Deps) newID() domainproperties.PropertyID {
	if d.IDGenerator != nil {
		return domainproperties.PropertyID(d.IDGenerator())
	}
	return domainproperties.PropertyID(primitive.NewObjectID().Hex())
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// publish drains the aggregate events into the outbox and drops the cached snapshot.
func (d Deps) publish(ctx context.Context, evs []events.DomainEvent) error {
	if d.Snapshot != nil {
		d.Snapshot.Invalidate()
	}
	return outbox.RecordDomainEvents(ctx, d.Outbox, d.Encoder, evs)
}

// CreatePropertyCommand stores a new listing.
type CreatePropertyCommand struct {
	Input      dto.PropertyInput
	RequestKey string
}

func (CreatePropertyCommand) Key() string              { return createPropertyKey }
func (c CreatePropertyCommand) IdempotencyKey() string { return c.RequestKey }
func (CreatePropertyCommand) ResultPrototype() any     { return &dto.Mutation{} }

type CreatePropertyHandler struct {
	Deps
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (dto.Mutation, error) {
	p := cmd.Input.ToDomain()
	p.Normalize()
	p.ID = h.newID()
	p.MarkCreated(h.now())

	if err := h.Repo.Create(ctx, &p); err != nil {
		return dto.Mutation{}, err
	}
	if err := h.publish(ctx, p.PendingEvents()); err != nil {
		return dto.Mutation{}, err
	}
	p.ClearEvents()

	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "property created", "property_id", p.ID, "type", p.Type)
	}
	return dto.Mutation{ID: string(p.ID), Message: "created"}, nil
}

// UpdatePropertyCommand replaces the editable fields of a listing.
type UpdatePropertyCommand struct {
	ID    string
	Input dto.PropertyInput
}

func (UpdatePropertyCommand) Key() string { return updatePropertyKey }

type UpdatePropertyHandler struct {
	Deps
}

func (h *UpdatePropertyHandler) Handle(ctx context.Context, cmd UpdatePropertyCommand) (dto.Property, error) {
	id, err := ParseID(cmd.ID)
	if err != nil {
		return dto.Property{}, err
	}
	existing, err := h.Repo.ByID(ctx, id)
	if err != nil {
		return dto.Property{}, err
	}

	next := cmd.Input.ToDomain()
	next.Normalize()
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	next.MarkUpdated(h.now())

	if err := h.Repo.Update(ctx, &next); err != nil {
		return dto.Property{}, err
	}
	if err := h.publish(ctx, next.PendingEvents()); err != nil {
		return dto.Property{}, err
	}
	next.ClearEvents()

	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "property updated", "property_id", next.ID)
	}
	return dto.MapProperty(next), nil
}

// DeletePropertyCommand removes a listing.
type DeletePropertyCommand struct {
	ID string
}

func (DeletePropertyCommand) Key() string { return deletePropertyKey }

type DeletePropertyHandler struct {
	Deps
}

func (h *DeletePropertyHandler) Handle(ctx context.Context, cmd DeletePropertyCommand) (dto.Mutation, error) {
	id, err := ParseID(cmd.ID)
	if err != nil {
		return dto.Mutation{}, err
	}
	if err := h.Repo.Delete(ctx, id); err != nil {
		return dto.Mutation{}, err
	}
	ev := domainproperties.PropertyDeletedEvent{PropertyID: id, At: h.now().UTC()}
	if err := h.publish(ctx, []events.DomainEvent{ev}); err != nil {
		return dto.Mutation{}, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "property deleted", "property_id", id)
	}
	return dto.Mutation{ID: string(id), Message: "deleted"}, nil
}

var (
	_ commands.Handler[CreatePropertyCommand, dto.Mutation] = (*CreatePropertyHandler)(nil)
	_ commands.Handler[UpdatePropertyCommand, dto.Property] = (*UpdatePropertyHandler)(nil)
	_ commands.Handler[DeletePropertyCommand, dto.Mutation] = (*DeletePropertyHandler)(nil)
)
