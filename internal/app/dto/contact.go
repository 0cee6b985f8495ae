package dto

import (
	"time"

	"milhouse/internal/domain/contacts"
)

type Contact struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message,omitempty"`
	PropertyID string    `json:"propertyId,omitempty"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func MapContact(r contacts.Request) Contact {
	return Contact{
		ID:         string(r.ID),
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Message:    r.Message,
		PropertyID: r.PropertyID,
		Source:     r.Source,
		CreatedAt:  r.CreatedAt,
	}
}

func MapContacts(items []contacts.Request) []Contact {
	out := make([]Contact, 0, len(items))
	for _, r := range items {
		out = append(out, MapContact(r))
	}
	return out
}
