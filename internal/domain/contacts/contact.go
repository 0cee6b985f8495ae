package contacts

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrNameRequired    = errors.New("contacts: name is required")
	ErrChannelRequired = errors.New("contacts: email or phone is required")
	ErrInvalidEmail    = errors.New("contacts: invalid email")
)

type ContactID string

// Request is a lead left through the contact form.
type Request struct {
	ID         ContactID
	Name       string
	Email      string
	Phone      string
	Message    string
	PropertyID string
	Source     string
	CreatedAt  time.Time
}

// Normalize trims every field and lowercases the email.
func (r *Request) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	r.PropertyID = strings.TrimSpace(r.PropertyID)
	r.Source = strings.TrimSpace(r.Source)
}

// Validate requires a name and a way to reach the person.
func (r Request) Validate() error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if r.Email == "" && r.Phone == "" {
		return ErrChannelRequired
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

type Repository interface {
	Add(ctx context.Context, r *Request) error
	List(ctx context.Context) ([]Request, error)
}
