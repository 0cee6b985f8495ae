package hero

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ConfigID is the fixed key of the properties page hero.
const ConfigID = "propiedades_hero"

const (
	DefaultImageURL    = "/images/default-hero.jpg"
	DefaultTitle       = "Encuentra tu hogar ideal"
	DefaultDescription = "Las mejores propiedades en República Dominicana"
	DefaultUpdatedBy   = "admin@milhouserd.com"
)

var (
	ErrTitleRequired = errors.New("hero: title is required")
	ErrNotFound      = errors.New("hero: config not found")
)

// Config is the banner shown on top of the listings page.
type Config struct {
	ID          string
	ImageURL    string
	Title       string
	Description string
	UpdatedAt   time.Time
	UpdatedBy   string
}

// Default is served while no config has been saved.
func Default() Config {
	return Config{
		ID:          ConfigID,
		ImageURL:    DefaultImageURL,
		Title:       DefaultTitle,
		Description: DefaultDescription,
	}
}

// Update is an admin edit. An empty ImageURL keeps the current image.
type Update struct {
	Title       string
	Description string
	ImageURL    string
	UpdatedBy   string
}

// Apply returns current with u applied.
func Apply(current Config, u Update, now time.Time) (Config, error) {
	title := strings.TrimSpace(u.Title)
	if title == "" {
		return Config{}, ErrTitleRequired
	}
	next := current
	next.ID = ConfigID
	next.Title = title
	next.Description = strings.TrimSpace(u.Description)
	if img := strings.TrimSpace(u.ImageURL); img != "" {
		next.ImageURL = img
	}
	if next.ImageURL == "" {
		next.ImageURL = DefaultImageURL
	}
	next.UpdatedBy = strings.TrimSpace(u.UpdatedBy)
	if next.UpdatedBy == "" {
		next.UpdatedBy = DefaultUpdatedBy
	}
	next.UpdatedAt = now.UTC()
	return next, nil
}

// Store persists the single hero config.
type Store interface {
	Get(ctx context.Context) (Config, error)
	Put(ctx context.Context, cfg Config) error
}
