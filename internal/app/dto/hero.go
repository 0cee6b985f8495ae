package dto

import (
	"time"

	"milhouse/internal/domain/hero"
)

type HeroConfig struct {
	ID          string     `json:"id"`
	ImageURL    string     `json:"imageUrl"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
}

func MapHero(cfg hero.Config) HeroConfig {
	out := HeroConfig{
		ID:          cfg.ID,
		ImageURL:    cfg.ImageURL,
		Title:       cfg.Title,
		Description: cfg.Description,
		UpdatedBy:   cfg.UpdatedBy,
	}
	if !cfg.UpdatedAt.IsZero() {
		at := cfg.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

// HeroImage is returned after the hero background has been uploaded.
type HeroImage struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}
