package hero

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	mediaapp "milhouse/internal/app/handlers/media"
	"milhouse/internal/app/policies"
	"milhouse/internal/app/queries"
	domainhero "milhouse/internal/domain/hero"
	domainmedia "milhouse/internal/domain/media"
)

const (
	getHeroKey         = "hero.get"
	saveHeroKey        = "hero.save"
	uploadHeroImageKey = "hero.image"
)

// GetHeroQuery returns the stored hero or the default one.
type GetHeroQuery struct{}

func (GetHeroQuery) Key() string { return getHeroKey }

type GetHeroHandler struct {
	Store domainhero.Store
}

func (h *GetHeroHandler) Handle(ctx context.Context, _ GetHeroQuery) (dto.HeroConfig, error) {
	cfg, err := h.Store.Get(ctx)
	if errors.Is(err, domainhero.ErrNotFound) {
		return dto.MapHero(domainhero.Default()), nil
	}
	if err != nil {
		return dto.HeroConfig{}, err
	}
	return dto.MapHero(cfg), nil
}

// SaveHeroCommand upserts the hero text and optionally its image.
type SaveHeroCommand struct {
	Title       string
	Description string
	ImageURL    string
}

func (SaveHeroCommand) Key() string { return saveHeroKey }

type SaveHeroHandler struct {
	Store  domainhero.Store
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *SaveHeroHandler) Handle(ctx context.Context, cmd SaveHeroCommand) (dto.HeroConfig, error) {
	current, err := h.Store.Get(ctx)
	if errors.Is(err, domainhero.ErrNotFound) {
		current = domainhero.Default()
	} else if err != nil {
		return dto.HeroConfig{}, err
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	next, err := domainhero.Apply(current, domainhero.Update{
		Title:       cmd.Title,
		Description: cmd.Description,
		ImageURL:    cmd.ImageURL,
	}, now)
	if err != nil {
		return dto.HeroConfig{}, err
	}
	if err := h.Store.Put(ctx, next); err != nil {
		return dto.HeroConfig{}, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "hero config saved", "image_url", next.ImageURL)
	}
	return dto.MapHero(next), nil
}

// UploadHeroImageCommand stores a new hero background. The config itself is not
// changed until the admin saves it with the returned URL.
type UploadHeroImageCommand struct {
	File domainmedia.Upload
}

func (UploadHeroImageCommand) Key() string { return uploadHeroImageKey }

type UploadHeroImageHandler struct {
	Images    domainmedia.Store
	Inspector policies.ImageInspector
}

func (h *UploadHeroImageHandler) Handle(ctx context.Context, cmd UploadHeroImageCommand) (dto.HeroImage, error) {
	file := cmd.File
	if file.Filename == "" {
		file.Filename = "hero-image"
	}
	file.Purpose = "hero-config"
	stored, err := mediaapp.StoreOne(ctx, h.Images, h.Inspector, file)
	if err != nil {
		return dto.HeroImage{}, err
	}
	return dto.HeroImage{Success: true, ImageURL: stored.URL, Message: "Imagen subida exitosamente"}, nil
}

var (
	_ queries.Handler[GetHeroQuery, dto.HeroConfig]           = (*GetHeroHandler)(nil)
	_ commands.Handler[SaveHeroCommand, dto.HeroConfig]       = (*SaveHeroHandler)(nil)
	_ commands.Handler[UploadHeroImageCommand, dto.HeroImage] = (*UploadHeroImageHandler)(nil)
)
