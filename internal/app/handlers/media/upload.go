package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	"milhouse/internal/app/policies"
	"milhouse/internal/app/queries"
	domainmedia "milhouse/internal/domain/media"
)

const (
	uploadImagesKey = "media.upload"
	getImageKey     = "media.get"

	DefaultMaxBatch = 100
)

var (
	ErrNoFiles       = errors.New("media: no files received")
	ErrBatchTooLarge = errors.New("media: too many files in batch")
	// ErrNothingStored is returned with the per-file problems when every file was rejected.
	ErrNothingStored = errors.New("media: no image could be stored")
)

// RejectedError lists why each file of a batch was refused.
type RejectedError struct {
	Problems []string
}

func (e *RejectedError) Error() string {
	return ErrNothingStored.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *RejectedError) Unwrap() error { return ErrNothingStored }

// UploadImagesCommand stores a batch of images.
type UploadImagesCommand struct {
	Files []domainmedia.Upload
}

func (UploadImagesCommand) Key() string { return uploadImagesKey }

type UploadImagesHandler struct {
	Store     domainmedia.Store
	Inspector policies.ImageInspector
	MaxBatch  int
	Logger    *slog.Logger
}

func (h *UploadImagesHandler) Handle(ctx context.Context, cmd UploadImagesCommand) (dto.UploadResult, error) {
	if len(cmd.Files) == 0 {
		return dto.UploadResult{}, ErrNoFiles
	}
	maxBatch := h.MaxBatch
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	if len(cmd.Files) > maxBatch {
		return dto.UploadResult{}, fmt.Errorf("%w: máximo %d imágenes por lote, recibido %d", ErrBatchTooLarge, maxBatch, len(cmd.Files))
	}

	result := dto.UploadResult{URLs: []string{}}
	for i, file := range cmd.Files {
		stored, err := StoreOne(ctx, h.Store, h.Inspector, file)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Archivo %d (%s): %s", i+1, domainmedia.SafeFilename(file.Filename), Describe(err)))
			if h.Logger != nil {
				h.Logger.WarnContext(ctx, "image rejected", "filename", file.Filename, "error", err)
			}
			continue
		}
		result.URLs = append(result.URLs, stored.URL)
	}
	if len(result.URLs) == 0 {
		return dto.UploadResult{}, &RejectedError{Problems: result.Warnings}
	}
	return result, nil
}

// StoreOne inspects and saves a single upload.
func StoreOne(ctx context.Context, store domainmedia.Store, inspector policies.ImageInspector, file domainmedia.Upload) (domainmedia.Stored, error) {
	if store == nil {
		return domainmedia.Stored{}, errors.New("media: store is not configured")
	}
	if inspector != nil {
		checked, err := inspector.Inspect(file)
		if err != nil {
			return domainmedia.Stored{}, err
		}
		file = checked
	}
	return store.Save(ctx, file)
}

// Describe renders an inspection error for the admin console.
func Describe(err error) string {
	switch {
	case errors.Is(err, domainmedia.ErrEmpty):
		return "archivo vacío"
	case errors.Is(err, domainmedia.ErrTooLarge):
		return "excede el tamaño máximo permitido"
	case errors.Is(err, domainmedia.ErrExtension):
		return "extensión no permitida"
	case errors.Is(err, domainmedia.ErrMIMEType):
		return "tipo MIME no permitido"
	case errors.Is(err, domainmedia.ErrContent):
		return "el contenido no coincide con el tipo declarado (posible archivo malicioso)"
	default:
		return "error al procesar - " + err.Error()
	}
}

// GetImageQuery opens a stored image for streaming.
type GetImageQuery struct {
	ID string
}

func (GetImageQuery) Key() string { return getImageKey }

type GetImageHandler struct {
	Store domainmedia.Store
}

func (h *GetImageHandler) Handle(ctx context.Context, q GetImageQuery) (*domainmedia.Object, error) {
	id := strings.TrimSpace(q.ID)
	if id == "" {
		return nil, domainmedia.ErrInvalidID
	}
	return h.Store.Open(ctx, domainmedia.ImageID(id))
}

var (
	_ commands.Handler[UploadImagesCommand, dto.UploadResult] = (*UploadImagesHandler)(nil)
	_ queries.Handler[GetImageQuery, *domainmedia.Object]     = (*GetImageHandler)(nil)
)
