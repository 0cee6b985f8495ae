package ginserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	mediaapp "milhouse/internal/app/handlers/media"
	"milhouse/internal/app/queries"
	domainmedia "milhouse/internal/domain/media"
)

const imageCacheControl = "public, max-age=31536000, immutable"

type MediaHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

// Upload stores every file sent under the "files" form field. Files that fail
// inspection are reported as warnings as long as one of them was stored.
func (h MediaHandler) Upload(c *gin.Context) {
	if h.Commands == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errCommandsUnavailable)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, fmt.Errorf("%w: %v", mediaapp.ErrNoFiles, err))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		handleError(c, h.Logger, mediaapp.ErrNoFiles)
		return
	}

	files, closeAll, err := openUploads(headers)
	defer closeAll()
	if err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}

	result, err := commands.Dispatch[mediaapp.UploadImagesCommand, dto.UploadResult](c.Request.Context(), h.Commands, mediaapp.UploadImagesCommand{Files: files})
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Image streams a stored image with a long-lived cache header; ids never get
// reused so the bytes behind a URL never change.
func (h MediaHandler) Image(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	obj, err := queries.Ask[mediaapp.GetImageQuery, *domainmedia.Object](c.Request.Context(), h.Queries, mediaapp.GetImageQuery{ID: c.Param("id")})
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	if obj == nil || obj.Content == nil {
		handleError(c, h.Logger, domainmedia.ErrNotFound)
		return
	}
	defer obj.Content.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := obj.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, contentType, obj.Content, map[string]string{
		"Cache-Control":       imageCacheControl,
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", domainmedia.SafeFilename(obj.Filename)),
	})
}

func openUploads(headers []*multipart.FileHeader) ([]domainmedia.Upload, func(), error) {
	closers := make([]io.Closer, 0, len(headers))
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}
	files := make([]domainmedia.Upload, 0, len(headers))
	for _, fh := range headers {
		upload, closer, err := openUpload(fh)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, closer)
		files = append(files, upload)
	}
	return files, closeAll, nil
}

func openUpload(fh *multipart.FileHeader) (domainmedia.Upload, io.Closer, error) {
	if fh == nil {
		return domainmedia.Upload{}, nil, errors.New("file header missing")
	}
	f, err := fh.Open()
	if err != nil {
		return domainmedia.Upload{}, nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	return domainmedia.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}

var _ MediaHTTP = MediaHandler{}
