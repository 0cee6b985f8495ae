package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("media: image not found")
	ErrInvalidID = errors.New("media: invalid image id")
	ErrEmpty     = errors.New("media: empty file")
	ErrTooLarge  = errors.New("media: file too large")
	// ErrExtension and the following errors reject an upload before storage.
	ErrExtension = errors.New("media: extension not allowed")
	ErrMIMEType  = errors.New("media: mime type not allowed")
	ErrContent   = errors.New("media: content does not match declared type")
)

// ImageID is the identifier under which a stored image is served.
type ImageID string

// Upload is one validated image ready for storage.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
	Purpose     string
}

// Stored describes an image after it has been written.
type Stored struct {
	ID  ImageID
	URL string
}

// Object is an image read back from a store. Callers must close Content.
type Object struct {
	ID          ImageID
	Filename    string
	ContentType string
	Size        int64
	UploadedAt  time.Time
	Content     io.ReadCloser
}

// Store persists image bytes.
type Store interface {
	Save(ctx context.Context, upload Upload) (Stored, error)
	Open(ctx context.Context, id ImageID) (*Object, error)
}

// Extension returns the lowercase extension of filename including the dot, or ""
// for names without one (".hidden" has none).
func Extension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx:])
}

// SafeFilename strips path components and quotes so the name can be echoed in
// a Content-Disposition header.
func SafeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = strings.ReplaceAll(base, "\"", "")
	if base == "" || base == "." || base == "/" {
		return "image"
	}
	return base
}
