package imaging

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"milhouse/internal/app/policies"
	domainmedia "milhouse/internal/domain/media"
)

const (
	DefaultMaxBytes = 25 * 1024 * 1024
	sniffLen        = 3072
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".webp": true, ".svg": true, ".tiff": true, ".tif": true,
}

var allowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/bmp":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/tiff":    true,
}

// Inspector accepts an upload only when its extension, declared type and
// sniffed content all agree on an allowed image format.
type Inspector struct {
	MaxBytes int64
}

func NewInspector(maxBytes int64) Inspector {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Inspector{MaxBytes: maxBytes}
}

func (i Inspector) Inspect(upload domainmedia.Upload) (domainmedia.Upload, error) {
	if upload.Content == nil || upload.Size == 0 {
		return upload, domainmedia.ErrEmpty
	}
	limit := i.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if upload.Size > limit {
		return upload, fmt.Errorf("%w: %d bytes, límite %d", domainmedia.ErrTooLarge, upload.Size, limit)
	}
	if ext := domainmedia.Extension(upload.Filename); !allowedExtensions[ext] {
		return upload, fmt.Errorf("%w: %q", domainmedia.ErrExtension, ext)
	}

	declared := baseType(upload.ContentType)
	if declared != "" && declared != "application/octet-stream" && !allowedTypes[declared] {
		return upload, fmt.Errorf("%w: %s", domainmedia.ErrMIMEType, declared)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return upload, fmt.Errorf("imaging: read header: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return upload, domainmedia.ErrEmpty
	}
	upload.Content = io.MultiReader(bytes.NewReader(head), upload.Content)

	detected := mimetype.Detect(head)
	sniffed := baseType(detected.String())
	if !allowedTypes[sniffed] && !allowedParent(detected) {
		return upload, fmt.Errorf("%w: detectado %s", domainmedia.ErrContent, sniffed)
	}
	if declared != "" && declared != "application/octet-stream" && !detected.Is(declared) {
		return upload, fmt.Errorf("%w: declarado %s, detectado %s", domainmedia.ErrContent, declared, sniffed)
	}
	if declared == "" || declared == "application/octet-stream" {
		upload.ContentType = sniffed
	} else {
		upload.ContentType = declared
	}
	return upload, nil
}

// allowedParent covers formats mimetype reports as a subtype of an allowed one.
func allowedParent(m *mimetype.MIME) bool {
	for p := m.Parent(); p != nil; p = p.Parent() {
		if allowedTypes[baseType(p.String())] {
			return true
		}
	}
	return false
}

func baseType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(mt)
	}
	return strings.ToLower(contentType)
}

var _ policies.ImageInspector = Inspector{}
