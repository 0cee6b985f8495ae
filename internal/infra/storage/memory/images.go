package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domainmedia "milhouse/internal/domain/media"
)

type storedImage struct {
	filename    string
	contentType string
	data        []byte
	uploadedAt  time.Time
}

// ImageStore keeps uploaded images in memory. URLs point at the image route.
type ImageStore struct {
	mu      sync.RWMutex
	images  map[domainmedia.ImageID]storedImage
	baseURL string
}

// NewImageStore serves images under baseURL ("/api/images" when empty).
func NewImageStore(baseURL string) *ImageStore {
	if baseURL == "" {
		baseURL = "/api/images"
	}
	return &ImageStore{images: make(map[domainmedia.ImageID]storedImage), baseURL: baseURL}
}

func (s *ImageStore) Save(ctx context.Context, upload domainmedia.Upload) (domainmedia.Stored, error) {
	if upload.Content == nil {
		return domainmedia.Stored{}, domainmedia.ErrEmpty
	}
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return domainmedia.Stored{}, fmt.Errorf("memory: read image: %w", err)
	}
	if len(data) == 0 {
		return domainmedia.Stored{}, domainmedia.ErrEmpty
	}
	id := domainmedia.ImageID(primitive.NewObjectID().Hex())
	s.mu.Lock()
	s.images[id] = storedImage{
		filename:    domainmedia.SafeFilename(upload.Filename),
		contentType: upload.ContentType,
		data:        data,
		uploadedAt:  time.Now().UTC(),
	}
	s.mu.Unlock()
	return domainmedia.Stored{ID: id, URL: s.baseURL + "/" + string(id)}, nil
}

func (s *ImageStore) Open(ctx context.Context, id domainmedia.ImageID) (*domainmedia.Object, error) {
	s.mu.RLock()
	img, ok := s.images[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domainmedia.ErrNotFound
	}
	return &domainmedia.Object{
		ID:          id,
		Filename:    img.filename,
		ContentType: img.contentType,
		Size:        int64(len(img.data)),
		UploadedAt:  img.uploadedAt,
		Content:     io.NopCloser(bytes.NewReader(img.data)),
	}, nil
}

var _ domainmedia.Store = (*ImageStore)(nil)
