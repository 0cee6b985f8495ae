package s3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domainmedia "milhouse/internal/domain/media"
)

const keyPrefix = "images/"

// ImageStore keeps uploads in an S3-compatible bucket. With a public base URL
// the returned links point straight at the bucket; otherwise they go through
// the image route, which reads the object back with Open.
type ImageStore struct {
	bucket         string
	publicBaseURL  string
	routeBaseURL   string
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

type Options struct {
	Endpoint      string
	UseSSL        bool
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	RouteBaseURL  string
}

func NewImageStore(opts Options, logger *slog.Logger) (*ImageStore, error) {
	cleanEndpoint := strings.TrimSpace(opts.Endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	route := strings.TrimRight(strings.TrimSpace(opts.RouteBaseURL), "/")
	if route == "" {
		route = "/api/images"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"),
		routeBaseURL:  route,
		client:        minioClient,
		logger:        logger,
	}, nil
}

func (s *ImageStore) Save(ctx context.Context, upload domainmedia.Upload) (domainmedia.Stored, error) {
	if upload.Content == nil {
		return domainmedia.Stored{}, domainmedia.ErrEmpty
	}
	if err := s.ensureBucket(ctx); err != nil {
		return domainmedia.Stored{}, err
	}

	id := domainmedia.ImageID(primitive.NewObjectID().Hex())
	key := objectKey(id)
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := upload.Size
	if size <= 0 {
		size = -1
	}
	meta := map[string]string{"original-name": domainmedia.SafeFilename(upload.Filename)}
	if upload.Purpose != "" {
		meta["purpose"] = upload.Purpose
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, upload.Content, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
		UserMetadata: meta,
	})
	if err != nil {
		return domainmedia.Stored{}, fmt.Errorf("s3: put object: %w", err)
	}

	stored := domainmedia.Stored{ID: id, URL: s.imageURL(id)}
	s.logger.Info("s3 upload completed", "bucket", s.bucket, "key", key, "url", stored.URL)
	return stored, nil
}

func (s *ImageStore) Open(ctx context.Context, id domainmedia.ImageID) (*domainmedia.Object, error) {
	if !primitive.IsValidObjectID(string(id)) {
		return nil, domainmedia.ErrInvalidID
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapNotFound(err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, mapNotFound(err)
	}
	name := info.UserMetadata["Original-Name"]
	if name == "" {
		name = string(id)
	}
	return &domainmedia.Object{
		ID:          id,
		Filename:    name,
		ContentType: info.ContentType,
		Size:        info.Size,
		UploadedAt:  info.LastModified.UTC(),
		Content:     obj,
	}, nil
}

func mapNotFound(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return domainmedia.ErrNotFound
	}
	return fmt.Errorf("s3: get object: %w", err)
}

func (s *ImageStore) ensureBucket(ctx context.Context) error {
	s.bucketInitOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
			return
		}
		if s.publicBaseURL != "" {
			s.bucketInitErr = s.allowPublicRead(ctx)
		}
	})
	return s.bucketInitErr
}

func (s *ImageStore) allowPublicRead(ctx context.Context) error {
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s*"]}]}`, s.bucket, keyPrefix)
	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("s3: set bucket policy: %w", err)
	}
	return nil
}

func (s *ImageStore) imageURL(id domainmedia.ImageID) string {
	if s.publicBaseURL == "" {
		return s.routeBaseURL + "/" + string(id)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, objectKey(id))
}

func objectKey(id domainmedia.ImageID) string {
	return keyPrefix + string(id)
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ domainmedia.Store = (*ImageStore)(nil)
