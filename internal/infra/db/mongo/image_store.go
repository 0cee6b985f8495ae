package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmedia "milhouse/internal/domain/media"
)

// ImageStore keeps uploads in a GridFS bucket and serves them through the image
// route, so URLs are stable regardless of where the bucket lives.
type ImageStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewImageStore(db *mongo.Database, bucketName, baseURL string) (*ImageStore, error) {
	opts := options.GridFSBucket()
	if bucketName != "" {
		opts.SetName(bucketName)
	}
	bucket, err := gridfs.NewBucket(db, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: gridfs bucket: %w", err)
	}
	if baseURL == "" {
		baseURL = "/api/images"
	}
	return &ImageStore{bucket: bucket, baseURL: baseURL}, nil
}

func (s *ImageStore) Save(ctx context.Context, upload domainmedia.Upload) (domainmedia.Stored, error) {
	if upload.Content == nil {
		return domainmedia.Stored{}, domainmedia.ErrEmpty
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return domainmedia.Stored{}, err
		}
	}
	meta := bson.M{
		"contentType":  upload.ContentType,
		"originalName": upload.Filename,
		"size":         upload.Size,
	}
	if upload.Purpose != "" {
		meta["purpose"] = upload.Purpose
	}
	filename := domainmedia.SafeFilename(upload.Filename)
	oid, err := s.bucket.UploadFromStream(filename, upload.Content, options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return domainmedia.Stored{}, fmt.Errorf("mongo: upload image: %w", err)
	}
	id := domainmedia.ImageID(oid.Hex())
	return domainmedia.Stored{ID: id, URL: s.baseURL + "/" + string(id)}, nil
}

func (s *ImageStore) Open(ctx context.Context, id domainmedia.ImageID) (*domainmedia.Object, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, domainmedia.ErrInvalidID
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	stream, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domainmedia.ErrNotFound
		}
		return nil, err
	}
	file := stream.GetFile()
	obj := &domainmedia.Object{
		ID:         id,
		Filename:   file.Name,
		Size:       file.Length,
		UploadedAt: file.UploadDate.UTC(),
		Content:    stream,
	}
	if file.Metadata != nil {
		if v, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			obj.ContentType = v
		}
		if v, ok := file.Metadata.Lookup("originalName").StringValueOK(); ok && v != "" {
			obj.Filename = v
		}
	}
	if obj.UploadedAt.IsZero() {
		obj.UploadedAt = time.Now().UTC()
	}
	return obj, nil
}

var _ domainmedia.Store = (*ImageStore)(nil)
