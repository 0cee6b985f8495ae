package s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainmedia "milhouse/internal/domain/media"
)

func TestNewImageStore_RequiresEndpointAndBucket(t *testing.T) {
	_, err := NewImageStore(Options{Bucket: "b"}, nil)
	assert.Error(t, err)
	_, err = NewImageStore(Options{Endpoint: "http://localhost:9000"}, nil)
	assert.Error(t, err)
}

func TestImageURL(t *testing.T) {
	direct, err := NewImageStore(Options{Endpoint: "http://localhost:9000", Bucket: "imgs", PublicBaseURL: "https://cdn.example.com/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/imgs/images/abc", direct.imageURL("abc"))

	proxied, err := NewImageStore(Options{Endpoint: "localhost:9000", Bucket: "imgs"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/images/abc", proxied.imageURL("abc"))
}

func TestOpen_RejectsMalformedID(t *testing.T) {
	store, err := NewImageStore(Options{Endpoint: "localhost:9000", Bucket: "imgs"}, nil)
	require.NoError(t, err)
	_, err = store.Open(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, domainmedia.ErrInvalidID)
}

func TestParseEndpoint(t *testing.T) {
	assert.Equal(t, "minio:9000", parseEndpoint("http://minio:9000"))
	assert.Equal(t, "minio:9000", parseEndpoint("minio:9000"))
}
