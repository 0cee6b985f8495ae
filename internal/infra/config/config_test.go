package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("KAFKA_BROKERS", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "milhouse", cfg.MongoDB)
	assert.Equal(t, 30*time.Second, cfg.SnapshotTTL)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.False(t, cfg.UsesMongo())
	assert.Equal(t, ImageStoreMemory, cfg.ResolvedImageStore())
	assert.Equal(t, int64(25*1024*1024), cfg.MaxImageBytes())
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, cfg.S3Endpoint, cfg.S3PublicEndpoint)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", " Prod ")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SNAPSHOT_TTL", "2m")
	t.Setenv("IMAGE_STORE", "S3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.True(t, cfg.UsesMongo())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, ImageStoreS3, cfg.ResolvedImageStore())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("IMAGE_STORE", "gridfs")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("IMAGE_STORE", "ftp")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("IMAGE_STORE", "memory")
	t.Setenv("SNAPSHOT_TTL", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestResolvedImageStore_AutoWithMongo(t *testing.T) {
	cfg := Config{ImageStore: ImageStoreAuto, MongoURI: "mongodb://x"}
	assert.Equal(t, ImageStoreGridFS, cfg.ResolvedImageStore())
}
