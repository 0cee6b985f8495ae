package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Image store backends.
const (
	ImageStoreAuto   = "auto"
	ImageStoreGridFS = "gridfs"
	ImageStoreS3     = "s3"
	ImageStoreMemory = "memory"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MongoURI        string `env:"MONGO_URI"`
	MongoDB         string `env:"MONGO_DB" envDefault:"milhouse"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"properties"`

	ImageStore       string `env:"IMAGE_STORE" envDefault:"auto"`
	S3Endpoint       string `env:"S3_ENDPOINT" envDefault:"http://localhost:9000"`
	S3PublicEndpoint string `env:"S3_PUBLIC_ENDPOINT"`
	S3AccessKey      string `env:"S3_ACCESS_KEY" envDefault:"minioadmin"`
	S3SecretKey      string `env:"S3_SECRET_KEY" envDefault:"minioadmin"`
	S3Bucket         string `env:"S3_BUCKET" envDefault:"milhouse-images"`
	S3UseSSL         bool   `env:"S3_USE_SSL" envDefault:"false"`

	KafkaBrokers       []string        `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopicPrefix   string          `env:"KAFKA_TOPIC_PREFIX"`
	OutboxPollInterval time.Duration   `env:"OUTBOX_POLL_INTERVAL" envDefault:"500ms"`
	RetryBackoff       []time.Duration `env:"RETRY_BACKOFF" envSeparator:"," envDefault:"1s,5s,30s"`

	UploadMaxImageMB int `env:"UPLOAD_MAX_IMAGE_MB" envDefault:"25"`
	UploadMaxBatch   int `env:"UPLOAD_MAX_BATCH" envDefault:"100"`

	SnapshotTTL    time.Duration `env:"SNAPSHOT_TTL" envDefault:"30s"`
	IdempotencyTTL time.Duration `env:"IDEMP_TTL" envDefault:"168h"`

	StaticDir string `env:"STATIC_DIR"`
	SeedFile  string `env:"SEED_FILE"`
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.ImageStore = strings.ToLower(strings.TrimSpace(c.ImageStore))
	if c.ImageStore == "" {
		c.ImageStore = ImageStoreAuto
	}
	if c.S3PublicEndpoint == "" {
		c.S3PublicEndpoint = c.S3Endpoint
	}
	brokers := c.KafkaBrokers[:0]
	for _, b := range c.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.KafkaBrokers = brokers
}

// Validate checks combinations env tags cannot express.
func (c Config) Validate() error {
	switch c.ImageStore {
	case ImageStoreAuto, ImageStoreMemory, ImageStoreS3:
	case ImageStoreGridFS:
		if c.MongoURI == "" {
			return fmt.Errorf("config: IMAGE_STORE=gridfs requires MONGO_URI")
		}
	default:
		return fmt.Errorf("config: unknown IMAGE_STORE %q", c.ImageStore)
	}
	if c.UploadMaxImageMB <= 0 {
		return fmt.Errorf("config: UPLOAD_MAX_IMAGE_MB must be positive")
	}
	if c.UploadMaxBatch <= 0 {
		return fmt.Errorf("config: UPLOAD_MAX_BATCH must be positive")
	}
	return nil
}

// UsesMongo reports whether persistence goes to MongoDB instead of memory.
func (c Config) UsesMongo() bool {
	return strings.TrimSpace(c.MongoURI) != ""
}

// ResolvedImageStore turns "auto" into a concrete backend.
func (c Config) ResolvedImageStore() string {
	if c.ImageStore != ImageStoreAuto {
		return c.ImageStore
	}
	if c.UsesMongo() {
		return ImageStoreGridFS
	}
	return ImageStoreMemory
}

// MaxImageBytes is the per-file upload limit.
func (c Config) MaxImageBytes() int64 {
	return int64(c.UploadMaxImageMB) * 1024 * 1024
}
