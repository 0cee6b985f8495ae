package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

var ErrDatabaseRequired = errors.New("mongo: database name is required")

// Client owns the driver connection; every store shares its DB handle.
type Client struct {
	DB *mongo.Database
}

// New connects to uri and verifies the server answers before returning.
func New(uri, database string) (*Client, error) {
	if database == "" {
		return nil, ErrDatabaseRequired
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("milhouse").
		SetRetryWrites(true).
		SetServerSelectionTimeout(connectTimeout)
	conn, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := conn.Ping(ctx, nil); err != nil {
		_ = conn.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping %s: %w", database, err)
	}
	return &Client{DB: conn.Database(database)}, nil
}

// Ping backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error { return c.DB.Client().Ping(ctx, nil) }

func (c *Client) Close(ctx context.Context) error { return c.DB.Client().Disconnect(ctx) }
