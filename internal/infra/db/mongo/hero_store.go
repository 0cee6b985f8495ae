package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhero "milhouse/internal/domain/hero"
)

type HeroStore struct {
	col *mongo.Collection
}

func NewHeroStore(db *mongo.Database) *HeroStore {
	return &HeroStore{col: db.Collection("hero_config")}
}

func (s *HeroStore) Get(ctx context.Context) (domainhero.Config, error) {
	var doc heroDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": domainhero.ConfigID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainhero.Config{}, domainhero.ErrNotFound
		}
		return domainhero.Config{}, err
	}
	return doc.toConfig(), nil
}

// Put upserts the single config document.
func (s *HeroStore) Put(ctx context.Context, cfg domainhero.Config) error {
	doc := heroDocument{
		ID:          domainhero.ConfigID,
		ImageURL:    cfg.ImageURL,
		Title:       cfg.Title,
		Description: cfg.Description,
		UpdatedAt:   cfg.UpdatedAt,
		UpdatedBy:   cfg.UpdatedBy,
	}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type heroDocument struct {
	ID          string    `bson:"_id"`
	ImageURL    string    `bson:"imageUrl"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	UpdatedAt   time.Time `bson:"updatedAt"`
	UpdatedBy   string    `bson:"updatedBy"`
}

func (d heroDocument) toConfig() domainhero.Config {
	return domainhero.Config{
		ID:          d.ID,
		ImageURL:    d.ImageURL,
		Title:       d.Title,
		Description: d.Description,
		UpdatedAt:   d.UpdatedAt.UTC(),
		UpdatedBy:   d.UpdatedBy,
	}
}

var _ domainhero.Store = (*HeroStore)(nil)
