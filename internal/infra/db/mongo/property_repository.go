package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperties "milhouse/internal/domain/properties"
)

// PropertyRepository stores listings in a single collection keyed by ObjectID.
type PropertyRepository struct {
	col    *mongo.Collection
	logger *slog.Logger
}

func NewPropertyRepository(db *mongo.Database, collection string, logger *slog.Logger) *PropertyRepository {
	if collection == "" {
		collection = "properties"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyRepository{col: db.Collection(collection), logger: logger}
}

// List returns every listing in insertion order. Documents that cannot be decoded
// or carry no usable id are logged and skipped.
func (r *PropertyRepository) List(ctx context.Context) ([]domainproperties.Property, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]domainproperties.Property, 0)
	for cur.Next(ctx) {
		var doc propertyDocument
		if err := cur.Decode(&doc); err != nil {
			r.logger.Warn("skip undecodable property", "error", err)
			continue
		}
		p, ok := doc.toAggregate()
		if !ok {
			r.logger.Warn("skip property without id", "title", doc.Title)
			continue
		}
		out = append(out, p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	oid, err := objectIDFor(id)
	if err != nil {
		return nil, err
	}
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperties.ErrNotFound
		}
		return nil, err
	}
	p, ok := doc.toAggregate()
	if !ok {
		return nil, domainproperties.ErrNotFound
	}
	return &p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *domainproperties.Property) error {
	if p == nil {
		return domainproperties.ErrInvalidID
	}
	oid, err := objectIDFor(p.ID)
	if err != nil {
		return err
	}
	doc := newPropertyDocument(p)
	doc.ID = oid
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: insert property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *domainproperties.Property) error {
	if p == nil {
		return domainproperties.ErrInvalidID
	}
	oid, err := objectIDFor(p.ID)
	if err != nil {
		return err
	}
	doc := newPropertyDocument(p)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("mongo: replace property: %w", err)
	}
	if res.MatchedCount == 0 {
		return domainproperties.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id domainproperties.PropertyID) error {
	oid, err := objectIDFor(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainproperties.ErrNotFound
	}
	return nil
}

// Count is used by the seeder to decide whether the collection is empty.
func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	return r.col.EstimatedDocumentCount(ctx)
}

func objectIDFor(id domainproperties.PropertyID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, domainproperties.ErrInvalidID
	}
	return oid, nil
}

type propertyDocument struct {
	ID                   any                        `bson:"_id,omitempty"`
	Title                string                     `bson:"title"`
	Type                 string                     `bson:"type"`
	SaleType             string                     `bson:"saleType"`
	Currency             string                     `bson:"currency,omitempty"`
	Price                *float64                   `bson:"price,omitempty"`
	PriceFormatted       string                     `bson:"priceFormatted,omitempty"`
	PricePerSqm          *float64                   `bson:"pricePerSqm,omitempty"`
	Bedrooms             *int                       `bson:"bedrooms,omitempty"`
	Bathrooms            *int                       `bson:"bathrooms,omitempty"`
	Parking              *int                       `bson:"parking,omitempty"`
	Area                 *float64                   `bson:"area,omitempty"`
	Address              string                     `bson:"address,omitempty"`
	Location             any                        `bson:"location,omitempty"`
	Latitude             *float64                   `bson:"latitude,omitempty"`
	Longitude            *float64                   `bson:"longitude,omitempty"`
	DescriptionParagraph string                     `bson:"descriptionParagraph,omitempty"`
	Features             []string                   `bson:"features,omitempty"`
	Amenities            []string                   `bson:"amenities,omitempty"`
	Images               []string                   `bson:"images,omitempty"`
	Units                []domainproperties.Unit    `bson:"units,omitempty"`
	Related              []domainproperties.Related `bson:"related,omitempty"`
	IsHeroDefault        bool                       `bson:"isHeroDefault,omitempty"`
	HeroTitle            string                     `bson:"heroTitle,omitempty"`
	HeroDescription      string                     `bson:"heroDescription,omitempty"`
	CreatedAt            time.Time                  `bson:"createdAt,omitempty"`
	UpdatedAt            time.Time                  `bson:"updatedAt,omitempty"`
}

func newPropertyDocument(p *domainproperties.Property) propertyDocument {
	doc := propertyDocument{
		Title:                p.Title,
		Type:                 p.Type,
		SaleType:             p.SaleType,
		Currency:             p.Currency,
		Price:                p.Price,
		PriceFormatted:       p.PriceFormatted,
		PricePerSqm:          p.PricePerSqm,
		Bedrooms:             p.Bedrooms,
		Bathrooms:            p.Bathrooms,
		Parking:              p.Parking,
		Area:                 p.Area,
		Address:              p.Address,
		Latitude:             p.Latitude,
		Longitude:            p.Longitude,
		DescriptionParagraph: p.DescriptionParagraph,
		Features:             p.Features,
		Amenities:            p.Amenities,
		Images:               p.Images,
		Units:                p.Units,
		Related:              p.Related,
		IsHeroDefault:        p.IsHeroDefault,
		HeroTitle:            p.HeroTitle,
		HeroDescription:      p.HeroDescription,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if !p.Location.IsZero() {
		doc.Location = p.Location
	}
	return doc
}

func (d propertyDocument) toAggregate() (domainproperties.Property, bool) {
	id := domainproperties.ParseIdentifier(d.ID)
	if !id.Valid() {
		return domainproperties.Property{}, false
	}
	p := domainproperties.Property{
		ID:                   id.PropertyID(),
		Title:                d.Title,
		Type:                 d.Type,
		SaleType:             d.SaleType,
		Currency:             d.Currency,
		Price:                d.Price,
		PriceFormatted:       d.PriceFormatted,
		PricePerSqm:          d.PricePerSqm,
		Bedrooms:             d.Bedrooms,
		Bathrooms:            d.Bathrooms,
		Parking:              d.Parking,
		Area:                 d.Area,
		Address:              d.Address,
		Latitude:             d.Latitude,
		Longitude:            d.Longitude,
		DescriptionParagraph: d.DescriptionParagraph,
		Features:             d.Features,
		Amenities:            d.Amenities,
		Images:               d.Images,
		Units:                d.Units,
		Related:              d.Related,
		IsHeroDefault:        d.IsHeroDefault,
		HeroTitle:            d.HeroTitle,
		HeroDescription:      d.HeroDescription,
		CreatedAt:            d.CreatedAt.UTC(),
		UpdatedAt:            d.UpdatedAt.UTC(),
	}
	p.Location = decodeLocation(d.Location)
	return p, true
}

// decodeLocation accepts both the structured form and the free-text string older
// documents carry.
func decodeLocation(raw any) domainproperties.Location {
	switch v := raw.(type) {
	case nil:
		return domainproperties.Location{}
	case string:
		return domainproperties.Location{Text: v}
	case domainproperties.Location:
		return v
	}
	data, err := bson.Marshal(raw)
	if err != nil {
		return domainproperties.Location{}
	}
	var loc domainproperties.Location
	if err := bson.Unmarshal(data, &loc); err != nil {
		return domainproperties.Location{}
	}
	return loc
}

var _ domainproperties.Repository = (*PropertyRepository)(nil)
