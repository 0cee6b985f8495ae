package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincontacts "milhouse/internal/domain/contacts"
)

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	col := db.Collection("contacts")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}})
	return &ContactRepository{col: col}
}

func (r *ContactRepository) Add(ctx context.Context, req *domaincontacts.Request) error {
	_, err := r.col.InsertOne(ctx, contactDocument{
		ID:         string(req.ID),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
		PropertyID: req.PropertyID,
		Source:     req.Source,
		CreatedAt:  req.CreatedAt,
	})
	return err
}

// List returns requests newest first.
func (r *ContactRepository) List(ctx context.Context) ([]domaincontacts.Request, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []contactDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domaincontacts.Request, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

type contactDocument struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email,omitempty"`
	Phone      string    `bson:"phone,omitempty"`
	Message    string    `bson:"message,omitempty"`
	PropertyID string    `bson:"propertyId,omitempty"`
	Source     string    `bson:"source,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func (d contactDocument) toAggregate() domaincontacts.Request {
	return domaincontacts.Request{
		ID:         domaincontacts.ContactID(d.ID),
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Message:    d.Message,
		PropertyID: d.PropertyID,
		Source:     d.Source,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

var _ domaincontacts.Repository = (*ContactRepository)(nil)
