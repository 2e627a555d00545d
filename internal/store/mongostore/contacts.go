package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/models"
)

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.contacts.InsertOne(ctx, c)
	return mapErr(err)
}

func (s *Store) ListContacts(ctx context.Context, status models.ContactStatus) ([]models.Contact, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return findAll[models.Contact](ctx, s.contacts, filter, options.Find().SetSort(newestFirst()))
}

func (s *Store) GetContact(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var c models.Contact
	if err := s.contacts.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *Store) SetContactStatus(ctx context.Context, id primitive.ObjectID, status models.ContactStatus) (*models.Contact, error) {
	var c models.Contact
	err := s.contacts.FindOneAndUpdate(ctx, bson.M{"_id": id},
		s.withUpdatedAt(bson.M{"status": status}), after()).Decode(&c)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}
