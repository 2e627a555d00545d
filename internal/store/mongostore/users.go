package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
)

func (s *Store) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *Store) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"uid": uid}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := s.users.InsertOne(ctx, u)
	return mapErr(err)
}

func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error) {
	var u models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, s.withUpdatedAt(upd.SetDoc()), after()).Decode(&u)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
