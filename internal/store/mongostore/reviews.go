package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

func (s *Store) RecentReviews(ctx context.Context, limit int64) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.reviews, bson.M{},
		options.Find().SetSort(newestFirst()).SetLimit(limit))
}

func (s *Store) ProductReviews(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.reviews, bson.M{"productId": productID},
		options.Find().SetSort(newestFirst()))
}

func (s *Store) ProductRatings(ctx context.Context, productID primitive.ObjectID) ([]float64, error) {
	type ratingOnly struct {
		Rating int `bson:"rating"`
	}
	docs, err := findAll[ratingOnly](ctx, s.reviews, bson.M{"productId": productID},
		options.Find().SetProjection(bson.M{"rating": 1, "_id": 0}))
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(docs))
	for _, d := range docs {
		out = append(out, float64(d.Rating))
	}
	return out, nil
}

func (s *Store) GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	if err := s.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (s *Store) FindUserReview(ctx context.Context, productID, userID primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	err := s.reviews.FindOne(ctx, bson.M{"productId": productID, "userId": userID}).Decode(&r)
	if err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

// CreateReview: l'index unique (productId, userId) tranche les créations concurrentes
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	now := s.now()
	r.CreatedAt, r.UpdatedAt = now, now
	_, err := s.reviews.InsertOne(ctx, r)
	return mapErr(err)
}

func (s *Store) UpdateReview(ctx context.Context, id primitive.ObjectID, u models.ReviewUpdate) (*models.Review, error) {
	var r models.Review
	err := s.reviews.FindOneAndUpdate(ctx, bson.M{"_id": id}, s.withUpdatedAt(u.SetDoc()), after()).Decode(&r)
	if err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (s *Store) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.reviews.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
