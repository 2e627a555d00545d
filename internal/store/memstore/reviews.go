package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

func (s *Store) RecentReviews(_ context.Context, limit int64) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Review{}
	for _, e := range sortedEntries(s.reviews, nil) {
		if int64(len(out)) >= limit {
			break
		}
		out = append(out, e.doc)
	}
	return out, nil
}

func (s *Store) ProductReviews(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Review{}
	for _, e := range sortedEntries(s.reviews, func(r models.Review) bool { return r.ProductID == productID }) {
		out = append(out, e.doc)
	}
	return out, nil
}

func (s *Store) ProductRatings(ctx context.Context, productID primitive.ObjectID) ([]float64, error) {
	reviews, err := s.ProductReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	ratings := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, float64(r.Rating))
	}
	return ratings, nil
}

func (s *Store) GetReview(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r := e.doc
	return &r, nil
}

func (s *Store) FindUserReview(_ context.Context, productID, userID primitive.ObjectID) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.reviews {
		if e.doc.ProductID == productID && e.doc.UserID == userID {
			r := e.doc
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateReview applique la même contrainte d'unicité (productId, userId) que l'index Mongo
func (s *Store) CreateReview(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.reviews {
		if e.doc.ProductID == r.ProductID && e.doc.UserID == r.UserID {
			return store.ErrDuplicate
		}
	}
	ensureID(&r.ID)
	stamp(&r.CreatedAt, &r.UpdatedAt, s.now())
	s.reviews[r.ID] = &entry[models.Review]{seq: s.next(), doc: *r}
	return nil
}

func (s *Store) UpdateReview(_ context.Context, id primitive.ObjectID, u models.ReviewUpdate) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Apply(&e.doc)
	e.doc.UpdatedAt = s.now()
	r := e.doc
	return &r, nil
}

func (s *Store) DeleteReview(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}
