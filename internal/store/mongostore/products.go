package mongostore

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	filter := q.Filter()

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := findAll[models.Product](ctx, s.products, filter, q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *Store) GetProducts(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return findAll[models.Product](ctx, s.products, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	raw, err := s.products.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if c, ok := v.(string); ok && c != "" {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	return s.products.CountDocuments(ctx, bson.M{})
}

func (s *Store) InsertProducts(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if len(products) == 0 {
		return []models.Product{}, nil
	}
	now := s.now()
	docs := make([]any, 0, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		p.CreatedAt, p.UpdatedAt = now, now
		docs = append(docs, p)
		out = append(out, p)
	}
	if _, err := s.products.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("insert products: %w", mapErr(err))
	}
	return out, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := s.products.InsertOne(ctx, p)
	return mapErr(err)
}

func (s *Store) updateProduct(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Product, error) {
	var p models.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after()).Decode(&p)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id primitive.ObjectID, u models.ProductUpdate) (*models.Product, error) {
	return s.updateProduct(ctx, id, s.withUpdatedAt(u.SetDoc()))
}

func (s *Store) AddProductImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Product, error) {
	update := s.withUpdatedAt(nil)
	update["$push"] = bson.M{"images": url}
	return s.updateProduct(ctx, id, update)
}

func (s *Store) SetProductRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	res, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, s.withUpdatedAt(bson.M{"rating": rating}))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllProducts(ctx context.Context) (int64, error) {
	res, err := s.products.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) ProductIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	type idOnly struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	docs, err := findAll[idOnly](ctx, s.products, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
