package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	_, err := s.orders.InsertOne(ctx, o)
	return mapErr(err)
}

func (s *Store) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, int64, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := s.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(newestFirst())
	if f.Limit > 0 {
		opts.SetSkip(f.Skip()).SetLimit(f.Limit)
	}
	items, err := findAll[models.Order](ctx, s.orders, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (s *Store) GetOrderByNumber(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	if err := s.orders.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

// conditionalUpdate applique update si le statut vaut from. Sans correspondance,
// distingue commande absente et statut différent.
func (s *Store) conditionalUpdate(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, update bson.M) (*models.Order, error) {
	var o models.Order
	err := s.orders.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, after()).Decode(&o)
	if err == nil {
		return &o, nil
	}
	err = mapErr(err)
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if _, getErr := s.GetOrder(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, store.ErrStatusMismatch
}

func (s *Store) UpdateOrder(ctx context.Context, id primitive.ObjectID, u models.OrderUpdate) (*models.Order, error) {
	return s.conditionalUpdate(ctx, id, models.OrderPending, s.withUpdatedAt(u.SetDoc()))
}

func (s *Store) SetOrderStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error) {
	return s.conditionalUpdate(ctx, id, from, s.withUpdatedAt(bson.M{"status": to}))
}
