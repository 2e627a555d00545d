// Package mongostore implémente store.Store sur MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"storefront_back_end/internal/store"
)

const (
	colProducts = "products"
	colReviews  = "reviews"
	colOrders   = "orders"
	colUsers    = "users"
	colContacts = "contacts"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database

	products *mongo.Collection
	reviews  *mongo.Collection
	orders   *mongo.Collection
	users    *mongo.Collection
	contacts *mongo.Collection

	nowFunc func() time.Time
}

var _ store.Store = (*Store)(nil)

// clientOptions: timeout borne aussi chaque opération (MONGO_TIMEOUT), pas seulement la connexion
func clientOptions(uri string, timeout time.Duration) *options.ClientOptions {
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetServerSelectionTimeout(timeout).
			SetConnectTimeout(timeout).
			SetTimeout(timeout)
	}
	return opts
}

// Connect ouvre le client, vérifie la connexion et crée les index
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	client, err := mongo.Connect(ctx, clientOptions(uri, timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := New(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	zap.L().Info("✅ Connecté à MongoDB", zap.String("database", database))
	return s, nil
}

func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		db:       db,
		products: db.Collection(colProducts),
		reviews:  db.Collection(colReviews),
		orders:   db.Collection(colOrders),
		users:    db.Collection(colUsers),
		contacts: db.Collection(colContacts),
		nowFunc:  time.Now,
	}
}

func (s *Store) now() time.Time { return s.nowFunc().UTC() }

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes est idempotent, Mongo ignore les index déjà présents
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.products: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
		},
		s.reviews: {
			{
				Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		s.orders: {
			{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		s.users: {
			{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string", "$gt": ""}}),
			},
		},
		s.contacts: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo indexes %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// mapErr traduit les erreurs du driver en erreurs du store
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	return err
}

func after() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// withUpdatedAt ajoute updatedAt au $set
func (s *Store) withUpdatedAt(set bson.M) bson.M {
	out := bson.M{"updatedAt": s.now()}
	for k, v := range set {
		out[k] = v
	}
	return bson.M{"$set": out}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}
