// Package search maintient l'index produits Elasticsearch. Sans ELASTIC_URL
// l'index est désactivé et la recherche retombe sur le store.
package search

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
)

var ErrDisabled = errors.New("search: index disabled")

type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	IndexProducts(ctx context.Context, ps []models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
	// SearchProducts renvoie les ids par pertinence décroissante
	SearchProducts(ctx context.Context, query string, limit int) ([]primitive.ObjectID, error)
}

type Noop struct{}

var _ Indexer = Noop{}

func (Noop) IndexProduct(context.Context, models.Product) error      { return nil }
func (Noop) IndexProducts(context.Context, []models.Product) error   { return nil }
func (Noop) DeleteProduct(context.Context, primitive.ObjectID) error { return nil }
func (Noop) DeleteAll(context.Context) error                         { return nil }

func (Noop) SearchProducts(context.Context, string, int) ([]primitive.ObjectID, error) {
	return nil, ErrDisabled
}
