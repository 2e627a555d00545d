// Package rating maintient la note moyenne des produits à partir de leurs avis.
package rating

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store est le sous-ensemble du store utilisé par l'agrégateur
type Store interface {
	ProductRatings(ctx context.Context, productID primitive.ObjectID) ([]float64, error)
	SetProductRating(ctx context.Context, id primitive.ObjectID, rating float64) error
}

type Aggregator struct {
	store Store
}

func NewAggregator(s Store) *Aggregator {
	return &Aggregator{store: s}
}

// Mean renvoie la moyenne arithmétique, 0 sans avis
func Mean(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	m, err := stats.Mean(ratings)
	if err != nil {
		return 0
	}
	return m
}

// Recompute relit toutes les notes du produit et écrit leur moyenne.
// À appeler après l'écriture de l'avis.
func (a *Aggregator) Recompute(ctx context.Context, productID primitive.ObjectID) (float64, error) {
	ratings, err := a.store.ProductRatings(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("load ratings %s: %w", productID.Hex(), err)
	}
	mean := Mean(ratings)
	if err := a.store.SetProductRating(ctx, productID, mean); err != nil {
		return 0, fmt.Errorf("set rating %s: %w", productID.Hex(), err)
	}
	return mean, nil
}
