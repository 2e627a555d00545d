// Package store décrit l'accès au document store. Les implémentations
// vivent dans mongostore (production) et memstore (tests, développement local).
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
)

var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrStatusMismatch: la mise à jour conditionnelle du statut a échoué
	ErrStatusMismatch = errors.New("store: status mismatch")
)

type ProductStore interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetProducts(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	CountProducts(ctx context.Context) (int64, error)
	InsertProducts(ctx context.Context, products []models.Product) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, u models.ProductUpdate) (*models.Product, error)
	AddProductImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Product, error)
	SetProductRating(ctx context.Context, id primitive.ObjectID, rating float64) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	DeleteAllProducts(ctx context.Context) (int64, error)
	ProductIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type ReviewStore interface {
	RecentReviews(ctx context.Context, limit int64) ([]models.Review, error)
	// ProductReviews renvoie les avis du plus récent au plus ancien
	ProductReviews(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	ProductRatings(ctx context.Context, productID primitive.ObjectID) ([]float64, error)
	GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindUserReview(ctx context.Context, productID, userID primitive.ObjectID) (*models.Review, error)
	CreateReview(ctx context.Context, r *models.Review) error
	UpdateReview(ctx context.Context, id primitive.ObjectID, u models.ReviewUpdate) (*models.Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
}

type OrderFilter struct {
	UserID *primitive.ObjectID
	Status models.OrderStatus
	Page
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error)
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, orderID string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id primitive.ObjectID, u models.OrderUpdate) (*models.Order, error)
	// SetOrderStatus ne s'applique que si le statut courant vaut from
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id primitive.ObjectID, u models.UserUpdate) (*models.User, error)
}

type ContactStore interface {
	CreateContact(ctx context.Context, c *models.Contact) error
	ListContacts(ctx context.Context, status models.ContactStatus) ([]models.Contact, error)
	GetContact(ctx context.Context, id primitive.ObjectID) (*models.Contact, error)
	SetContactStatus(ctx context.Context, id primitive.ObjectID, status models.ContactStatus) (*models.Contact, error)
}

type Store interface {
	ProductStore
	ReviewStore
	OrderStore
	UserStore
	ContactStore
	Close(ctx context.Context) error
}
