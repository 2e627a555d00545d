package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductSource string

const (
	SourceDummyJSON ProductSource = "dummyjson"
	SourceAdmin     ProductSource = "admin"
)

type Product struct {
	ID                 primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title"`
	Description        string             `json:"description" bson:"description"`
	Price              float64            `json:"price" bson:"price"`
	DiscountPercentage float64            `json:"discountPercentage" bson:"discountPercentage"`
	Rating             float64            `json:"rating" bson:"rating"`
	Stock              int                `json:"stock" bson:"stock"`
	Brand              string             `json:"brand" bson:"brand"`
	Category           string             `json:"category" bson:"category"`
	Thumbnail          string             `json:"thumbnail" bson:"thumbnail"`
	Images             []string           `json:"images" bson:"images"`
	Featured           bool               `json:"featured" bson:"featured"`
	Source             ProductSource      `json:"source" bson:"source"`
	DummyJSONID        int                `json:"dummyJsonId,omitempty" bson:"dummyJsonId,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FinalPrice applique la remise, arrondie au centime
func (p Product) FinalPrice() float64 {
	return RoundCents(p.Price - p.Price*p.DiscountPercentage/100)
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ProductInput est le corps accepté pour la création par un admin
type ProductInput struct {
	Title              string   `json:"title" validate:"required,max=200"`
	Description        string   `json:"description" validate:"required"`
	Price              *float64 `json:"price" validate:"required,min=0"`
	DiscountPercentage float64  `json:"discountPercentage" validate:"min=0,max=100"`
	Stock              int      `json:"stock" validate:"min=0"`
	Brand              string   `json:"brand" validate:"max=100"`
	Category           string   `json:"category" validate:"required,max=100"`
	Thumbnail          string   `json:"thumbnail" validate:"required,url"`
	Images             []string `json:"images" validate:"omitempty,dive,url"`
	Featured           bool     `json:"featured"`
}

func (in ProductInput) Product() Product {
	p := Product{
		Title:              in.Title,
		Description:        in.Description,
		DiscountPercentage: in.DiscountPercentage,
		Stock:              in.Stock,
		Brand:              in.Brand,
		Category:           in.Category,
		Thumbnail:          in.Thumbnail,
		Images:             in.Images,
		Featured:           in.Featured,
		Source:             SourceAdmin,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if len(p.Images) == 0 {
		p.Images = []string{in.Thumbnail}
	}
	return p
}

// ProductUpdate ne touche que les champs présents dans la requête.
// La note n'en fait pas partie: seul l'agrégateur d'avis la modifie.
type ProductUpdate struct {
	Title              *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description        *string   `json:"description" validate:"omitempty,min=1"`
	Price              *float64  `json:"price" validate:"omitempty,min=0"`
	DiscountPercentage *float64  `json:"discountPercentage" validate:"omitempty,min=0,max=100"`
	Stock              *int      `json:"stock" validate:"omitempty,min=0"`
	Brand              *string   `json:"brand" validate:"omitempty,max=100"`
	Category           *string   `json:"category" validate:"omitempty,min=1,max=100"`
	Thumbnail          *string   `json:"thumbnail" validate:"omitempty,url"`
	Images             *[]string `json:"images" validate:"omitempty,dive,url"`
	Featured           *bool     `json:"featured"`
}

// SetDoc construit le document $set correspondant
func (u ProductUpdate) SetDoc() bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.DiscountPercentage != nil {
		set["discountPercentage"] = *u.DiscountPercentage
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Brand != nil {
		set["brand"] = *u.Brand
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Thumbnail != nil {
		set["thumbnail"] = *u.Thumbnail
	}
	if u.Images != nil {
		set["images"] = *u.Images
	}
	if u.Featured != nil {
		set["featured"] = *u.Featured
	}
	return set
}

// Apply reproduit SetDoc sur une valeur en mémoire
func (u ProductUpdate) Apply(p *Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.DiscountPercentage != nil {
		p.DiscountPercentage = *u.DiscountPercentage
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Brand != nil {
		p.Brand = *u.Brand
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Thumbnail != nil {
		p.Thumbnail = *u.Thumbnail
	}
	if u.Images != nil {
		p.Images = *u.Images
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
}

// ProductSummary est la projection attachée aux avis récents
type ProductSummary struct {
	ID        primitive.ObjectID `json:"_id"`
	Title     string             `json:"title"`
	Thumbnail string             `json:"thumbnail"`
}
