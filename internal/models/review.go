package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"`
	UserPhoto string             `json:"userPhoto" bson:"userPhoto"`
	Rating    int                `json:"rating" bson:"rating"` // 1-5
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ReviewUpdate struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=1000"`
}

func (u ReviewUpdate) Apply(r *Review) {
	if u.Rating != nil {
		r.Rating = *u.Rating
	}
	if u.Comment != nil {
		r.Comment = *u.Comment
	}
}

func (u ReviewUpdate) SetDoc() bson.M {
	set := bson.M{}
	if u.Rating != nil {
		set["rating"] = *u.Rating
	}
	if u.Comment != nil {
		set["comment"] = *u.Comment
	}
	return set
}

// ReviewView est un avis accompagné du produit concerné
type ReviewView struct {
	Review
	Product *ProductSummary `json:"product,omitempty"`
}
