package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UID         string             `json:"uid" bson:"uid"`
	Email       string             `json:"email" bson:"email"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	PhotoURL    string             `json:"photoURL" bson:"photoURL"`
	Role        Role               `json:"role" bson:"role"`
	PhoneNumber string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Address     *Address           `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type UserUpdate struct {
	DisplayName *string  `json:"displayName" validate:"omitempty,min=1,max=100"`
	PhotoURL    *string  `json:"photoURL" validate:"omitempty,url"`
	PhoneNumber *string  `json:"phoneNumber" validate:"omitempty,max=30"`
	Address     *Address `json:"address"`
}

func (u UserUpdate) Apply(user *User) {
	if u.DisplayName != nil {
		user.DisplayName = *u.DisplayName
	}
	if u.PhotoURL != nil {
		user.PhotoURL = *u.PhotoURL
	}
	if u.PhoneNumber != nil {
		user.PhoneNumber = *u.PhoneNumber
	}
	if u.Address != nil {
		a := u.Address.WithDefaults()
		user.Address = &a
	}
}

func (u UserUpdate) SetDoc() bson.M {
	set := bson.M{}
	if u.DisplayName != nil {
		set["displayName"] = *u.DisplayName
	}
	if u.PhotoURL != nil {
		set["photoURL"] = *u.PhotoURL
	}
	if u.PhoneNumber != nil {
		set["phoneNumber"] = *u.PhoneNumber
	}
	if u.Address != nil {
		set["address"] = u.Address.WithDefaults()
	}
	return set
}
