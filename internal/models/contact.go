package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

var contactRank = map[ContactStatus]int{ContactNew: 0, ContactRead: 1, ContactReplied: 2}

// Valid indique si le statut fait partie de l'enum
func (s ContactStatus) Valid() bool {
	_, ok := contactRank[s]
	return ok
}

// CanAdvance: un message ne revient jamais en arrière (new → read → replied)
func (s ContactStatus) CanAdvance(to ContactStatus) bool {
	from, ok1 := contactRank[s]
	next, ok2 := contactRank[to]
	return ok1 && ok2 && next > from
}

type Contact struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Name      string              `json:"name" bson:"name"`
	Email     string              `json:"email" bson:"email"`
	Subject   string              `json:"subject" bson:"subject"`
	Message   string              `json:"message" bson:"message"`
	Status    ContactStatus       `json:"status" bson:"status"`
	UserID    *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

const MaxContactMessage = 2000
