package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions liste les passages autorisés; delivered et cancelled sont terminaux
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  nil,
	OrderCancelled:  nil,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
)

type OrderItem struct {
	ProductID    primitive.ObjectID `json:"productId" bson:"productId"`
	ProductName  string             `json:"productName" bson:"productName"`
	ProductImage string             `json:"productImage" bson:"productImage"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	Price        float64            `json:"price" bson:"price"`
}

type Order struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	OrderID         string             `json:"orderId" bson:"orderId"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	UserEmail       string             `json:"userEmail" bson:"userEmail"`
	UserName        string             `json:"userName" bson:"userName"`
	Items           []OrderItem        `json:"items" bson:"items"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount"`
	Status          OrderStatus        `json:"status" bson:"status"`
	ShippingAddress Address            `json:"shippingAddress" bson:"shippingAddress"`
	PhoneNumber     string             `json:"phoneNumber" bson:"phoneNumber"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod" bson:"paymentMethod"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Total recalcule le montant à partir des lignes
func (o Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return RoundCents(sum)
}

// OrderUpdate regroupe ce que le client peut encore modifier tant que la commande est en attente
type OrderUpdate struct {
	ShippingAddress *Address       `json:"shippingAddress"`
	PhoneNumber     *string        `json:"phoneNumber" validate:"omitempty,min=5,max=30"`
	PaymentMethod   *PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cod card paypal"`
	Notes           *string        `json:"notes" validate:"omitempty,max=500"`
}

func (u OrderUpdate) Empty() bool {
	return u.ShippingAddress == nil && u.PhoneNumber == nil && u.PaymentMethod == nil && u.Notes == nil
}

func (u OrderUpdate) Apply(o *Order) {
	if u.ShippingAddress != nil {
		o.ShippingAddress = u.ShippingAddress.WithDefaults()
	}
	if u.PhoneNumber != nil {
		o.PhoneNumber = *u.PhoneNumber
	}
	if u.PaymentMethod != nil {
		o.PaymentMethod = *u.PaymentMethod
	}
	if u.Notes != nil {
		o.Notes = *u.Notes
	}
}

func (u OrderUpdate) SetDoc() bson.M {
	set := bson.M{}
	if u.ShippingAddress != nil {
		set["shippingAddress"] = u.ShippingAddress.WithDefaults()
	}
	if u.PhoneNumber != nil {
		set["phoneNumber"] = *u.PhoneNumber
	}
	if u.PaymentMethod != nil {
		set["paymentMethod"] = *u.PaymentMethod
	}
	if u.Notes != nil {
		set["notes"] = *u.Notes
	}
	return set
}
