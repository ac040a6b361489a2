package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// GuestUserID marks orders placed without an authenticated session.
const GuestUserID = "guest"

// Order is an immutable checkout snapshot. Only Status changes after
// creation, and only from pending to a terminal value.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	FullName      string             `bson:"fullName" json:"fullName"`
	Phone         string             `bson:"phone" json:"phone"`
	Address       string             `bson:"address" json:"address"`
	City          string             `bson:"city" json:"city"`
	Country       string             `bson:"country" json:"country"`
	Items         []CartItem         `bson:"items" json:"items"`
	Total         float64            `bson:"total" json:"total"`
	Status        string             `bson:"status" json:"status"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
