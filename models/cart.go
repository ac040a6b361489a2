package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrMissingProduct  = errors.New("productId and name are required")
)

// CartItem is one line of a cart, keyed by ProductID. The same shape is
// snapshotted into orders at checkout.
type CartItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
}

func (i CartItem) Validate() error {
	if i.ProductID == "" || i.Name == "" {
		return ErrMissingProduct
	}
	if i.Price <= 0 {
		return ErrInvalidPrice
	}
	if i.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Cart is the per-user collection of pending line items. Total is derived
// and must equal the sum of price*quantity after every mutation; every
// mutating method below recomputes it before the cart is persisted.
// Version guards concurrent read-modify-write cycles against lost updates.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	Version   int64              `bson:"version" json:"-"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"-"`
}

func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

// AddItem appends item, or increments the quantity of the existing line
// with the same ProductID. The item is assumed to be validated.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.RecomputeTotal()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.RecomputeTotal()
}

// SetQuantity sets the quantity of an existing line. It reports false if
// no line with productID exists.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.RecomputeTotal()
			return true
		}
	}
	return false
}

// RemoveItem drops the line with productID. Removing an absent line is a
// no-op.
func (c *Cart) RemoveItem(productID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.RecomputeTotal()
}

// Merge folds guest items into the cart with the same add-or-increment
// rule as AddItem. Invalid items are skipped rather than failing the
// merge; the number of applied items is returned. The total is recomputed
// once at the end.
func (c *Cart) Merge(items []CartItem) int {
	merged := 0
	for _, incoming := range items {
		if incoming.Quantity == 0 {
			incoming.Quantity = 1
		}
		if incoming.Validate() != nil {
			continue
		}
		found := false
		for i := range c.Items {
			if c.Items[i].ProductID == incoming.ProductID {
				c.Items[i].Quantity += incoming.Quantity
				found = true
				break
			}
		}
		if !found {
			c.Items = append(c.Items, incoming)
		}
		merged++
	}
	c.RecomputeTotal()
	return merged
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Total = 0
}

func (c *Cart) RecomputeTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.Total = total
}
