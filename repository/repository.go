// Package repository contains the MongoDB persistence layer. Services
// depend on the interfaces declared here, so tests can substitute mocks
// or in-memory implementations.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"giftwell-backend/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

type CartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Insert(ctx context.Context, cart *models.Cart) error
	// Update persists cart only if its stored version still matches
	// cart.Version, reporting false when another writer got there first.
	Update(ctx context.Context, cart *models.Cart) (bool, error)
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// UpdateStatusIfPending atomically moves a pending order to status and
	// returns the updated order, or ErrNotFound when no pending order with
	// that id exists (absent or already terminal).
	UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

type ResetTokenStore interface {
	Upsert(ctx context.Context, token *models.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	Delete(ctx context.Context, token string) error
}
