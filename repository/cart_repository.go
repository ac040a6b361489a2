package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"giftwell-backend/models"
)

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(col *mongo.Collection) *CartRepository {
	return &CartRepository{col: col}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Insert(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, cart)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return nil
}

// Update replaces the stored cart only when the version on disk matches
// the version the caller read. A false return means the caller lost the
// race and should reload and retry.
func (r *CartRepository) Update(ctx context.Context, cart *models.Cart) (bool, error) {
	prev := cart.Version
	cart.Version = prev + 1
	cart.UpdatedAt = time.Now()

	res, err := r.col.ReplaceOne(ctx, bson.M{"userId": cart.UserID, "version": prev}, cart)
	if err != nil {
		cart.Version = prev
		return false, err
	}
	if res.MatchedCount == 0 {
		cart.Version = prev
		return false, nil
	}
	return true, nil
}
