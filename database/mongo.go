package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections bundles every collection handle the service uses, so the
// wiring in main passes one value around instead of package globals.
type Collections struct {
	Users       *mongo.Collection
	Carts       *mongo.Collection
	Orders      *mongo.Collection
	ResetTokens *mongo.Collection
}

// Connect dials MongoDB and verifies the connection with a ping. The
// caller owns the context deadline and the returned client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	return client, nil
}

func NewCollections(db *mongo.Database) *Collections {
	return &Collections{
		Users:       db.Collection("users"),
		Carts:       db.Collection("carts"),
		Orders:      db.Collection("orders"),
		ResetTokens: db.Collection("password_reset_tokens"),
	}
}

// EnsureIndexes creates the unique indexes the write paths rely on:
// one account per email, one cart per user, one reset token per user.
func EnsureIndexes(ctx context.Context, c *Collections) error {
	unique := options.Index().SetUnique(true)

	if _, err := c.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	if _, err := c.Carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("carts userId index: %w", err)
	}

	if _, err := c.ResetTokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("reset tokens userId index: %w", err)
	}

	return nil
}
