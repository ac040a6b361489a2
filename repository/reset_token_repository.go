package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"giftwell-backend/models"
)

type ResetTokenRepository struct {
	col *mongo.Collection
}

func NewResetTokenRepository(col *mongo.Collection) *ResetTokenRepository {
	return &ResetTokenRepository{col: col}
}

// Upsert stores the token keyed by user, replacing any outstanding one.
func (r *ResetTokenRepository) Upsert(ctx context.Context, token *models.PasswordResetToken) error {
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"userId": token.UserID},
		token,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *ResetTokenRepository) FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ResetTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"token": token})
	return err
}
