package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PasswordResetToken is a single-use token, upserted per user so a new
// request invalidates any outstanding one.
type PasswordResetToken struct {
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Token   string             `bson:"token" json:"-"`
	Expires time.Time          `bson:"expires" json:"expires"`
}

func (t PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.Expires)
}
