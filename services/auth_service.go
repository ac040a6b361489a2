package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"giftwell-backend/apperr"
	"giftwell-backend/logger"
	"giftwell-backend/mailer"
	"giftwell-backend/models"
	"giftwell-backend/repository"
)

const (
	tokenTTL      = time.Hour
	resetTokenTTL = time.Hour
)

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	UserID string
	Role   string
}

type AuthService struct {
	users     repository.UserStore
	tokens    repository.ResetTokenStore
	mail      mailer.EmailSender
	jwtSecret []byte
	resetURL  string
}

func NewAuthService(users repository.UserStore, tokens repository.ResetTokenStore, mail mailer.EmailSender, jwtSecret, resetURL string) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mail:      mail,
		jwtSecret: []byte(jwtSecret),
		resetURL:  resetURL,
	}
}

// Signup creates an account with a bcrypt-hashed password and the default
// role. Emails are normalized to lower case before the uniqueness check.
func (s *AuthService) Signup(ctx context.Context, fullName, email, password string) (string, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" || password == "" {
		return "", apperr.Validation("Missing required fields")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", apperr.Conflict("Email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal(err)
	}

	user := &models.User{
		FullName:  fullName,
		Email:     email,
		Password:  string(hash),
		Role:      models.DefaultRole,
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return "", apperr.Conflict("Email already registered")
		}
		return "", apperr.Internal(err)
	}

	return user.ID.Hex(), nil
}

// Login verifies credentials and issues a one-hour token. Unknown email
// and wrong password produce the same error so neither case is
// distinguishable from outside.
func (s *AuthService) Login(ctx context.Context, email, password string) (token, role string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", apperr.Validation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return "", "", apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", "", apperr.Auth("Invalid credentials")
	}

	claims := jwt.MapClaims{
		"id":   user.ID.Hex(),
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", "", apperr.Internal(err)
	}

	return signed, user.Role, nil
}

// Verify validates a bearer token and extracts its claims. It is pure and
// safe to call concurrently.
func (s *AuthService) Verify(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, apperr.Auth("Access denied. No token provided.")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Auth("Invalid or expired token")
	}
	id, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	if id == "" {
		return nil, apperr.Auth("Invalid or expired token")
	}

	return &TokenClaims{UserID: id, Role: role}, nil
}

// RequestPasswordReset issues a single-use token valid for one hour,
// replacing any outstanding token for the user, and mails the reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperr.Validation("Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return apperr.Internal(err)
	}
	token := hex.EncodeToString(raw)

	if err := s.tokens.Upsert(ctx, &models.PasswordResetToken{
		UserID:  user.ID,
		Token:   token,
		Expires: time.Now().Add(resetTokenTTL),
	}); err != nil {
		return apperr.Internal(err)
	}

	link := fmt.Sprintf("%s?token=%s&email=%s", s.resetURL, token, url.QueryEscape(email))
	body := fmt.Sprintf(
		"<p>You requested a password reset for your GiftWell account.</p>"+
			"<p>Click <a href=%q>here</a> to reset your password.</p>"+
			"<p>This link will expire in 1 hour.</p>"+
			"<p>If you did not request this, please ignore this email.</p>", link)
	if err := s.mail.Send(ctx, email, "GiftWell Password Reset", body); err != nil {
		logger.Log.Error("reset email dispatch failed", zap.String("email", email), zap.Error(err))
		return apperr.Upstream("Error sending reset link", err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || token == "" || newPassword == "" {
		return apperr.Validation("Token, email, and new password are required")
	}

	stored, err := s.tokens.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Validation("Invalid or expired token")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if stored.Expired(time.Now()) {
		return apperr.Validation("Invalid or expired token")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if user.ID != stored.UserID {
		return apperr.NotFound("User not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return apperr.Internal(err)
	}
	if err := s.tokens.Delete(ctx, token); err != nil {
		logger.Log.Warn("used reset token cleanup failed", zap.Error(err))
	}

	return nil
}
