package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"giftwell-backend/middleware"
	"giftwell-backend/services"
)

// AuthAPI is the slice of the auth service the controller uses.
type AuthAPI interface {
	Signup(ctx context.Context, fullName, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (token, role string, err error)
	Verify(token string) (*services.TokenClaims, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}

type AuthController struct {
	auth AuthAPI
}

func NewAuthController(auth AuthAPI) *AuthController {
	return &AuthController{auth: auth}
}

func (ctrl *AuthController) Signup(c *gin.Context) {
	var input struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if _, err := ctrl.auth.Signup(c.Request.Context(), input.FullName, input.Email, input.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sign up successful! Please log in."})
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	token, role, err := ctrl.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}

// IsLoggedIn never fails; it reports whether the presented token (if any)
// is still valid.
func (ctrl *AuthController) IsLoggedIn(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"isLoggedIn": false})
		return
	}
	claims, err := ctrl.auth.Verify(token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"isLoggedIn": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isLoggedIn": true, "role": claims.Role, "userId": claims.UserID})
}

// Logout is a stateless acknowledgement; tokens simply expire.
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := ctrl.auth.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email"})
}

func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Email       string `json:"email"`
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token, email, and new password are required"})
		return
	}

	if err := ctrl.auth.ResetPassword(c.Request.Context(), input.Email, input.Token, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful. Please log in with your new password."})
}
