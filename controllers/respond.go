package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"giftwell-backend/apperr"
	"giftwell-backend/logger"
)

// respondError translates a service error into an HTTP response. Wrapped
// internals are logged server-side; clients only see the taxonomy message.
func respondError(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Err != nil {
		logger.Log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", ae.Code),
			zap.Error(ae.Err),
		)
	}
	c.JSON(ae.Code, gin.H{"error": ae.Message})
}
