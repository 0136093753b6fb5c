// Package handlers contains the Gin HTTP handlers for the API surface.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pesaprime/internal/currency"
	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/logger"
	"pesaprime/internal/services"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return userID.(string), nil
}

// displayCurrency resolves the currency monetary fields are rendered in: the
// ?currency query parameter when it names a known rate, otherwise the user's
// stored preference, otherwise the base currency.
func displayCurrency(c *gin.Context, users services.UserServicer, userID string) string {
	if code := c.Query("currency"); code != "" {
		if _, ok := currency.DefaultRates()[code]; ok {
			return code
		}
	}
	if user, err := users.GetUserByID(userID); err == nil && user.CurrencyPreference != "" {
		return user.CurrencyPreference
	}
	return "KES"
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
