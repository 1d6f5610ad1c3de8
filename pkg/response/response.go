package response

import (
	"errors"
	"net/http"

	"coursematch.com/backend/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	s, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Text writes a plain-text status string.
func Text(c *gin.Context, code int, message string) {
	c.String(code, message)
}

// ResponseError renders err as a plain-text status string. Errors without a
// user-facing message fall back to fallback.
func ResponseError(c *gin.Context, err error, fallback string) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		zap.L().Error("internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	message := fallback
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	if message == "" {
		message = http.StatusText(code)
	}

	c.String(code, message)
}
