package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseapi/internal/app/models/dto"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
	"github.com/yigit/courseapi/internal/pkg/logger"
)

const msgInternalError = "Internal server error"

// RespondWithSuccess writes a success envelope
func RespondWithSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.NewAPIResponse(status, message, data))
}

// RespondWithError writes an error envelope and aborts the chain
func RespondWithError(c *gin.Context, status int, message string, data interface{}) {
	c.AbortWithStatusJSON(status, dto.NewAPIResponse(status, message, data))
}

// HandleAPIError maps an error onto the application error taxonomy and writes the envelope.
// Unknown errors are logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, fallback := statusForError(err)

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("requestId", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
		RespondWithError(c, status, msgInternalError, nil)
		return
	}

	message := fallback
	if msg, ok := apperrors.ClientMessage(err); ok {
		message = msg
	}
	RespondWithError(c, status, message, nil)
}

// statusForError returns the HTTP status of err and a default client message
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, "Resource already exists"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, "Token has been revoked"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// NoRouteHandler answers unknown paths with a 404 envelope
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondWithError(c, http.StatusNotFound, "Resource not found", nil)
	}
}

// NoMethodHandler answers known paths called with an unsupported method
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondWithError(c, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

// Recovery turns panics into a 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Interface("panic", recovered).
			Str("requestId", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		RespondWithError(c, http.StatusInternalServerError, msgInternalError, nil)
	})
}
