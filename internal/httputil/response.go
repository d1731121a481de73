// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/rememberme/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type errorMapping struct {
	status  int
	message string
}

// errorMappings translates apperrors codes. An empty message echoes the error text,
// which is only done for validation failures.
var errorMappings = map[string]errorMapping{
	"not_found":            {http.StatusNotFound, "The requested resource was not found"},
	"conflict":             {http.StatusConflict, "A conflict occurred with existing data"},
	"invalid_input":        {http.StatusUnprocessableEntity, ""},
	"unauthorized":         {http.StatusUnauthorized, "Authentication is required"},
	"forbidden":            {http.StatusForbidden, "You don't have permission to access this resource"},
	"service_unavailable":  {http.StatusServiceUnavailable, "A backing service is temporarily unavailable"},
	apperrors.CodeInternal: {http.StatusInternalServerError, "An internal error occurred"},
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON response.
// Client errors are logged at warn level and server errors at error level.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	code := apperrors.Code(err)
	mapping := errorMappings[code]
	message := mapping.message
	if message == "" {
		message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		if mapping.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c, level, "request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", code),
			slog.Any("error", err),
		)
	}

	c.JSON(mapping.status, ErrorResponse{Error: code, Message: message})
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	}

	c.JSON(http.StatusBadRequest, errorResponse)
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	}

	c.JSON(http.StatusUnprocessableEntity, errorResponse)
}
