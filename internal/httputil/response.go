// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
)

// FailureResponse is the envelope returned for any request the service could
// not fulfill. The voice agent consuming this API expects HTTP 200 with a
// success flag rather than HTTP error statuses.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleFailureGin writes a failure envelope for a domain error, logging the
// full error chain. Missing-input and caller-detail errors carry the exact
// messages the agent contract documents; everything else is reported generically.
func HandleFailureGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var message string
	switch {
	case apperrors.Is(err, apperrors.ErrMissingInput):
		message = "Missing phone or client_id"
	case apperrors.Is(err, apperrors.ErrNotFound):
		message = "Could not retrieve caller details"
	case apperrors.Is(err, apperrors.ErrUpstreamAuth):
		message = "Upstream authentication failed"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	default:
		message = "An internal error occurred"
	}

	if logger != nil {
		logger.Error("request failed",
			slog.String("reported_error", message),
			slog.Any("error", err),
		)
	}

	c.JSON(http.StatusOK, FailureResponse{Success: false, Error: message})
}

// HandleBadRequestGin writes a failure envelope for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusOK, FailureResponse{Success: false, Error: err.Error()})
}
