// Package http provides HTTP handlers for linked-profile lookup operations.
// The response contract follows the voice-agent convention: every outcome,
// including failures, is an HTTP 200 with a success flag.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keepitcut/linked-profiles/internal/httputil"
	"github.com/keepitcut/linked-profiles/internal/profiles/http/dto"
	profilesUseCase "github.com/keepitcut/linked-profiles/internal/profiles/usecase"
)

// LookupHandler handles HTTP requests for linked-profile lookups.
type LookupHandler struct {
	lookupUseCase profilesUseCase.LookupUseCase
	logger        *slog.Logger
}

// NewLookupHandler creates a new lookup handler with required dependencies.
func NewLookupHandler(lookupUseCase profilesUseCase.LookupUseCase, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		lookupUseCase: lookupUseCase,
		logger:        logger,
	}
}

// LookupHandler identifies a caller by phone or client id and returns their
// linked profiles. POST /get and POST /lookup (alias).
func (h *LookupHandler) LookupHandler(c *gin.Context) {
	var req dto.LookupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := h.lookupUseCase.Lookup(c.Request.Context(), profilesUseCase.LookupInput{
		Phone:      req.Phone,
		ClientID:   req.ClientID,
		LocationID: req.LocationID,
	})
	if err != nil {
		httputil.HandleFailureGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToResponse(result))
}
