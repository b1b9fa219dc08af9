package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// TrackHandler serves customer self-service lookups.
type TrackHandler struct {
	facade RequestFacade
}

// NewTrackHandler constructs TrackHandler.
func NewTrackHandler(facade RequestFacade) *TrackHandler {
	return &TrackHandler{facade: facade}
}

// Track handles GET /api/track/:kind/:number?email=.
func (h *TrackHandler) Track(c *gin.Context) {
	kind, ok := model.ParseKind(c.Param("kind"))
	if !ok {
		writeError(c, domainErrors.ErrUnknownKind)
		return
	}

	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		writeError(c, domainErrors.NewValidationError("email", "is required"))
		return
	}

	req, err := h.facade.TrackRequest(c.Request.Context(), kind, strings.ToUpper(strings.TrimSpace(c.Param("number"))), email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTrackResponse(req))
}
