package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/server/http/dto"
)

// NotificationHandler exposes the staff inbox.
type NotificationHandler struct {
	facade NotificationFacade
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// List handles GET /api/admin/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, domainErrors.NewValidationError("limit", "must be an integer"))
		return
	}

	items, err := h.facade.Notifications(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      string(n.Type),
			Link:      n.Link,
			RelatedID: n.RelatedID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead handles POST /api/admin/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid notification id")
		return
	}
	if err := h.facade.MarkNotificationRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /api/admin/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.facade.MarkAllNotificationsRead(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}
