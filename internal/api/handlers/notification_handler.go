package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DivaAnanda/accenprove-sub001/internal/api/middleware"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// NotificationHandler exposes the caller's in-app notifications.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.notificationService.List(userID.(uint), unreadOnly)
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondOK(c, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notificationService.MarkAsRead(userID.(uint), c.Param("id")); err != nil {
		respondInternal(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notificationService.MarkAllAsRead(userID.(uint)); err != nil {
		respondInternal(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "All notifications marked as read")
}
