package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/services"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// SendNotificationRequest is the owner's notification payload
type SendNotificationRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
}

// Send delivers a notification from the authenticated owner to a tenant
func (h *NotificationHandler) Send(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	n, err := h.notificationService.Send(c.Request.Context(), middleware.AccountID(c), req.UserID, req.Title, req.Body)
	if err != nil {
		MapError(c, err, "Failed to send notification")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Notification sent", n)
}

// ListForOwner returns notifications the authenticated owner has sent
func (h *NotificationHandler) ListForOwner(c *gin.Context) {
	notifications, err := h.notificationService.ListForOwner(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list notifications")
		return
	}
	SuccessResponse(c, http.StatusOK, "", notifications)
}

// ListForTenant returns the authenticated tenant's notifications
func (h *NotificationHandler) ListForTenant(c *gin.Context) {
	notifications, err := h.notificationService.ListForUser(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list notifications")
		return
	}
	SuccessResponse(c, http.StatusOK, "", notifications)
}

// UnreadCount returns the tenant's unread notification count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to count notifications")
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"unread": count})
}

// MarkRead marks one of the tenant's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		MapError(c, err, "Failed to mark notification read")
		return
	}
	SuccessResponse(c, http.StatusOK, "Notification marked read", nil)
}
