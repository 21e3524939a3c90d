package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/services"
)

// ApplicationHandler handles tenancy application HTTP requests
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// ApplyRequest is the tenant's application payload
type ApplyRequest struct {
	FlatID  uint   `json:"flat_id" binding:"required"`
	Message string `json:"message"`
}

// Apply submits the authenticated tenant's application for a flat
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), middleware.AccountID(c), req.FlatID, req.Message)
	if err != nil {
		MapError(c, err, "Failed to submit application")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Application submitted", app)
}

// ListForOwner returns applications addressed to the authenticated owner
func (h *ApplicationHandler) ListForOwner(c *gin.Context) {
	apps, err := h.applicationService.ListForOwner(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list applications")
		return
	}
	SuccessResponse(c, http.StatusOK, "", apps)
}

// ListForTenant returns the authenticated tenant's applications
func (h *ApplicationHandler) ListForTenant(c *gin.Context) {
	apps, err := h.applicationService.ListForUser(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list applications")
		return
	}
	SuccessResponse(c, http.StatusOK, "", apps)
}

// Approve runs the approval transaction for one application
func (h *ApplicationHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tenancy, err := h.applicationService.ApproveApplication(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		MapError(c, err, "Failed to approve application")
		return
	}
	SuccessResponse(c, http.StatusOK, "Application approved", tenancy)
}

// Deny denies one pending application
func (h *ApplicationHandler) Deny(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.applicationService.DenyApplication(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		MapError(c, err, "Failed to deny application")
		return
	}
	SuccessResponse(c, http.StatusOK, "Application denied", nil)
}
