package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/services"
)

// ServiceRequestHandler handles service request HTTP requests
type ServiceRequestHandler struct {
	serviceRequestService *services.ServiceRequestService
}

// NewServiceRequestHandler creates a new service request handler
func NewServiceRequestHandler(serviceRequestService *services.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{serviceRequestService: serviceRequestService}
}

// CreateServiceRequestRequest is the tenant's ticket payload
type CreateServiceRequestRequest struct {
	Subject string `json:"subject" binding:"required"`
	Details string `json:"details"`
}

// Create raises a ticket against the tenant's occupied flat
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	var req CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	sr, err := h.serviceRequestService.Create(c.Request.Context(), middleware.AccountID(c), req.Subject, req.Details)
	if err != nil {
		MapError(c, err, "Failed to create service request")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Service request created", sr)
}

// ListForOwner returns tickets raised against the owner's flats
func (h *ServiceRequestHandler) ListForOwner(c *gin.Context) {
	requests, err := h.serviceRequestService.ListForOwner(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list service requests")
		return
	}
	SuccessResponse(c, http.StatusOK, "", requests)
}

// ListForTenant returns the tenant's own tickets
func (h *ServiceRequestHandler) ListForTenant(c *gin.Context) {
	requests, err := h.serviceRequestService.ListForUser(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list service requests")
		return
	}
	SuccessResponse(c, http.StatusOK, "", requests)
}

// Approve approves one pending ticket
func (h *ServiceRequestHandler) Approve(c *gin.Context) {
	h.resolve(c, true)
}

// Deny denies one pending ticket
func (h *ServiceRequestHandler) Deny(c *gin.Context) {
	h.resolve(c, false)
}

func (h *ServiceRequestHandler) resolve(c *gin.Context, approve bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.serviceRequestService.Resolve(c.Request.Context(), middleware.AccountID(c), id, approve); err != nil {
		MapError(c, err, "Failed to resolve service request")
		return
	}
	SuccessResponse(c, http.StatusOK, "Service request resolved", nil)
}
