package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/models"
	"rental-service/internal/services"
)

// TenancyHandler handles tenancy and payment HTTP requests
type TenancyHandler struct {
	tenancyService *services.TenancyService
}

// NewTenancyHandler creates a new tenancy handler
func NewTenancyHandler(tenancyService *services.TenancyService) *TenancyHandler {
	return &TenancyHandler{tenancyService: tenancyService}
}

// ListForOwner returns the authenticated owner's tenancies
func (h *TenancyHandler) ListForOwner(c *gin.Context) {
	tenancies, err := h.tenancyService.ListForOwner(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list tenancies")
		return
	}
	SuccessResponse(c, http.StatusOK, "", tenancies)
}

// GetActive returns the authenticated tenant's active tenancy
func (h *TenancyHandler) GetActive(c *gin.Context) {
	tenancy, err := h.tenancyService.GetActiveForUser(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to get tenancy")
		return
	}
	SuccessResponse(c, http.StatusOK, "", tenancy)
}

// End closes one of the owner's active tenancies
func (h *TenancyHandler) End(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.tenancyService.EndTenancy(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		MapError(c, err, "Failed to end tenancy")
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenancy ended", nil)
}

// RecordPaymentRequest is the payment recording payload
type RecordPaymentRequest struct {
	TenancyID uint                 `json:"tenancy_id" binding:"required"`
	Amount    int64                `json:"amount" binding:"required,gt=0"`
	PaidOn    time.Time            `json:"paid_on" binding:"required"`
	Type      string               `json:"type"`
	Status    models.PaymentStatus `json:"status" binding:"required,oneof=1 2 3"`
}

// RecordPayment records a payment and extends the tenancy by one month
func (h *TenancyHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	payment, err := h.tenancyService.RecordPayment(c.Request.Context(), middleware.AccountID(c), &services.RecordPaymentRequest{
		TenancyID: req.TenancyID,
		Amount:    req.Amount,
		PaidOn:    req.PaidOn,
		Type:      req.Type,
		Status:    req.Status,
	})
	if err != nil {
		MapError(c, err, "Failed to record payment")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Payment recorded", payment)
}

// ListPaymentsForOwner returns payments recorded by the authenticated owner
func (h *TenancyHandler) ListPaymentsForOwner(c *gin.Context) {
	payments, err := h.tenancyService.ListPaymentsForOwner(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list payments")
		return
	}
	SuccessResponse(c, http.StatusOK, "", payments)
}

// ListPaymentsForTenant returns payments under the tenant's tenancies
func (h *TenancyHandler) ListPaymentsForTenant(c *gin.Context) {
	payments, err := h.tenancyService.ListPaymentsForUser(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list payments")
		return
	}
	SuccessResponse(c, http.StatusOK, "", payments)
}
