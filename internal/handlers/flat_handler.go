package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/models"
	"rental-service/internal/services"
)

// FlatHandler handles flat HTTP requests for both roles
type FlatHandler struct {
	flatService *services.FlatService
}

// NewFlatHandler creates a new flat handler
func NewFlatHandler(flatService *services.FlatService) *FlatHandler {
	return &FlatHandler{flatService: flatService}
}

// CreateFlatRequest is the flat creation payload
type CreateFlatRequest struct {
	BuildingID  uint               `json:"building_id" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Floor       int                `json:"floor"`
	Rent        int64              `json:"rent" binding:"gte=0"`
	TenancyType models.TenancyType `json:"tenancy_type" binding:"omitempty,oneof=1 2"`
}

// Create adds a flat to one of the owner's buildings
func (h *FlatHandler) Create(c *gin.Context) {
	var req CreateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	flat, err := h.flatService.Create(c.Request.Context(), middleware.AccountID(c), &services.CreateFlatRequest{
		BuildingID:  req.BuildingID,
		Name:        req.Name,
		Floor:       req.Floor,
		Rent:        req.Rent,
		TenancyType: req.TenancyType,
	})
	if err != nil {
		MapError(c, err, "Failed to create flat")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Flat created", flat)
}

// ListByBuilding returns the flats of one of the owner's buildings
func (h *FlatHandler) ListByBuilding(c *gin.Context) {
	buildingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	flats, err := h.flatService.ListByBuilding(c.Request.Context(), middleware.AccountID(c), buildingID)
	if err != nil {
		MapError(c, err, "Failed to list flats")
		return
	}
	SuccessResponse(c, http.StatusOK, "", flats)
}

// Get returns one flat
func (h *FlatHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	flat, err := h.flatService.Get(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		MapError(c, err, "Failed to get flat")
		return
	}
	SuccessResponse(c, http.StatusOK, "", flat)
}

// UpdateFlatRequest is the allow-listed flat update payload
type UpdateFlatRequest struct {
	Name        *string             `json:"name"`
	Floor       *int                `json:"floor"`
	Rent        *int64              `json:"rent"`
	TenancyType *models.TenancyType `json:"tenancy_type" binding:"omitempty"`
}

// Update applies a partial update to one flat
func (h *FlatHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	flat, err := h.flatService.Update(c.Request.Context(), middleware.AccountID(c), id, &services.FlatUpdate{
		Name:        req.Name,
		Floor:       req.Floor,
		Rent:        req.Rent,
		TenancyType: req.TenancyType,
	})
	if err != nil {
		MapError(c, err, "Failed to update flat")
		return
	}
	SuccessResponse(c, http.StatusOK, "Flat updated", flat)
}

// Delete removes a flat and its code
func (h *FlatHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.flatService.Delete(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		MapError(c, err, "Failed to delete flat")
		return
	}
	SuccessResponse(c, http.StatusOK, "Flat deleted", nil)
}

// Search finds the owner's flats by name substring
func (h *FlatHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	flats, err := h.flatService.Search(c.Request.Context(), middleware.AccountID(c), term)
	if err != nil {
		MapError(c, err, "Search failed")
		return
	}
	SuccessResponse(c, http.StatusOK, "", flats)
}

// GetCode returns the flat's short code, creating one on demand
func (h *FlatHandler) GetCode(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	code, err := h.flatService.EnsureCode(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		MapError(c, err, "Failed to get flat code")
		return
	}
	SuccessResponse(c, http.StatusOK, "", code)
}

// ListVacant returns vacant flats for tenant browsing
func (h *FlatHandler) ListVacant(c *gin.Context) {
	flats, err := h.flatService.ListVacant(c.Request.Context())
	if err != nil {
		MapError(c, err, "Failed to list vacant flats")
		return
	}
	SuccessResponse(c, http.StatusOK, "", flats)
}

// ResolveByCode resolves a flat from its short code
func (h *FlatHandler) ResolveByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		ErrorResponse(c, http.StatusBadRequest, "Flat code is required", nil)
		return
	}

	flat, err := h.flatService.ResolveByCode(c.Request.Context(), code)
	if err != nil {
		MapError(c, err, "Failed to resolve flat code")
		return
	}
	SuccessResponse(c, http.StatusOK, "", flat)
}
