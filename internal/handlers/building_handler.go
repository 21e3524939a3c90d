package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/services"
)

// BuildingHandler handles building HTTP requests
type BuildingHandler struct {
	buildingService *services.BuildingService
}

// NewBuildingHandler creates a new building handler
func NewBuildingHandler(buildingService *services.BuildingService) *BuildingHandler {
	return &BuildingHandler{buildingService: buildingService}
}

// CreateBuildingRequest is the building creation payload
type CreateBuildingRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Address     string `json:"address" binding:"required"`
	TotalFlats  int    `json:"total_flats" binding:"gte=0"`
	VacantFlats int    `json:"vacant_flats" binding:"gte=0"`
}

// Create adds a building under the authenticated owner
func (h *BuildingHandler) Create(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	building, err := h.buildingService.Create(c.Request.Context(), middleware.AccountID(c), &services.CreateBuildingRequest{
		Name:        req.Name,
		Address:     req.Address,
		TotalFlats:  req.TotalFlats,
		VacantFlats: req.VacantFlats,
	})
	if err != nil {
		MapError(c, err, "Failed to create building")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Building created", building)
}

// List returns the authenticated owner's buildings
func (h *BuildingHandler) List(c *gin.Context) {
	buildings, err := h.buildingService.List(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to list buildings")
		return
	}
	SuccessResponse(c, http.StatusOK, "", buildings)
}

// Get returns one building
func (h *BuildingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	building, err := h.buildingService.Get(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		MapError(c, err, "Failed to get building")
		return
	}
	SuccessResponse(c, http.StatusOK, "", building)
}

// UpdateBuildingRequest is the allow-listed building update payload
type UpdateBuildingRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	TotalFlats *int    `json:"total_flats"`
}

// Update applies a partial update to one building
func (h *BuildingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	building, err := h.buildingService.Update(c.Request.Context(), middleware.AccountID(c), id, &services.BuildingUpdate{
		Name:       req.Name,
		Address:    req.Address,
		TotalFlats: req.TotalFlats,
	})
	if err != nil {
		MapError(c, err, "Failed to update building")
		return
	}
	SuccessResponse(c, http.StatusOK, "Building updated", building)
}

// Search finds the owner's buildings by name or address substring
func (h *BuildingHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	buildings, err := h.buildingService.Search(c.Request.Context(), middleware.AccountID(c), term)
	if err != nil {
		MapError(c, err, "Search failed")
		return
	}
	SuccessResponse(c, http.StatusOK, "", buildings)
}

// pathID parses a numeric path parameter, replying 400 on garbage
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+name+" parameter", err)
		return 0, false
	}
	return uint(id), true
}
