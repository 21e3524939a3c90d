package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

// BuildingService orchestrates building CRUD for owners
type BuildingService struct {
	buildings *repository.BuildingRepository
	log       *logrus.Logger
}

// NewBuildingService creates a new building service
func NewBuildingService(buildings *repository.BuildingRepository, log *logrus.Logger) *BuildingService {
	return &BuildingService{buildings: buildings, log: log}
}

// CreateBuildingRequest carries the fields of a new building
type CreateBuildingRequest struct {
	Name        string
	Address     string
	TotalFlats  int
	VacantFlats int
}

// Create inserts a building under the owner
func (s *BuildingService) Create(ctx context.Context, ownerID uint, req *CreateBuildingRequest) (*models.Building, error) {
	building := &models.Building{
		OwnerID:     ownerID,
		Name:        req.Name,
		Address:     req.Address,
		TotalFlats:  req.TotalFlats,
		VacantFlats: req.VacantFlats,
	}
	building.Stamp(fmt.Sprintf("owner:%d", ownerID))

	if err := s.buildings.Create(ctx, building); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("owner %d: %w", ownerID, ErrInvalidReference)
		}
		return nil, err
	}
	return building, nil
}

// Get fetches one building, scoped by owner
func (s *BuildingService) Get(ctx context.Context, ownerID, id uint) (*models.Building, error) {
	building, err := s.buildings.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return building, nil
}

// List fetches all of an owner's buildings
func (s *BuildingService) List(ctx context.Context, ownerID uint) ([]models.Building, error) {
	return s.buildings.ListByOwner(ctx, ownerID)
}

// Search finds an owner's buildings by name or address substring
func (s *BuildingService) Search(ctx context.Context, ownerID uint, term string) ([]models.Building, error) {
	return s.buildings.Search(ctx, ownerID, term)
}

// BuildingUpdate is the allow-listed set of updatable building fields.
// Nil means "leave unchanged". The vacancy counter is deliberately absent:
// it only moves through approval, tenancy end and flat lifecycle writes.
type BuildingUpdate struct {
	Name       *string
	Address    *string
	TotalFlats *int
}

// Update applies an allow-listed partial update, scoped by owner
func (s *BuildingService) Update(ctx context.Context, ownerID, id uint, upd *BuildingUpdate) (*models.Building, error) {
	building, err := s.buildings.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if upd.Name != nil {
		building.Name = *upd.Name
	}
	if upd.Address != nil {
		building.Address = *upd.Address
	}
	if upd.TotalFlats != nil {
		building.TotalFlats = *upd.TotalFlats
	}
	building.Stamp(fmt.Sprintf("owner:%d", ownerID))
	if err := s.buildings.Save(ctx, building); err != nil {
		return nil, err
	}
	return building, nil
}
