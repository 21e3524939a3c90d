package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

// FlatService orchestrates flats and their self-identification codes
type FlatService struct {
	flats     *repository.FlatRepository
	buildings *repository.BuildingRepository
	log       *logrus.Logger
}

// NewFlatService creates a new flat service
func NewFlatService(flats *repository.FlatRepository, buildings *repository.BuildingRepository, log *logrus.Logger) *FlatService {
	return &FlatService{flats: flats, buildings: buildings, log: log}
}

// CreateFlatRequest carries the fields of a new flat
type CreateFlatRequest struct {
	BuildingID  uint
	Name        string
	Floor       int
	Rent        int64
	TenancyType models.TenancyType
}

// Create inserts a flat into one of the owner's buildings. The building is
// checked for ownership first so one owner cannot attach flats to another
// owner's building.
func (s *FlatService) Create(ctx context.Context, ownerID uint, req *CreateFlatRequest) (*models.Flat, error) {
	if _, err := s.buildings.GetOwned(ctx, req.BuildingID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("building %d: %w", req.BuildingID, ErrInvalidReference)
		}
		return nil, err
	}

	tenancyType := req.TenancyType
	if tenancyType == 0 {
		tenancyType = models.TenancyTypeFamily
	}

	flat := &models.Flat{
		BuildingID:  req.BuildingID,
		Name:        req.Name,
		Floor:       req.Floor,
		Rent:        req.Rent,
		Status:      models.FlatVacant,
		TenancyType: tenancyType,
	}
	flat.Stamp(fmt.Sprintf("owner:%d", ownerID))

	if err := s.flats.Create(ctx, flat); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("building %d: %w", req.BuildingID, ErrInvalidReference)
		}
		return nil, err
	}
	return flat, nil
}

// Get fetches one flat, scoped by owner
func (s *FlatService) Get(ctx context.Context, ownerID, id uint) (*models.Flat, error) {
	flat, err := s.flats.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return flat, nil
}

// ListByBuilding fetches the flats of one of the owner's buildings
func (s *FlatService) ListByBuilding(ctx context.Context, ownerID, buildingID uint) ([]models.Flat, error) {
	if _, err := s.buildings.GetOwned(ctx, buildingID, ownerID); err != nil {
		return nil, translateNotFound(err)
	}
	return s.flats.ListByBuilding(ctx, buildingID)
}

// ListVacant fetches vacant flats for tenant browsing
func (s *FlatService) ListVacant(ctx context.Context) ([]models.Flat, error) {
	return s.flats.ListVacant(ctx)
}

// Search finds an owner's flats by name substring
func (s *FlatService) Search(ctx context.Context, ownerID uint, term string) ([]models.Flat, error) {
	return s.flats.Search(ctx, ownerID, term)
}

// FlatUpdate is the allow-listed set of updatable flat fields. Status moves
// only through approval and tenancy-end transactions, never a plain update.
type FlatUpdate struct {
	Name        *string
	Floor       *int
	Rent        *int64
	TenancyType *models.TenancyType
}

// Update applies an allow-listed partial update, scoped by owner
func (s *FlatService) Update(ctx context.Context, ownerID, id uint, upd *FlatUpdate) (*models.Flat, error) {
	flat, err := s.flats.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if upd.Name != nil {
		flat.Name = *upd.Name
	}
	if upd.Floor != nil {
		flat.Floor = *upd.Floor
	}
	if upd.Rent != nil {
		flat.Rent = *upd.Rent
	}
	if upd.TenancyType != nil {
		flat.TenancyType = *upd.TenancyType
	}
	flat.Stamp(fmt.Sprintf("owner:%d", ownerID))
	if err := s.flats.Save(ctx, flat); err != nil {
		return nil, err
	}
	return flat, nil
}

// Delete hard-deletes a flat and its code, scoped by owner
func (s *FlatService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.flats.GetOwned(ctx, id, ownerID); err != nil {
		return translateNotFound(err)
	}
	return s.flats.DeleteWithCode(ctx, id)
}

// EnsureCode returns the flat's active code, creating one on demand
func (s *FlatService) EnsureCode(ctx context.Context, ownerID, flatID uint) (*models.FlatCode, error) {
	if _, err := s.flats.GetOwned(ctx, flatID, ownerID); err != nil {
		return nil, translateNotFound(err)
	}

	code, err := s.flats.GetCode(ctx, flatID)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	generated, err := generateFlatCode()
	if err != nil {
		return nil, err
	}
	code = &models.FlatCode{FlatID: flatID, Code: generated}
	code.Stamp(fmt.Sprintf("owner:%d", ownerID))
	if err := s.flats.CreateCode(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// ResolveByCode resolves a flat from its short code, for tenant self-identification
func (s *FlatService) ResolveByCode(ctx context.Context, code string) (*models.Flat, error) {
	flat, err := s.flats.GetFlatByCode(ctx, code)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return flat, nil
}

// flatCodeAlphabet avoids ambiguous characters (0/O, 1/I/L)
const flatCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func generateFlatCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate flat code: %w", err)
	}
	for i, b := range buf {
		buf[i] = flatCodeAlphabet[int(b)%len(flatCodeAlphabet)]
	}
	return string(buf), nil
}
