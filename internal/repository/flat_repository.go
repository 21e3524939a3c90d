package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// FlatRepository handles flat and flat-code database operations
type FlatRepository struct {
	CRUD[models.Flat]
}

// NewFlatRepository creates a new flat repository
func NewFlatRepository(db *gorm.DB) *FlatRepository {
	return &FlatRepository{CRUD: NewCRUD[models.Flat](db)}
}

// GetOwned retrieves a flat by ID, verifying the enclosing building belongs
// to the owner
func (r *FlatRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.Flat, error) {
	var flat models.Flat
	err := r.DB().WithContext(ctx).
		Joins("JOIN buildings ON buildings.id = flats.building_id").
		Where("flats.id = ? AND buildings.owner_id = ?", id, ownerID).
		First(&flat).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get flat %d: %w", id, err)
	}
	return &flat, nil
}

// ListByBuilding retrieves all flats of one building
func (r *FlatRepository) ListByBuilding(ctx context.Context, buildingID uint) ([]models.Flat, error) {
	var flats []models.Flat
	err := r.DB().WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("id").
		Find(&flats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flats: %w", err)
	}
	return flats, nil
}

// ListVacant retrieves vacant flats with their building preloaded, for
// tenant browsing
func (r *FlatRepository) ListVacant(ctx context.Context) ([]models.Flat, error) {
	var flats []models.Flat
	err := r.DB().WithContext(ctx).
		Preload("Building").
		Where("status = ?", models.FlatVacant).
		Order("id").
		Find(&flats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vacant flats: %w", err)
	}
	return flats, nil
}

// Search finds an owner's flats whose name contains the term
func (r *FlatRepository) Search(ctx context.Context, ownerID uint, term string) ([]models.Flat, error) {
	var flats []models.Flat
	err := r.DB().WithContext(ctx).
		Joins("JOIN buildings ON buildings.id = flats.building_id").
		Where("buildings.owner_id = ?", ownerID).
		Where("flats.name LIKE ?", "%"+term+"%").
		Find(&flats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search flats: %w", err)
	}
	return flats, nil
}

// DeleteWithCode hard-deletes a flat, purging its flat code first. Flat and
// FlatCode are the only entities that are ever physically deleted.
func (r *FlatRepository) DeleteWithCode(ctx context.Context, id uint) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flat_id = ?", id).Delete(&models.FlatCode{}).Error; err != nil {
			return fmt.Errorf("failed to delete flat code: %w", err)
		}
		if err := tx.Delete(&models.Flat{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete flat %d: %w", id, err)
		}
		return nil
	})
}

// GetCode retrieves the active code for a flat, if one exists
func (r *FlatRepository) GetCode(ctx context.Context, flatID uint) (*models.FlatCode, error) {
	var code models.FlatCode
	if err := r.DB().WithContext(ctx).Where("flat_id = ?", flatID).First(&code).Error; err != nil {
		return nil, fmt.Errorf("failed to get flat code: %w", err)
	}
	return &code, nil
}

// CreateCode inserts a new flat code
func (r *FlatRepository) CreateCode(ctx context.Context, code *models.FlatCode) error {
	if err := r.DB().WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("failed to create flat code: %w", err)
	}
	return nil
}

// GetFlatByCode resolves a flat from its short code, preloading the building
func (r *FlatRepository) GetFlatByCode(ctx context.Context, code string) (*models.Flat, error) {
	var flatCode models.FlatCode
	if err := r.DB().WithContext(ctx).Where("code = ?", code).First(&flatCode).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve flat code: %w", err)
	}
	var flat models.Flat
	if err := r.DB().WithContext(ctx).Preload("Building").First(&flat, "id = ?", flatCode.FlatID).Error; err != nil {
		return nil, fmt.Errorf("failed to get flat for code: %w", err)
	}
	return &flat, nil
}
