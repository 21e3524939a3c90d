package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// BuildingRepository handles building database operations
type BuildingRepository struct {
	CRUD[models.Building]
}

// NewBuildingRepository creates a new building repository
func NewBuildingRepository(db *gorm.DB) *BuildingRepository {
	return &BuildingRepository{CRUD: NewCRUD[models.Building](db)}
}

// GetOwned retrieves a building by ID scoped to its owner
func (r *BuildingRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.Building, error) {
	var building models.Building
	err := r.DB().WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&building).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get building %d: %w", id, err)
	}
	return &building, nil
}

// ListByOwner retrieves all buildings of one owner
func (r *BuildingRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Building, error) {
	var buildings []models.Building
	err := r.DB().WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&buildings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

// Search finds an owner's buildings whose name or address contains the term
func (r *BuildingRepository) Search(ctx context.Context, ownerID uint, term string) ([]models.Building, error) {
	pattern := "%" + term + "%"
	var buildings []models.Building
	err := r.DB().WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("name LIKE ? OR address LIKE ?", pattern, pattern).
		Find(&buildings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search buildings: %w", err)
	}
	return buildings, nil
}

// AdjustVacancy moves the cached vacancy counter by delta, scoped by owner.
// Decrements are guarded against going below zero. Returns the number of
// rows affected so callers can detect a miss.
func AdjustVacancy(tx *gorm.DB, buildingID, ownerID uint, delta int) (int64, error) {
	q := tx.Model(&models.Building{}).
		Where("id = ? AND owner_id = ?", buildingID, ownerID)
	if delta < 0 {
		q = q.Where("vacant_flats > 0")
	}
	res := q.UpdateColumn("vacant_flats", gorm.Expr("vacant_flats + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to adjust vacancy counter: %w", res.Error)
	}
	return res.RowsAffected, nil
}
