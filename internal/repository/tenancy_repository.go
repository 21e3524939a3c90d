package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// TenancyRepository handles tenancy database operations
type TenancyRepository struct {
	CRUD[models.Tenancy]
}

// NewTenancyRepository creates a new tenancy repository
func NewTenancyRepository(db *gorm.DB) *TenancyRepository {
	return &TenancyRepository{CRUD: NewCRUD[models.Tenancy](db)}
}

// GetActiveByUser retrieves a tenant's active tenancy, if any
func (r *TenancyRepository) GetActiveByUser(ctx context.Context, userID uint) (*models.Tenancy, error) {
	var tenancy models.Tenancy
	err := r.DB().WithContext(ctx).
		Preload("Flat").
		Preload("Flat.Building").
		Where("user_id = ? AND status = ?", userID, models.TenancyActive).
		First(&tenancy).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active tenancy: %w", err)
	}
	return &tenancy, nil
}

// GetOwned retrieves a tenancy by ID scoped to its owner
func (r *TenancyRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.Tenancy, error) {
	var tenancy models.Tenancy
	err := r.DB().WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&tenancy).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tenancy %d: %w", id, err)
	}
	return &tenancy, nil
}

// ListByOwner retrieves all tenancies under one owner
func (r *TenancyRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Tenancy, error) {
	var tenancies []models.Tenancy
	err := r.DB().WithContext(ctx).
		Preload("User").
		Preload("Flat").
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&tenancies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tenancies: %w", err)
	}
	return tenancies, nil
}

// ListExpiredActive retrieves active tenancies whose end date has passed,
// for the expiry sweep
func (r *TenancyRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]models.Tenancy, error) {
	var tenancies []models.Tenancy
	err := r.DB().WithContext(ctx).
		Where("status = ? AND end_date < ?", models.TenancyActive, now).
		Find(&tenancies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired tenancies: %w", err)
	}
	return tenancies, nil
}

// ExtendEnd pushes a tenancy's end date forward by one calendar month and
// bumps its version counter, scoped by owner. Returns rows affected.
func ExtendEnd(tx *gorm.DB, id, ownerID uint, by string) (int64, error) {
	var tenancy models.Tenancy
	if err := tx.Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, models.TenancyActive).
		First(&tenancy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get tenancy %d: %w", id, err)
	}

	res := tx.Model(&models.Tenancy{}).
		Where("id = ?", tenancy.ID).
		Updates(map[string]interface{}{
			"end_date":        tenancy.EndDate.AddDate(0, 1, 0),
			"last_updated_by": by,
			"change_number":   gorm.Expr("change_number + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to extend tenancy %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
