package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// ApplicationRepository handles tenancy application database operations
type ApplicationRepository struct {
	CRUD[models.Application]
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{CRUD: NewCRUD[models.Application](db)}
}

// ListByOwner retrieves all applications addressed to one owner
func (r *ApplicationRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.DB().WithContext(ctx).
		Preload("Flat").
		Preload("User").
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListByUser retrieves all applications submitted by one tenant
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.DB().WithContext(ctx).
		Preload("Flat").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// MarkPending transitions a pending application to the given status, scoped
// by owner. Returns the number of rows affected: zero means the application
// does not exist, belongs to another owner, or already left pending state.
func MarkPending(tx *gorm.DB, id, ownerID uint, by string, to models.ApplicationStatus) (int64, error) {
	res := tx.Model(&models.Application{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, models.ApplicationPending).
		Updates(map[string]interface{}{
			"status":          to,
			"last_updated_by": by,
			"change_number":   gorm.Expr("change_number + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update application %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
