package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// ServiceRequestRepository handles service request database operations
type ServiceRequestRepository struct {
	CRUD[models.ServiceRequest]
}

// NewServiceRequestRepository creates a new service request repository
func NewServiceRequestRepository(db *gorm.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{CRUD: NewCRUD[models.ServiceRequest](db)}
}

// ListByOwner retrieves service requests raised against one owner's flats
func (r *ServiceRequestRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := r.DB().WithContext(ctx).
		Preload("Flat").
		Preload("User").
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return requests, nil
}

// ListByUser retrieves service requests raised by one tenant
func (r *ServiceRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := r.DB().WithContext(ctx).
		Preload("Flat").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return requests, nil
}

// Resolve transitions a pending service request to approved or denied,
// scoped by owner. Returns rows affected.
func (r *ServiceRequestRepository) Resolve(ctx context.Context, id, ownerID uint, by string, to models.ServiceRequestStatus) (int64, error) {
	res := r.DB().WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, models.ServiceRequestPending).
		Updates(map[string]interface{}{
			"status":          to,
			"last_updated_by": by,
			"change_number":   gorm.Expr("change_number + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to resolve service request %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
