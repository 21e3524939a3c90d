package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	CRUD[models.Payment]
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{CRUD: NewCRUD[models.Payment](db)}
}

// ListByOwner retrieves all payments recorded by one owner
func (r *PaymentRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB().WithContext(ctx).
		Preload("Tenancy").
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListByUser retrieves all payments under tenancies held by one tenant
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB().WithContext(ctx).
		Joins("JOIN tenancies ON tenancies.id = payments.tenancy_id").
		Where("tenancies.user_id = ?", userID).
		Order("payments.id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
