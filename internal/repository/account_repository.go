package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// OwnerRepository handles owner account database operations
type OwnerRepository struct {
	CRUD[models.Owner]
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{CRUD: NewCRUD[models.Owner](db)}
}

// GetByEmail retrieves an owner by exact email match
func (r *OwnerRepository) GetByEmail(ctx context.Context, email string) (*models.Owner, error) {
	var owner models.Owner
	if err := r.DB().WithContext(ctx).Where("email = ?", email).First(&owner).Error; err != nil {
		return nil, fmt.Errorf("failed to get owner by email: %w", err)
	}
	return &owner, nil
}

// UserRepository handles tenant account database operations.
// Tenants live in their own table, symmetric to owners but a separate
// namespace with separate credentials.
type UserRepository struct {
	CRUD[models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{CRUD: NewCRUD[models.User](db)}
}

// GetByEmail retrieves a user by exact email match
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB().WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Search finds tenants whose username, email or occupation contains the term.
// Results are limited to tenants with an application or tenancy under the
// given owner, so one owner cannot enumerate another owner's tenants.
func (r *UserRepository) Search(ctx context.Context, ownerID uint, term string) ([]models.User, error) {
	pattern := "%" + term + "%"
	var users []models.User
	err := r.DB().WithContext(ctx).
		Distinct("users.*").
		Joins("LEFT JOIN applications ON applications.user_id = users.id").
		Joins("LEFT JOIN tenancies ON tenancies.user_id = users.id").
		Where("applications.owner_id = ? OR tenancies.owner_id = ?", ownerID, ownerID).
		Where("users.username LIKE ? OR users.email LIKE ? OR users.occupation LIKE ?", pattern, pattern, pattern).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
