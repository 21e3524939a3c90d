package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// CRUD is the generic repository base shared by every entity repository.
// Entity-specific repositories embed it and add their scoped queries on top,
// so the create/read/update/delete plumbing exists exactly once.
type CRUD[T any] struct {
	db *gorm.DB
}

// NewCRUD creates a generic repository for one entity type.
func NewCRUD[T any](db *gorm.DB) CRUD[T] {
	return CRUD[T]{db: db}
}

// DB exposes the underlying handle for transaction composition.
func (r *CRUD[T]) DB() *gorm.DB {
	return r.db
}

// Create inserts one entity.
func (r *CRUD[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// GetByID fetches one entity by primary key.
func (r *CRUD[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get record %d: %w", id, err)
	}
	return &entity, nil
}

// Save persists all fields of an existing entity.
func (r *CRUD[T]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

// Delete removes one entity by primary key.
func (r *CRUD[T]) Delete(ctx context.Context, id uint) error {
	var entity T
	if err := r.db.WithContext(ctx).Delete(&entity, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	return nil
}
