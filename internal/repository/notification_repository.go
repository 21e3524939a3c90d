package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	CRUD[models.Notification]
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{CRUD: NewCRUD[models.Notification](db)}
}

// ListByUser retrieves a tenant's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// ListByOwner retrieves notifications an owner has sent, newest first
func (r *NotificationRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB().WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread counts a tenant's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB().WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationUnread).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead transitions one of a tenant's notifications to read. Returns
// rows affected so callers can detect a miss.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) (int64, error) {
	res := r.DB().WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":        models.NotificationRead,
			"change_number": gorm.Expr("change_number + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notification %d read: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
