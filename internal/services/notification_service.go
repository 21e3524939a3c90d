package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

// NotificationService orchestrates owner-to-tenant notifications
type NotificationService struct {
	notifications *repository.NotificationRepository
	log           *logrus.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications *repository.NotificationRepository, log *logrus.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, log: log}
}

// Send inserts a notification from an owner to a tenant
func (s *NotificationService) Send(ctx context.Context, ownerID, userID uint, title, body string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		OwnerID: ownerID,
		Title:   title,
		Body:    body,
		Status:  models.NotificationUnread,
	}
	n.Stamp(fmt.Sprintf("owner:%d", ownerID))

	if err := s.notifications.Create(ctx, n); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrInvalidReference)
		}
		return nil, err
	}
	return n, nil
}

// ListForUser lists a tenant's notifications
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// ListForOwner lists notifications an owner has sent
func (s *NotificationService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Notification, error) {
	return s.notifications.ListByOwner(ctx, ownerID)
}

// UnreadCount counts a tenant's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkRead marks one of a tenant's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	rows, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}
