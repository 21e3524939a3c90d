package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-service/internal/events"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

// tenancyTermMonths is the initial term granted on approval.
const tenancyTermMonths = 2

// ApplicationService orchestrates tenancy applications, including the
// multi-step approval transaction.
type ApplicationService struct {
	db            *gorm.DB
	applications  *repository.ApplicationRepository
	flats         *repository.FlatRepository
	notifications *repository.NotificationRepository
	publisher     *events.Publisher
	log           *logrus.Logger
}

// NewApplicationService creates a new application service
func NewApplicationService(
	db *gorm.DB,
	applications *repository.ApplicationRepository,
	flats *repository.FlatRepository,
	notifications *repository.NotificationRepository,
	publisher *events.Publisher,
	log *logrus.Logger,
) *ApplicationService {
	return &ApplicationService{
		db:            db,
		applications:  applications,
		flats:         flats,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

// Apply submits a tenant's application for a flat. Holding an active
// tenancy elsewhere does not block a new application; only approval is
// guarded by the one-active-tenancy rule.
func (s *ApplicationService) Apply(ctx context.Context, userID, flatID uint, message string) (*models.Application, error) {
	flat, err := s.flats.GetByID(ctx, flatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("flat %d: %w", flatID, ErrInvalidReference)
		}
		return nil, err
	}

	var building models.Building
	if err := s.db.WithContext(ctx).First(&building, "id = ?", flat.BuildingID).Error; err != nil {
		return nil, fmt.Errorf("failed to get building for flat %d: %w", flatID, err)
	}

	app := &models.Application{
		FlatID:     flat.ID,
		BuildingID: building.ID,
		UserID:     userID,
		OwnerID:    building.OwnerID,
		Message:    message,
		Status:     models.ApplicationPending,
	}
	app.Stamp(fmt.Sprintf("user:%d", userID))

	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("application references missing row: %w", ErrInvalidReference)
		}
		return nil, err
	}
	return app, nil
}

// ApproveApplication approves a pending application and activates the
// tenancy. All four writes land atomically or none do:
//  1. the application moves pending -> approved, scoped by owner
//  2. the flat becomes occupied
//  3. the building's vacancy counter is decremented by one
//  4. a new active tenancy is inserted (start now, end in two months)
//
// A second approval of the same application matches zero rows in step 1 and
// is a no-op. A concurrent tenancy for the same user trips the partial
// unique index in step 4 and rolls the whole transaction back.
func (s *ApplicationService) ApproveApplication(ctx context.Context, ownerID, applicationID uint) (*models.Tenancy, error) {
	by := fmt.Sprintf("owner:%d", ownerID)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	rows, err := repository.MarkPending(tx, applicationID, ownerID, by, models.ApplicationApproved)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if rows == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("application not found or already approved: %w", ErrNotFound)
	}

	var app models.Application
	if err := tx.First(&app, "id = ?", applicationID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to re-read application %d: %w", applicationID, err)
	}

	res := tx.Model(&models.Flat{}).
		Where("id = ?", app.FlatID).
		Updates(map[string]interface{}{
			"status":          models.FlatOccupied,
			"last_updated_by": by,
			"change_number":   gorm.Expr("change_number + 1"),
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to occupy flat %d: %w", app.FlatID, res.Error)
	}

	if _, err := repository.AdjustVacancy(tx, app.BuildingID, ownerID, -1); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	tenancy := &models.Tenancy{
		UserID:    app.UserID,
		FlatID:    app.FlatID,
		OwnerID:   ownerID,
		StartDate: now,
		EndDate:   now.AddDate(0, tenancyTermMonths, 0),
		Status:    models.TenancyActive,
	}
	tenancy.Stamp(by)

	if err := tx.Create(tenancy).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user %d already holds an active tenancy: %w", app.UserID, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create tenancy: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"application_id": applicationID,
		"tenancy_id":     tenancy.ID,
		"user_id":        app.UserID,
		"flat_id":        app.FlatID,
	}).Info("application approved")

	s.publisher.Publish(events.SubjectApplicationApproved, map[string]interface{}{
		"application_id": applicationID,
		"tenancy_id":     tenancy.ID,
		"user_id":        app.UserID,
		"flat_id":        app.FlatID,
		"owner_id":       ownerID,
	})
	s.notify(ctx, app.UserID, ownerID, "Application approved",
		"Your tenancy application has been approved. Welcome to your new flat.")

	return tenancy, nil
}

// DenyApplication transitions a pending application to denied, scoped by owner
func (s *ApplicationService) DenyApplication(ctx context.Context, ownerID, applicationID uint) error {
	by := fmt.Sprintf("owner:%d", ownerID)

	rows, err := repository.MarkPending(s.db.WithContext(ctx), applicationID, ownerID, by, models.ApplicationDenied)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("application not found or already resolved: %w", ErrNotFound)
	}

	var app models.Application
	if err := s.db.WithContext(ctx).First(&app, "id = ?", applicationID).Error; err == nil {
		s.publisher.Publish(events.SubjectApplicationDenied, map[string]interface{}{
			"application_id": applicationID,
			"user_id":        app.UserID,
			"owner_id":       ownerID,
		})
		s.notify(ctx, app.UserID, ownerID, "Application denied",
			"Your tenancy application has been denied.")
	}
	return nil
}

// ListForOwner lists applications addressed to an owner
func (s *ApplicationService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Application, error) {
	return s.applications.ListByOwner(ctx, ownerID)
}

// ListForUser lists a tenant's own applications
func (s *ApplicationService) ListForUser(ctx context.Context, userID uint) ([]models.Application, error) {
	return s.applications.ListByUser(ctx, userID)
}

// notify inserts a notification row for the tenant. A failure here is
// logged and swallowed: the primary write already committed.
func (s *ApplicationService) notify(ctx context.Context, userID, ownerID uint, title, body string) {
	n := &models.Notification{
		UserID:  userID,
		OwnerID: ownerID,
		Title:   title,
		Body:    body,
		Status:  models.NotificationUnread,
	}
	n.Stamp(fmt.Sprintf("owner:%d", ownerID))
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to create notification")
	}
}
