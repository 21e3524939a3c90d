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

// TenancyService orchestrates tenancies and their payments
type TenancyService struct {
	db            *gorm.DB
	tenancies     *repository.TenancyRepository
	payments      *repository.PaymentRepository
	notifications *repository.NotificationRepository
	publisher     *events.Publisher
	log           *logrus.Logger
}

// NewTenancyService creates a new tenancy service
func NewTenancyService(
	db *gorm.DB,
	tenancies *repository.TenancyRepository,
	payments *repository.PaymentRepository,
	notifications *repository.NotificationRepository,
	publisher *events.Publisher,
	log *logrus.Logger,
) *TenancyService {
	return &TenancyService{
		db:            db,
		tenancies:     tenancies,
		payments:      payments,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

// RecordPaymentRequest carries the fields of a payment record
type RecordPaymentRequest struct {
	TenancyID uint
	Amount    int64
	PaidOn    time.Time
	Type      string
	Status    models.PaymentStatus
}

// RecordPayment inserts a payment row and extends the tenancy's end date by
// one calendar month, both inside one transaction. A tenancy that does not
// exist, is not active, or belongs to another owner rolls everything back.
func (s *TenancyService) RecordPayment(ctx context.Context, ownerID uint, req *RecordPaymentRequest) (*models.Payment, error) {
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

	payment := &models.Payment{
		TenancyID: req.TenancyID,
		OwnerID:   ownerID,
		Amount:    req.Amount,
		PaidOn:    req.PaidOn,
		Type:      req.Type,
		Status:    req.Status,
	}
	payment.Stamp(by)

	if err := tx.Create(payment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("tenancy %d: %w", req.TenancyID, ErrInvalidReference)
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	rows, err := repository.ExtendEnd(tx, req.TenancyID, ownerID, by)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if rows == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("tenancy not found or not active: %w", ErrNotFound)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"tenancy_id": req.TenancyID,
		"amount":     req.Amount,
	}).Info("payment recorded")

	s.publisher.Publish(events.SubjectPaymentRecorded, map[string]interface{}{
		"payment_id": payment.ID,
		"tenancy_id": req.TenancyID,
		"owner_id":   ownerID,
		"amount":     req.Amount,
	})

	if tenancy, err := s.tenancies.GetByID(ctx, req.TenancyID); err == nil {
		s.notifyTenant(ctx, tenancy.UserID, ownerID, "Payment recorded",
			fmt.Sprintf("A payment of %d was recorded against your tenancy.", req.Amount))
	}
	return payment, nil
}

// ListPaymentsForOwner lists payments an owner has recorded
func (s *TenancyService) ListPaymentsForOwner(ctx context.Context, ownerID uint) ([]models.Payment, error) {
	return s.payments.ListByOwner(ctx, ownerID)
}

// ListPaymentsForUser lists payments under a tenant's tenancies
func (s *TenancyService) ListPaymentsForUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

// ListForOwner lists an owner's tenancies
func (s *TenancyService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Tenancy, error) {
	return s.tenancies.ListByOwner(ctx, ownerID)
}

// GetActiveForUser returns a tenant's active tenancy
func (s *TenancyService) GetActiveForUser(ctx context.Context, userID uint) (*models.Tenancy, error) {
	tenancy, err := s.tenancies.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return tenancy, nil
}

// EndTenancy ends an active tenancy: the tenancy row is closed, the flat
// goes back to vacant and the building's vacancy counter is incremented,
// all in one transaction.
func (s *TenancyService) EndTenancy(ctx context.Context, ownerID, tenancyID uint) error {
	by := fmt.Sprintf("owner:%d", ownerID)

	tenancy, err := s.tenancies.GetOwned(ctx, tenancyID, ownerID)
	if err != nil {
		return translateNotFound(err)
	}
	if tenancy.Status != models.TenancyActive {
		return fmt.Errorf("tenancy %d is not active: %w", tenancyID, ErrNotFound)
	}

	if err := s.closeTenancy(ctx, tenancy, by); err != nil {
		return err
	}

	s.publisher.Publish(events.SubjectTenancyEnded, map[string]interface{}{
		"tenancy_id": tenancy.ID,
		"user_id":    tenancy.UserID,
		"flat_id":    tenancy.FlatID,
		"owner_id":   tenancy.OwnerID,
	})
	s.notifyTenant(ctx, tenancy.UserID, tenancy.OwnerID, "Tenancy ended",
		"Your tenancy has ended. Thank you for staying with us.")
	return nil
}

// SweepExpired ends every active tenancy whose end date has passed. Run by
// the background scheduler; returns the number of tenancies ended.
func (s *TenancyService) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.tenancies.ListExpiredActive(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	ended := 0
	for i := range expired {
		tenancy := &expired[i]
		if err := s.closeTenancy(ctx, tenancy, "system:sweep"); err != nil {
			s.log.WithError(err).WithField("tenancy_id", tenancy.ID).Warn("failed to end expired tenancy")
			continue
		}
		ended++
		s.publisher.Publish(events.SubjectTenancyEnded, map[string]interface{}{
			"tenancy_id": tenancy.ID,
			"user_id":    tenancy.UserID,
			"flat_id":    tenancy.FlatID,
			"owner_id":   tenancy.OwnerID,
			"reason":     "expired",
		})
		s.notifyTenant(ctx, tenancy.UserID, tenancy.OwnerID, "Tenancy expired",
			"Your tenancy has reached its end date and has been closed.")
	}
	return ended, nil
}

// closeTenancy performs the three writes that end a tenancy
func (s *TenancyService) closeTenancy(ctx context.Context, tenancy *models.Tenancy, by string) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to start transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	res := tx.Model(&models.Tenancy{}).
		Where("id = ? AND status = ?", tenancy.ID, models.TenancyActive).
		Updates(map[string]interface{}{
			"status":          models.TenancyEnded,
			"last_updated_by": by,
			"change_number":   gorm.Expr("change_number + 1"),
		})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to end tenancy %d: %w", tenancy.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("tenancy %d already ended: %w", tenancy.ID, ErrNotFound)
	}

	if err := tx.Model(&models.Flat{}).
		Where("id = ?", tenancy.FlatID).
		Updates(map[string]interface{}{
			"status":          models.FlatVacant,
			"last_updated_by": by,
			"change_number":   gorm.Expr("change_number + 1"),
		}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to vacate flat %d: %w", tenancy.FlatID, err)
	}

	var flat models.Flat
	if err := tx.First(&flat, "id = ?", tenancy.FlatID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read flat %d: %w", tenancy.FlatID, err)
	}
	if _, err := repository.AdjustVacancy(tx, flat.BuildingID, tenancy.OwnerID, 1); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit tenancy end: %w", err)
	}

	s.log.WithFields(logrus.Fields{"tenancy_id": tenancy.ID, "by": by}).Info("tenancy ended")
	return nil
}

func (s *TenancyService) notifyTenant(ctx context.Context, userID, ownerID uint, title, body string) {
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
