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

// ServiceRequestService orchestrates tenant-raised maintenance tickets
type ServiceRequestService struct {
	requests      *repository.ServiceRequestRepository
	tenancies     *repository.TenancyRepository
	notifications *repository.NotificationRepository
	log           *logrus.Logger
}

// NewServiceRequestService creates a new service request service
func NewServiceRequestService(
	requests *repository.ServiceRequestRepository,
	tenancies *repository.TenancyRepository,
	notifications *repository.NotificationRepository,
	log *logrus.Logger,
) *ServiceRequestService {
	return &ServiceRequestService{
		requests:      requests,
		tenancies:     tenancies,
		notifications: notifications,
		log:           log,
	}
}

// Create raises a service request against the tenant's currently occupied
// flat. The flat and owner are derived from the active tenancy, so a tenant
// can only raise requests where they actually live.
func (s *ServiceRequestService) Create(ctx context.Context, userID uint, subject, details string) (*models.ServiceRequest, error) {
	tenancy, err := s.tenancies.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active tenancy for user %d: %w", userID, ErrInvalidReference)
		}
		return nil, err
	}

	req := &models.ServiceRequest{
		FlatID:  tenancy.FlatID,
		UserID:  userID,
		OwnerID: tenancy.OwnerID,
		Subject: subject,
		Details: details,
		Status:  models.ServiceRequestPending,
	}
	req.Stamp(fmt.Sprintf("user:%d", userID))

	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("service request references missing row: %w", ErrInvalidReference)
		}
		return nil, err
	}
	return req, nil
}

// ListForOwner lists service requests raised against one owner's flats
func (s *ServiceRequestService) ListForOwner(ctx context.Context, ownerID uint) ([]models.ServiceRequest, error) {
	return s.requests.ListByOwner(ctx, ownerID)
}

// ListForUser lists a tenant's own service requests
func (s *ServiceRequestService) ListForUser(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	return s.requests.ListByUser(ctx, userID)
}

// Resolve approves or denies a pending service request and notifies the tenant
func (s *ServiceRequestService) Resolve(ctx context.Context, ownerID, id uint, approve bool) error {
	to := models.ServiceRequestDenied
	verdict := "denied"
	if approve {
		to = models.ServiceRequestApproved
		verdict = "approved"
	}

	rows, err := s.requests.Resolve(ctx, id, ownerID, fmt.Sprintf("owner:%d", ownerID), to)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("service request not found or already resolved: %w", ErrNotFound)
	}

	if req, err := s.requests.GetByID(ctx, id); err == nil {
		n := &models.Notification{
			UserID:  req.UserID,
			OwnerID: ownerID,
			Title:   "Service request " + verdict,
			Body:    fmt.Sprintf("Your service request %q has been %s.", req.Subject, verdict),
			Status:  models.NotificationUnread,
		}
		n.Stamp(fmt.Sprintf("owner:%d", ownerID))
		if err := s.notifications.Create(ctx, n); err != nil {
			s.log.WithError(err).WithField("user_id", req.UserID).Warn("failed to create notification")
		}
	}
	return nil
}
