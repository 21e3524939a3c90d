package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

func newServiceRequestFixture(t *testing.T) (*ServiceRequestService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewServiceRequestService(
		repository.NewServiceRequestRepository(db),
		repository.NewTenancyRepository(db),
		repository.NewNotificationRepository(db),
		newTestLogger(),
	)
	return svc, db
}

func TestCreateServiceRequest(t *testing.T) {
	svc, db := newServiceRequestFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	user := seedUser(t, db, "tenant@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 4)
	flat := seedFlat(t, db, building.ID, models.FlatOccupied)
	seedTenancy(t, db, user.ID, flat.ID, owner.ID, models.TenancyActive, time.Now().AddDate(0, 1, 0))

	req, err := svc.Create(ctx, user.ID, "Leaking tap", "The kitchen tap drips constantly.")
	require.NoError(t, err)
	assert.Equal(t, flat.ID, req.FlatID, "the flat is derived from the active tenancy")
	assert.Equal(t, owner.ID, req.OwnerID)
	assert.Equal(t, models.ServiceRequestPending, req.Status)
}

func TestCreateServiceRequestWithoutTenancy(t *testing.T) {
	svc, db := newServiceRequestFixture(t)

	user := seedUser(t, db, "tenant@example.com")

	_, err := svc.Create(context.Background(), user.ID, "Leaking tap", "")
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestResolveServiceRequest(t *testing.T) {
	svc, db := newServiceRequestFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	user := seedUser(t, db, "tenant@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 4)
	flat := seedFlat(t, db, building.ID, models.FlatOccupied)
	seedTenancy(t, db, user.ID, flat.ID, owner.ID, models.TenancyActive, time.Now().AddDate(0, 1, 0))

	req, err := svc.Create(ctx, user.ID, "Leaking tap", "")
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(ctx, owner.ID, req.ID, true))

	var got models.ServiceRequest
	require.NoError(t, db.First(&got, req.ID).Error)
	assert.Equal(t, models.ServiceRequestApproved, got.Status)

	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	// Resolution is terminal.
	require.ErrorIs(t, svc.Resolve(ctx, owner.ID, req.ID, false), ErrNotFound)
}

func TestResolveServiceRequestWrongOwner(t *testing.T) {
	svc, db := newServiceRequestFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	other := seedOwner(t, db, "other@example.com")
	user := seedUser(t, db, "tenant@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 4)
	flat := seedFlat(t, db, building.ID, models.FlatOccupied)
	seedTenancy(t, db, user.ID, flat.ID, owner.ID, models.TenancyActive, time.Now().AddDate(0, 1, 0))

	req, err := svc.Create(ctx, user.ID, "Leaking tap", "")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Resolve(ctx, other.ID, req.ID, true), ErrNotFound)

	var got models.ServiceRequest
	require.NoError(t, db.First(&got, req.ID).Error)
	assert.Equal(t, models.ServiceRequestPending, got.Status)
}
