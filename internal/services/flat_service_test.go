package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

func newFlatFixture(t *testing.T) (*FlatService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewFlatService(
		repository.NewFlatRepository(db),
		repository.NewBuildingRepository(db),
		newTestLogger(),
	)
	return svc, db
}

func TestCreateFlat(t *testing.T) {
	svc, db := newFlatFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)

	flat, err := svc.Create(ctx, owner.ID, &CreateFlatRequest{
		BuildingID: building.ID,
		Name:       "2B",
		Floor:      2,
		Rent:       18000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.FlatVacant, flat.Status)
	assert.Equal(t, models.TenancyTypeFamily, flat.TenancyType, "household type defaults to family")
}

func TestCreateFlatInForeignBuilding(t *testing.T) {
	svc, db := newFlatFixture(t)

	owner := seedOwner(t, db, "owner@example.com")
	other := seedOwner(t, db, "other@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)

	_, err := svc.Create(context.Background(), other.ID, &CreateFlatRequest{
		BuildingID: building.ID,
		Name:       "2B",
	})
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestUpdateFlatAllowList(t *testing.T) {
	svc, db := newFlatFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)
	flat := seedFlat(t, db, building.ID, models.FlatOccupied)

	rent := int64(20000)
	updated, err := svc.Update(ctx, owner.ID, flat.ID, &FlatUpdate{Rent: &rent})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.Rent)
	assert.Equal(t, "Test Flat", updated.Name)
	assert.Equal(t, models.FlatOccupied, updated.Status,
		"occupancy moves only through approval and tenancy-end transactions")

	other := seedOwner(t, db, "other@example.com")
	_, err = svc.Update(ctx, other.ID, flat.ID, &FlatUpdate{Rent: &rent})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFlatCodeLifecycle(t *testing.T) {
	svc, db := newFlatFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)
	flat := seedFlat(t, db, building.ID, models.FlatVacant)

	code, err := svc.EnsureCode(ctx, owner.ID, flat.ID)
	require.NoError(t, err)
	require.Len(t, code.Code, 8)
	for _, ch := range code.Code {
		assert.Contains(t, flatCodeAlphabet, string(ch))
	}

	// A second request returns the same code instead of minting another.
	again, err := svc.EnsureCode(ctx, owner.ID, flat.ID)
	require.NoError(t, err)
	assert.Equal(t, code.Code, again.Code)

	resolved, err := svc.ResolveByCode(ctx, code.Code)
	require.NoError(t, err)
	assert.Equal(t, flat.ID, resolved.ID)

	_, err = svc.ResolveByCode(ctx, "NOSUCHCD")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFlatRemovesCode(t *testing.T) {
	svc, db := newFlatFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)
	flat := seedFlat(t, db, building.ID, models.FlatVacant)

	code, err := svc.EnsureCode(ctx, owner.ID, flat.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner.ID, flat.ID))

	_, err = svc.Get(ctx, owner.ID, flat.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ResolveByCode(ctx, code.Code)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListVacantFlats(t *testing.T) {
	svc, db := newFlatFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)
	vacant := seedFlat(t, db, building.ID, models.FlatVacant)
	seedFlat(t, db, building.ID, models.FlatOccupied)

	flats, err := svc.ListVacant(ctx)
	require.NoError(t, err)
	require.Len(t, flats, 1)
	assert.Equal(t, vacant.ID, flats[0].ID)
	require.NotNil(t, flats[0].Building, "tenant browsing includes the building")
	assert.Equal(t, building.ID, flats[0].Building.ID)
}

func TestListByBuildingScopedByOwner(t *testing.T) {
	svc, db := newFlatFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	other := seedOwner(t, db, "other@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)
	seedFlat(t, db, building.ID, models.FlatVacant)

	flats, err := svc.ListByBuilding(ctx, owner.ID, building.ID)
	require.NoError(t, err)
	assert.Len(t, flats, 1)

	_, err = svc.ListByBuilding(ctx, other.ID, building.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
