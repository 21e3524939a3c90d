package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rental-service/internal/repository"
)

func newBuildingFixture(t *testing.T) (*BuildingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewBuildingService(repository.NewBuildingRepository(db), newTestLogger())
	return svc, db
}

func TestBuildingCRUD(t *testing.T) {
	svc, db := newBuildingFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")

	building, err := svc.Create(ctx, owner.ID, &CreateBuildingRequest{
		Name:        "Riverside House",
		Address:     "12 River Road",
		TotalFlats:  10,
		VacantFlats: 10,
	})
	require.NoError(t, err)
	require.NotZero(t, building.ID)

	got, err := svc.Get(ctx, owner.ID, building.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riverside House", got.Name)

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBuildingScopedByOwner(t *testing.T) {
	svc, db := newBuildingFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	other := seedOwner(t, db, "other@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 5)

	_, err := svc.Get(ctx, other.ID, building.ID)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateBuildingLeavesVacancyAlone(t *testing.T) {
	svc, db := newBuildingFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	building := seedBuilding(t, db, owner.ID, 5, 3)

	name := "Renamed House"
	total := 6
	updated, err := svc.Update(ctx, owner.ID, building.ID, &BuildingUpdate{Name: &name, TotalFlats: &total})
	require.NoError(t, err)
	assert.Equal(t, "Renamed House", updated.Name)
	assert.Equal(t, 6, updated.TotalFlats)
	assert.Equal(t, 3, updated.VacantFlats,
		"the vacancy counter only moves through approval and tenancy-end writes")
	assert.Equal(t, "1 Test Street", updated.Address)
}

func TestSearchBuildings(t *testing.T) {
	svc, db := newBuildingFixture(t)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")

	_, err := svc.Create(ctx, owner.ID, &CreateBuildingRequest{Name: "Riverside House", Address: "12 River Road"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, &CreateBuildingRequest{Name: "Hilltop Court", Address: "3 Hill Lane"})
	require.NoError(t, err)

	byName, err := svc.Search(ctx, owner.ID, "Riverside")
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byAddress, err := svc.Search(ctx, owner.ID, "Hill")
	require.NoError(t, err)
	assert.Len(t, byAddress, 1)

	none, err := svc.Search(ctx, owner.ID, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}
