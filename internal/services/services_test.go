package services

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-service/internal/database"
	"rental-service/internal/models"
)

// newTestDB opens an isolated in-memory database with the production schema,
// including the partial unique index that guards active tenancies.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seedOwner(t *testing.T, db *gorm.DB, email string) *models.Owner {
	t.Helper()
	owner := &models.Owner{
		Name:     "Test Owner",
		Email:    email,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(owner).Error)
	return owner
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username: "testtenant",
		Email:    email,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBuilding(t *testing.T, db *gorm.DB, ownerID uint, totalFlats, vacantFlats int) *models.Building {
	t.Helper()
	building := &models.Building{
		OwnerID:     ownerID,
		Name:        "Test Building",
		Address:     "1 Test Street",
		TotalFlats:  totalFlats,
		VacantFlats: vacantFlats,
	}
	require.NoError(t, db.Create(building).Error)
	return building
}

func seedFlat(t *testing.T, db *gorm.DB, buildingID uint, status models.FlatStatus) *models.Flat {
	t.Helper()
	flat := &models.Flat{
		BuildingID:  buildingID,
		Name:        "Test Flat",
		Floor:       2,
		Rent:        15000,
		Status:      status,
		TenancyType: models.TenancyTypeFamily,
	}
	require.NoError(t, db.Create(flat).Error)
	return flat
}

func seedApplication(t *testing.T, db *gorm.DB, flat *models.Flat, userID, ownerID uint) *models.Application {
	t.Helper()
	app := &models.Application{
		FlatID:     flat.ID,
		BuildingID: flat.BuildingID,
		UserID:     userID,
		OwnerID:    ownerID,
		Message:    "please consider my application",
		Status:     models.ApplicationPending,
	}
	require.NoError(t, db.Create(app).Error)
	return app
}

func seedTenancy(t *testing.T, db *gorm.DB, userID, flatID, ownerID uint, status models.TenancyStatus, end time.Time) *models.Tenancy {
	t.Helper()
	tenancy := &models.Tenancy{
		UserID:    userID,
		FlatID:    flatID,
		OwnerID:   ownerID,
		StartDate: end.AddDate(0, -2, 0),
		EndDate:   end,
		Status:    status,
	}
	require.NoError(t, db.Create(tenancy).Error)
	return tenancy
}
