package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-service/internal/config"
	"rental-service/internal/models"
)

// Connect opens the pooled Postgres connection used by every repository.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate runs schema migration for all entities and installs the partial
// unique index that enforces at most one active tenancy per user. Putting
// the rule in the storage layer closes the check-then-act race between two
// concurrent approvals for the same user.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Owner{},
		&models.User{},
		&models.Building{},
		&models.Flat{},
		&models.FlatCode{},
		&models.Application{},
		&models.Tenancy{},
		&models.Payment{},
		&models.Notification{},
		&models.ServiceRequest{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_tenancies_one_active_per_user ON tenancies (user_id) WHERE status = 1",
	).Error; err != nil {
		return fmt.Errorf("failed to create active-tenancy index: %w", err)
	}
	return nil
}
