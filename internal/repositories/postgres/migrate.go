package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/folio-hub/portfolio-service/internal/models"
)

// Migrate creates or updates the users and user_profiles tables
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&models.User{}, &models.UserProfile{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SeedAdmin inserts the admin account unless a user with that name exists.
// An existing admin keeps its password.
func SeedAdmin(ctx context.Context, db *gorm.DB, passwordHash string) error {
	if passwordHash == "" {
		return errors.New("admin password hash is empty")
	}

	admin := models.User{
		Username:     models.AdminUsername,
		PasswordHash: passwordHash,
	}

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(&admin).Error
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	return nil
}
