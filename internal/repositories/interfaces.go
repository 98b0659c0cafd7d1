package repositories

import (
	"context"

	"github.com/folio-hub/portfolio-service/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository interface for user profile operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.UserProfile, error)

	// Upsert writes the profile keyed by UserID, creating it when absent and
	// overwriting every models.ProfileColumns column otherwise.
	Upsert(ctx context.Context, tx *gorm.DB, profile *models.UserProfile) error

	// CountByStatus counts the profiles of reviewable users, leaving out the admin account.
	CountByStatus(ctx context.Context, tx *gorm.DB, completed bool) (int64, error)
}
