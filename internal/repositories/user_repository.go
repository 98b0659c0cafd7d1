package repositories

import (
	"context"

	"github.com/folio-hub/portfolio-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for user account operations.
// A nil tx runs the call on the repository's own connection pool.
type UserRepository interface {
	// Create inserts a user; a taken username yields an error matching IsDuplicateError.
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// ReviewQueue lists non-admin users with their profile state, unreviewed first.
	ReviewQueue(ctx context.Context, tx *gorm.DB) ([]models.ReviewQueueItem, error)
}
