package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := u.getDB(tx).WithContext(ctx).Create(user).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return fmt.Errorf("username %q: %w", user.Username, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := u.getDB(tx).WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	err := u.getDB(tx).WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	var count int64
	err := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := u.getDB(tx).WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// ReviewQueue orders users without a profile or with an unpublished one
// ahead of published ones, then by registration order.
func (u *UserPostgreSQL) ReviewQueue(ctx context.Context, tx *gorm.DB) ([]models.ReviewQueueItem, error) {
	var items []models.ReviewQueueItem
	err := u.getDB(tx).WithContext(ctx).
		Table("users AS u").
		Select(`u.id AS user_id, u.username AS username, up.id AS profile_id,
			up.full_name AS full_name, up.job_position AS job_position, up.is_completed AS is_completed`).
		Joins("LEFT JOIN user_profiles AS up ON up.user_id = u.id").
		Where("u.username <> ?", models.AdminUsername).
		Order("CASE WHEN up.is_completed THEN 1 ELSE 0 END ASC").
		Order("u.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load review queue: %w", err)
	}
	return items, nil
}
