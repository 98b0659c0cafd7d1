package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProfilePostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := p.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Upsert relies on the unique index on user_id, so two concurrent first saves
// for the same user still leave a single row.
func (p *ProfilePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, profile *models.UserProfile) error {
	if profile.UserID == 0 {
		return fmt.Errorf("profile has no user id")
	}

	db := p.getDB(tx).WithContext(ctx)
	profile.ID = 0

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(models.ProfileColumns),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	// The returned id is unreliable on the update branch; read it back.
	var stored models.UserProfile
	if err := db.Select("id", "created_at").Where("user_id = ?", profile.UserID).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload profile: %w", err)
	}
	profile.ID = stored.ID
	profile.CreatedAt = stored.CreatedAt

	return nil
}

func (p *ProfilePostgreSQL) CountByStatus(ctx context.Context, tx *gorm.DB, completed bool) (int64, error) {
	var count int64
	err := p.getDB(tx).WithContext(ctx).
		Table("user_profiles AS up").
		Joins("JOIN users AS u ON u.id = up.user_id").
		Where("up.is_completed = ? AND u.username <> ?", completed, models.AdminUsername).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
