package services

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

const reviewSummaryKey = "review_summary"

// loadUser maps a missing user to ErrUserNotFound
func loadUser(ctx context.Context, repo repositories.Repository, userID uint) (*models.User, error) {
	user, err := repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// loadProfile returns nil without error when the user has no profile
func loadProfile(ctx context.Context, repo repositories.Repository, userID uint) (*models.UserProfile, error) {
	profile, err := repo.Profile().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// saveProfile writes form as userID's profile with the given review state.
// Every field is overwritten; the stored photo survives unless photo is set.
// Callers pass a repository bound to a transaction.
func saveProfile(ctx context.Context, repo repositories.Repository, userID uint, form *validator.ProfileForm, photo *PhotoUpdate, completed bool) (*models.UserProfile, error) {
	existing, err := loadProfile(ctx, repo, userID)
	if err != nil {
		return nil, err
	}

	profile := form.ToProfile(userID)
	switch {
	case photo != nil:
		profile.Photo = photo.DataURI
	case existing != nil:
		profile.Photo = existing.Photo
	}

	profile.IsCompleted = completed
	if completed {
		now := time.Now().UTC()
		profile.CompletedAt = &now
	}

	if err := repo.Profile().Upsert(ctx, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
