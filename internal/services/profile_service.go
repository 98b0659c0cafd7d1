package services

import (
	"context"
	"log/slog"

	"github.com/folio-hub/portfolio-service/internal/cache"
	"github.com/folio-hub/portfolio-service/internal/events"
	"github.com/folio-hub/portfolio-service/internal/metrics"
	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.Publisher
	cache     *cache.CacheManager
}

func NewProfileService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher, cacheManager *cache.CacheManager) ProfileService {
	return &profileService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    publisher,
		cache:     cacheManager,
	}
}

func (s *profileService) Overview(ctx context.Context, userID uint) (*ProfileOverview, error) {
	user, err := loadUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	profile, err := loadProfile(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOverview{
		User:         user,
		Profile:      profile,
		Status:       profile.Status(),
		HasPortfolio: profile.IsPublished(),
	}, nil
}

func (s *profileService) GetOwn(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return loadProfile(ctx, s.repo, userID)
}

func (s *profileService) SaveDraft(ctx context.Context, userID uint, form *ProfileForm, photo *PhotoUpdate) (*models.UserProfile, error) {
	if errs := s.validator.GetBusinessValidator().ValidateProfile(form); len(errs) > 0 {
		return nil, errs
	}

	var (
		user    *models.User
		profile *models.UserProfile
	)
	err := s.repo.WithTransaction(ctx, func(repo repositories.Repository) error {
		var err error
		if user, err = loadUser(ctx, repo, userID); err != nil {
			return err
		}
		// a user save always sends the profile back for review
		profile, err = saveProfile(ctx, repo, userID, form, photo, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ProfileSavesTotal.WithLabelValues("user").Inc()
	s.logger.InfoContext(ctx, "Profile submitted for review", "user_id", userID, "profile_id", profile.ID)

	cache.SafeDelete(ctx, s.cache.Stats, reviewSummaryKey)
	publishEvent(ctx, s.logger, s.events, events.New(events.TypeProfileSubmitted, user.ID, user.Username, false))

	return profile, nil
}

func (s *profileService) GetPublished(ctx context.Context, userID uint) (*ProfileOverview, error) {
	overview, err := s.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !overview.HasPortfolio {
		return nil, ErrPortfolioNotPublished
	}
	return overview, nil
}
