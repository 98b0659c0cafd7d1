package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/folio-hub/portfolio-service/internal/cache"
	"github.com/folio-hub/portfolio-service/internal/events"
	"github.com/folio-hub/portfolio-service/internal/metrics"
	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

type reviewService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.Publisher
	cache     *cache.CacheManager
}

func NewReviewService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher, cacheManager *cache.CacheManager) ReviewService {
	return &reviewService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    publisher,
		cache:     cacheManager,
	}
}

func (s *reviewService) Queue(ctx context.Context) ([]models.ReviewQueueItem, error) {
	items, err := s.repo.User().ReviewQueue(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load review queue: %w", err)
	}
	return items, nil
}

func (s *reviewService) Summary(ctx context.Context) (*ReviewSummary, error) {
	var summary ReviewSummary
	err := s.cache.Stats.CacheOrExecute(ctx, reviewSummaryKey, &summary, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.countProfiles(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *reviewService) countProfiles(ctx context.Context) (*ReviewSummary, error) {
	users, err := s.repo.User().Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	admins, err := s.repo.User().ExistsByUsername(ctx, nil, models.AdminUsername)
	if err != nil {
		return nil, err
	}
	if admins {
		users--
	}

	published, err := s.repo.Profile().CountByStatus(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.Profile().CountByStatus(ctx, nil, false)
	if err != nil {
		return nil, err
	}

	return &ReviewSummary{
		Total:     users,
		Published: published,
		Pending:   pending,
		None:      max(users-published-pending, 0),
	}, nil
}

func (s *reviewService) GetForEdit(ctx context.Context, userID uint) (*ReviewTarget, error) {
	user, err := loadUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, ErrUserNotFound
	}

	profile, err := loadProfile(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	return &ReviewTarget{User: user, Profile: profile}, nil
}

func (s *reviewService) Publish(ctx context.Context, userID uint, form *ProfileForm, photo *PhotoUpdate) (*models.UserProfile, error) {
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
		if user.IsAdmin() {
			return ErrUserNotFound
		}
		profile, err = saveProfile(ctx, repo, userID, form, photo, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ProfileSavesTotal.WithLabelValues("admin").Inc()
	s.logger.InfoContext(ctx, "Profile published", "user_id", userID, "profile_id", profile.ID)

	cache.SafeDelete(ctx, s.cache.Stats, reviewSummaryKey)
	publishEvent(ctx, s.logger, s.events, events.New(events.TypeProfilePublished, user.ID, user.Username, true))

	return profile, nil
}
