package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/folio-hub/portfolio-service/internal/cache"
	"github.com/folio-hub/portfolio-service/internal/events"
	"github.com/folio-hub/portfolio-service/internal/metrics"
	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.Publisher
	cache     *cache.CacheManager
	cost      int

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher, cacheManager *cache.CacheManager, bcryptCost int) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    publisher,
		cache:     cacheManager,
		cost:      bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, errs
	}

	taken, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	user := &models.User{Username: req.Username, PasswordHash: hash}

	// the unique index decides races between two registrations of one name
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateError(err) {
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
			return nil, ErrUsernameTaken
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)

	cache.SafeDelete(ctx, s.cache.Stats, reviewSummaryKey)
	publishEvent(ctx, s.logger, s.events, events.New(events.TypeUserRegistered, user.ID, user.Username, false))

	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateLogin(req); len(errs) > 0 {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		checkPassword(s.fallbackHash(), req.Password)
		metrics.LoginsTotal.WithLabelValues(metrics.ResultDenied).Inc()
		return nil, ErrInvalidCredentials
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultDenied).Inc()
		s.logger.InfoContext(ctx, "Login rejected", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID, "role", user.Role())
	return user, nil
}

// fallbackHash is compared against for unknown usernames so a missing account
// costs the same bcrypt work as a wrong password.
func (s *authService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("not-a-real-password", s.cost)
		if err != nil {
			s.logger.Error("Failed to prepare fallback hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func publishEvent(ctx context.Context, logger *slog.Logger, publisher events.Publisher, evt events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, evt); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "type", evt.Type, "user_id", evt.UserID, "error", err)
	}
}
