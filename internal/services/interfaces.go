package services

import (
	"context"
	"io"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ProfileForm = validator.ProfileForm

// ProfileOverview backs the user landing page
type ProfileOverview struct {
	User    *models.User
	Profile *models.UserProfile // nil until the first save
	Status  models.ProfileStatus
	// HasPortfolio is true only once an administrator has published the profile
	HasPortfolio bool
}

// ReviewTarget is a user opened in the admin editor
type ReviewTarget struct {
	User    *models.User
	Profile *models.UserProfile // nil when the user never saved a profile
}

// ReviewSummary counts non-admin users by profile state
type ReviewSummary struct {
	Total     int64 `json:"total"`
	None      int64 `json:"none"`
	Pending   int64 `json:"pending"`
	Published int64 `json:"published"`
}

// PhotoUpdate carries a normalized photo. A nil *PhotoUpdate keeps the stored photo.
type PhotoUpdate struct {
	DataURI string
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// Register creates an account; ErrUsernameTaken when the name is in use,
	// validator.ValidationErrors when the form is invalid.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)

	// Authenticate returns ErrInvalidCredentials for both unknown users and wrong passwords.
	Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error)
}

type ProfileService interface {
	Overview(ctx context.Context, userID uint) (*ProfileOverview, error)

	// GetOwn returns the caller's profile regardless of review state, nil when absent.
	GetOwn(ctx context.Context, userID uint) (*models.UserProfile, error)

	// SaveDraft upserts the caller's profile and always clears the published flag.
	SaveDraft(ctx context.Context, userID uint, form *ProfileForm, photo *PhotoUpdate) (*models.UserProfile, error)

	// GetPublished returns ErrPortfolioNotPublished unless an administrator completed the profile.
	GetPublished(ctx context.Context, userID uint) (*ProfileOverview, error)
}

type ReviewService interface {
	Queue(ctx context.Context) ([]models.ReviewQueueItem, error)
	Summary(ctx context.Context) (*ReviewSummary, error)

	// GetForEdit returns ErrUserNotFound for unknown ids and for the admin account.
	GetForEdit(ctx context.Context, userID uint) (*ReviewTarget, error)

	// Publish saves the form as the user's profile and marks it completed,
	// creating the profile when absent.
	Publish(ctx context.Context, userID uint, form *ProfileForm, photo *PhotoUpdate) (*models.UserProfile, error)
}

type ExportService interface {
	// ExportReviewQueue writes the review queue as an XLSX workbook and returns the row count.
	ExportReviewQueue(ctx context.Context, w io.Writer) (int, error)
}

// ServiceManager wires and hands out the services
type ServiceManager interface {
	Initialize(ctx context.Context) error

	Auth() AuthService
	Profile() ProfileService
	Review() ReviewService
	Export() ExportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
