package repositories

import "context"

// Repository groups the repositories backed by one database handle.
type Repository interface {
	User() UserRepository
	Profile() ProfileRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize verifies the connection, migrates the schema and seeds the admin account
	Initialize(ctx context.Context) error

	GetRepository() Repository

	HealthCheck(ctx context.Context) error

	Shutdown(ctx context.Context) error
}
