package repositories

import "context"

// Repository aggregates all repository interfaces
type Repository interface {
	// Conference domain
	Conference() ConferenceRepository
	Role() RoleRepository

	// Submission domain
	Submission() SubmissionRepository

	// Assignment domain
	Review() ReviewRepository
	Decision() DecisionRepository

	// Notification domain
	Notification() NotificationRepository
	Invitation() InvitationRepository

	// User domain (read-only, backed by the identity provider)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
