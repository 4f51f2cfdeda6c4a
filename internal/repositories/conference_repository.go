package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

// ConferenceRepository interface for conference-specific operations
type ConferenceRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, conference *models.Conference) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Conference, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Conference, error)
	Update(ctx context.Context, tx *gorm.DB, conference *models.Conference) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.ConferenceStatus) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters ConferenceFilters) ([]*models.Conference, int64, error)
	GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters ConferenceFilters) ([]*models.Conference, int64, error)
	GetByParticipant(ctx context.Context, tx *gorm.DB, userID string, filters ConferenceFilters) ([]*models.Conference, int64, error)

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB, id string) (*ConferenceStats, error)
}

// RoleRepository is the role store: persisted (user, conference, role) grants
// backing every access guard.
type RoleRepository interface {
	// Grant inserts a role entry unless the identical grant already exists;
	// it reports whether a new row was created.
	Grant(ctx context.Context, tx *gorm.DB, entry *models.ConferenceRoleEntry) (bool, error)
	Revoke(ctx context.Context, tx *gorm.DB, entryID string) error

	GetByID(ctx context.Context, tx *gorm.DB, entryID string) (*models.ConferenceRoleEntry, error)
	GetByUserAndConference(ctx context.Context, tx *gorm.DB, userID, conferenceID string) ([]*models.ConferenceRoleEntry, error)
	GetEntry(ctx context.Context, tx *gorm.DB, userID, conferenceID string, role models.ConferenceRole) (*models.ConferenceRoleEntry, error)

	HasRole(ctx context.Context, tx *gorm.DB, userID, conferenceID string, role models.ConferenceRole) (bool, error)
	HasAnyRole(ctx context.Context, tx *gorm.DB, userID, conferenceID string) (bool, error)

	ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string) ([]*models.ConferenceRoleEntry, error)
	ListByConferenceAndRoles(ctx context.Context, tx *gorm.DB, conferenceID string, roles ...models.ConferenceRole) ([]*models.ConferenceRoleEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.ConferenceRoleEntry, error)
}
