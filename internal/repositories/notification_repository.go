package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

// NotificationRepository interface for notification operations. Rows are
// never hard-deleted; IsDeleted is a display flag.
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Notification, error)
	Update(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters NotificationFilters) ([]*models.Notification, int64, error)
}

// InvitationRepository interface for role-offer invitations
type InvitationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, invitation *models.Invitation) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Invitation, error)
	Update(ctx context.Context, tx *gorm.DB, invitation *models.Invitation) error
}

// UserRepository provides read access to the user directory. Accounts live
// in the identity provider; this repository only resolves and caches them.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
}
