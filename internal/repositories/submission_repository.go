package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

// SubmissionRepository interface for submission-specific operations
type SubmissionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error)
	Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.SubmissionStatus) error

	// Query operations
	GetByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters SubmissionFilters) ([]*models.Submission, int64, error)
	GetBySubmitter(ctx context.Context, tx *gorm.DB, userID string, filters SubmissionFilters) ([]*models.Submission, int64, error)

	// ReplaceAuthors removes the prior author list and inserts the given one
	// in a single transaction (the author edit flow is a full overwrite).
	ReplaceAuthors(ctx context.Context, tx *gorm.DB, submissionID string, authors []models.SubmissionAuthor) error
	GetAuthors(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.SubmissionAuthor, error)

	// CorrespondingUserIDs returns the user IDs of corresponding authors that
	// are linked to registered accounts; unlinked authors are skipped.
	CorrespondingUserIDs(ctx context.Context, tx *gorm.DB, submissionID string) ([]string, error)
}
