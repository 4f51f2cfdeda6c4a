package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

// ReviewRepository covers review assignments and their terminal Review
// artifacts.
type ReviewRepository interface {
	// Assignment operations
	CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.ReviewAssignment) error
	GetAssignmentByID(ctx context.Context, tx *gorm.DB, id string) (*models.ReviewAssignment, error)
	DeleteAssignment(ctx context.Context, tx *gorm.DB, id string) error
	UpdateDueDate(ctx context.Context, tx *gorm.DB, id string, dueDate time.Time) error
	AssignmentExists(ctx context.Context, tx *gorm.DB, submissionID, reviewerRoleID string) (bool, error)

	// Denormalized views for the assignment dashboards
	ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters AssignmentFilters) ([]*models.ReviewAssignment, error)
	ListByAssignee(ctx context.Context, tx *gorm.DB, conferenceID, userID string) ([]*models.ReviewAssignment, error)

	// Review artifact operations
	CreateReview(ctx context.Context, tx *gorm.DB, review *models.Review) error
	GetReviewByID(ctx context.Context, tx *gorm.DB, id string) (*models.Review, error)
	GetReviewByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Review, error)
	UpdateReview(ctx context.Context, tx *gorm.DB, review *models.Review) error
}

// DecisionRepository is the chair-side counterpart of ReviewRepository.
type DecisionRepository interface {
	CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.DecisionAssignment) error
	GetAssignmentByID(ctx context.Context, tx *gorm.DB, id string) (*models.DecisionAssignment, error)
	DeleteAssignment(ctx context.Context, tx *gorm.DB, id string) error
	UpdateDueDate(ctx context.Context, tx *gorm.DB, id string, dueDate time.Time) error
	AssignmentExists(ctx context.Context, tx *gorm.DB, submissionID, chairRoleID string) (bool, error)

	ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters AssignmentFilters) ([]*models.DecisionAssignment, error)
	ListByAssignee(ctx context.Context, tx *gorm.DB, conferenceID, userID string) ([]*models.DecisionAssignment, error)

	CreateDecision(ctx context.Context, tx *gorm.DB, decision *models.Decision) error
	GetDecisionByID(ctx context.Context, tx *gorm.DB, id string) (*models.Decision, error)
	GetDecisionByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Decision, error)
	UpdateDecision(ctx context.Context, tx *gorm.DB, decision *models.Decision) error
}
