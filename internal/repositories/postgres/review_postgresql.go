package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

type ReviewPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewReviewPostgreSQL(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *ReviewPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// CreateAssignment creates a review assignment. The unique index on
// (submission_id, reviewer_role_id) surfaces duplicates as a key conflict.
func (r *ReviewPostgreSQL) CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.ReviewAssignment) error {
	if err := r.getDB(tx).WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create review assignment: %w", err)
	}
	return nil
}

// GetAssignmentByID retrieves an assignment with its review, reviewer role
// entry and submission
func (r *ReviewPostgreSQL) GetAssignmentByID(ctx context.Context, tx *gorm.DB, id string) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	err := r.getDB(tx).WithContext(ctx).
		Preload("Review").
		Preload("ReviewerRole").
		Preload("ReviewerRole.User").
		Preload("Submission").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	assignment.IsReviewed = assignment.Review != nil
	return &assignment, nil
}

// DeleteAssignment removes an assignment; its review artifact, if any, is
// removed with it
func (r *ReviewPostgreSQL) DeleteAssignment(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.getDB(tx).WithContext(ctx)

	if err := db.Where("assignment_id = ?", id).Delete(&models.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete review artifact: %w", err)
	}
	result := db.Delete(&models.ReviewAssignment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateDueDate updates only the assignment due date
func (r *ReviewPostgreSQL) UpdateDueDate(ctx context.Context, tx *gorm.DB, id string, dueDate time.Time) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.ReviewAssignment{}).
		Where("id = ?", id).
		Update("due_date", dueDate)
	if result.Error != nil {
		return fmt.Errorf("failed to update due date: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssignmentExists checks whether a (submission, reviewer role) pair is
// already assigned
func (r *ReviewPostgreSQL) AssignmentExists(ctx context.Context, tx *gorm.DB, submissionID, reviewerRoleID string) (bool, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.ReviewAssignment{}).
		Where("submission_id = ? AND reviewer_role_id = ?", submissionID, reviewerRoleID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}

// ListByConference returns all review assignments for a conference
func (r *ReviewPostgreSQL) ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters repositories.AssignmentFilters) ([]*models.ReviewAssignment, error) {
	var assignments []*models.ReviewAssignment
	query := r.getDB(tx).WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = review_assignments.submission_id").
		Where("submissions.conference_id = ?", conferenceID)

	if filters.SubmissionID != nil {
		query = query.Where("review_assignments.submission_id = ?", *filters.SubmissionID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.
		Preload("Review").
		Preload("ReviewerRole").
		Preload("ReviewerRole.User").
		Preload("Submission").
		Order("review_assignments.created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list review assignments: %w", err)
	}

	for _, a := range assignments {
		a.IsReviewed = a.Review != nil
	}
	return assignments, nil
}

// ListByAssignee returns a reviewer's assignments within a conference
func (r *ReviewPostgreSQL) ListByAssignee(ctx context.Context, tx *gorm.DB, conferenceID, userID string) ([]*models.ReviewAssignment, error) {
	var assignments []*models.ReviewAssignment
	err := r.getDB(tx).WithContext(ctx).
		Joins("JOIN "+roleTable+" ON "+roleTable+".id = review_assignments.reviewer_role_id").
		Where(roleTable+".conference_id = ? AND "+roleTable+".user_id = ?", conferenceID, userID).
		Preload("Review").
		Preload("Submission").
		Preload("Submission.Authors").
		Order("review_assignments.due_date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignee reviews: %w", err)
	}

	for _, a := range assignments {
		a.IsReviewed = a.Review != nil
	}
	return assignments, nil
}

// CreateReview records the review artifact. The unique index on
// assignment_id enforces one review per assignment.
func (r *ReviewPostgreSQL) CreateReview(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	if err := r.getDB(tx).WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *ReviewPostgreSQL) GetReviewByID(ctx context.Context, tx *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := r.getDB(tx).WithContext(ctx).
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewPostgreSQL) GetReviewByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Review, error) {
	var review models.Review
	err := r.getDB(tx).WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewPostgreSQL) UpdateReview(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	if err := r.getDB(tx).WithContext(ctx).Save(review).Error; err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}
