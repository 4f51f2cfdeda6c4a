package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

type DecisionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewDecisionPostgreSQL(db *gorm.DB) repositories.DecisionRepository {
	return &DecisionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (d *DecisionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

// CreateAssignment creates a decision assignment. The unique index on
// (submission_id, chair_role_id) surfaces duplicates as a key conflict.
func (d *DecisionPostgreSQL) CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.DecisionAssignment) error {
	if err := d.getDB(tx).WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create decision assignment: %w", err)
	}
	return nil
}

func (d *DecisionPostgreSQL) GetAssignmentByID(ctx context.Context, tx *gorm.DB, id string) (*models.DecisionAssignment, error) {
	var assignment models.DecisionAssignment
	err := d.getDB(tx).WithContext(ctx).
		Preload("Decision").
		Preload("ChairRole").
		Preload("ChairRole.User").
		Preload("Submission").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	assignment.IsDecided = assignment.Decision != nil
	return &assignment, nil
}

func (d *DecisionPostgreSQL) DeleteAssignment(ctx context.Context, tx *gorm.DB, id string) error {
	db := d.getDB(tx).WithContext(ctx)

	if err := db.Where("assignment_id = ?", id).Delete(&models.Decision{}).Error; err != nil {
		return fmt.Errorf("failed to delete decision artifact: %w", err)
	}
	result := db.Delete(&models.DecisionAssignment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete decision assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *DecisionPostgreSQL) UpdateDueDate(ctx context.Context, tx *gorm.DB, id string, dueDate time.Time) error {
	result := d.getDB(tx).WithContext(ctx).
		Model(&models.DecisionAssignment{}).
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

func (d *DecisionPostgreSQL) AssignmentExists(ctx context.Context, tx *gorm.DB, submissionID, chairRoleID string) (bool, error) {
	var count int64
	err := d.getDB(tx).WithContext(ctx).
		Model(&models.DecisionAssignment{}).
		Where("submission_id = ? AND chair_role_id = ?", submissionID, chairRoleID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}

func (d *DecisionPostgreSQL) ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters repositories.AssignmentFilters) ([]*models.DecisionAssignment, error) {
	var assignments []*models.DecisionAssignment
	query := d.getDB(tx).WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = decision_assignments.submission_id").
		Where("submissions.conference_id = ?", conferenceID)

	if filters.SubmissionID != nil {
		query = query.Where("decision_assignments.submission_id = ?", *filters.SubmissionID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.
		Preload("Decision").
		Preload("ChairRole").
		Preload("ChairRole.User").
		Preload("Submission").
		Order("decision_assignments.created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list decision assignments: %w", err)
	}

	for _, a := range assignments {
		a.IsDecided = a.Decision != nil
	}
	return assignments, nil
}

func (d *DecisionPostgreSQL) ListByAssignee(ctx context.Context, tx *gorm.DB, conferenceID, userID string) ([]*models.DecisionAssignment, error) {
	var assignments []*models.DecisionAssignment
	err := d.getDB(tx).WithContext(ctx).
		Joins("JOIN "+roleTable+" ON "+roleTable+".id = decision_assignments.chair_role_id").
		Where(roleTable+".conference_id = ? AND "+roleTable+".user_id = ?", conferenceID, userID).
		Preload("Decision").
		Preload("Submission").
		Preload("Submission.Authors").
		Order("decision_assignments.due_date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignee decisions: %w", err)
	}

	for _, a := range assignments {
		a.IsDecided = a.Decision != nil
	}
	return assignments, nil
}

// CreateDecision records the decision artifact. The unique index on
// assignment_id enforces one decision per assignment.
func (d *DecisionPostgreSQL) CreateDecision(ctx context.Context, tx *gorm.DB, decision *models.Decision) error {
	if err := d.getDB(tx).WithContext(ctx).Create(decision).Error; err != nil {
		return fmt.Errorf("failed to create decision: %w", err)
	}
	return nil
}

func (d *DecisionPostgreSQL) GetDecisionByID(ctx context.Context, tx *gorm.DB, id string) (*models.Decision, error) {
	var decision models.Decision
	err := d.getDB(tx).WithContext(ctx).
		First(&decision, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

func (d *DecisionPostgreSQL) GetDecisionByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Decision, error) {
	var decision models.Decision
	err := d.getDB(tx).WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		First(&decision).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

func (d *DecisionPostgreSQL) UpdateDecision(ctx context.Context, tx *gorm.DB, decision *models.Decision) error {
	if err := d.getDB(tx).WithContext(ctx).Save(decision).Error; err != nil {
		return fmt.Errorf("failed to update decision: %w", err)
	}
	return nil
}
