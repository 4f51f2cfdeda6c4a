package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recommendation string

const (
	RecommendAccepted Recommendation = "ACCEPTED"
	RecommendRevision Recommendation = "REVISION"
	RecommendRejected Recommendation = "REJECTED"
)

type ReviewDecision string

const (
	DecisionAccept        ReviewDecision = "ACCEPT"
	DecisionMajorRevision ReviewDecision = "MAJOR_REVISION"
	DecisionMinorRevision ReviewDecision = "MINOR_REVISION"
	DecisionReject        ReviewDecision = "REJECT"
)

// ReviewAssignment pairs a submission with the reviewer role entry expected
// to produce a Review by the due date. The unique index backs the
// at-most-one-assignment-per-pair invariant at the store level.
type ReviewAssignment struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	SubmissionID   string    `json:"submission_id" gorm:"not null;size:36;uniqueIndex:idx_review_assignment_pair,priority:1"`
	ReviewerRoleID string    `json:"reviewer_role_id" gorm:"not null;size:36;uniqueIndex:idx_review_assignment_pair,priority:2"`
	AssignedByID   string    `json:"assigned_by_id" gorm:"not null;size:36"`
	DueDate        time.Time `json:"due_date" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Submission   Submission          `json:"submission" gorm:"foreignKey:SubmissionID"`
	ReviewerRole ConferenceRoleEntry `json:"reviewer_role" gorm:"foreignKey:ReviewerRoleID"`
	AssignedBy   ConferenceRoleEntry `json:"assigned_by" gorm:"foreignKey:AssignedByID"`
	Review       *Review             `json:"review,omitempty" gorm:"foreignKey:AssignmentID"`

	// Derived from the Review relation, not stored.
	IsReviewed bool `json:"is_reviewed" gorm:"-"`
}

func (a *ReviewAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// DecisionAssignment is the chair-side counterpart of ReviewAssignment.
type DecisionAssignment struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	SubmissionID string    `json:"submission_id" gorm:"not null;size:36;uniqueIndex:idx_decision_assignment_pair,priority:1"`
	ChairRoleID  string    `json:"chair_role_id" gorm:"not null;size:36;uniqueIndex:idx_decision_assignment_pair,priority:2"`
	AssignedByID string    `json:"assigned_by_id" gorm:"not null;size:36"`
	DueDate      time.Time `json:"due_date" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Submission Submission          `json:"submission" gorm:"foreignKey:SubmissionID"`
	ChairRole  ConferenceRoleEntry `json:"chair_role" gorm:"foreignKey:ChairRoleID"`
	AssignedBy ConferenceRoleEntry `json:"assigned_by" gorm:"foreignKey:AssignedByID"`
	Decision   *Decision           `json:"decision,omitempty" gorm:"foreignKey:AssignmentID"`

	IsDecided bool `json:"is_decided" gorm:"-"`
}

func (a *DecisionAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Review is the terminal artifact of a ReviewAssignment; at most one per
// assignment (unique index on AssignmentID).
type Review struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	AssignmentID string `json:"assignment_id" gorm:"not null;size:36;uniqueIndex"`

	Recommendation    Recommendation `json:"recommendation" gorm:"not null;size:20"`
	OverallScore      int            `json:"overall_score" gorm:"not null" validate:"required,min=1,max=10"`
	OverallEvaluation string         `json:"overall_evaluation" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignment ReviewAssignment `json:"-" gorm:"foreignKey:AssignmentID"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Decision is the terminal artifact of a DecisionAssignment. Submitting one
// drives the submission's terminal status transition.
type Decision struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	AssignmentID string `json:"assignment_id" gorm:"not null;size:36;uniqueIndex"`

	ReviewDecision ReviewDecision `json:"review_decision" gorm:"not null;size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignment DecisionAssignment `json:"-" gorm:"foreignKey:AssignmentID"`
}

func (d *Decision) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// SubmissionStatusFor maps a recorded decision to the submission status it
// produces. Both revision grades collapse into REVISION.
func (d ReviewDecision) SubmissionStatus() SubmissionStatus {
	switch d {
	case DecisionAccept:
		return SubmissionAccepted
	case DecisionReject:
		return SubmissionRejected
	default:
		return SubmissionRevision
	}
}

func (ReviewAssignment) TableName() string {
	return "review_assignments"
}

func (DecisionAssignment) TableName() string {
	return "decision_assignments"
}

func (Review) TableName() string {
	return "reviews"
}

func (Decision) TableName() string {
	return "decisions"
}
