package validator

import (
	"time"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

// ConferenceCreateRequest represents the request structure for creating conferences
type ConferenceCreateRequest struct {
	Title         string               `json:"title" validate:"required,conference_title"`
	Acronym       string               `json:"acronym" validate:"required,min=1,max=30"`
	Description   string               `json:"description" validate:"omitempty,max=5000"`
	Location      string               `json:"location" validate:"omitempty,max=200"`
	CallForPapers string               `json:"call_for_papers" validate:"required"`
	WebsiteURL    *string              `json:"website_url" validate:"omitempty,url"`
	IsPublic      bool                 `json:"is_public"`
	ResearchAreas models.ResearchAreas `json:"research_areas" validate:"required,research_areas"`

	AbstractDeadline    *time.Time `json:"abstract_deadline"`
	SubmissionDeadline  time.Time  `json:"submission_deadline" validate:"required"`
	CameraReadyDeadline time.Time  `json:"camera_ready_deadline" validate:"required"`
	StartDate           time.Time  `json:"start_date" validate:"required"`
	EndDate             time.Time  `json:"end_date" validate:"required"`
}

// ConferenceUpdateRequest represents the request structure for updating conferences
type ConferenceUpdateRequest struct {
	Title         *string              `json:"title" validate:"omitempty,conference_title"`
	Acronym       *string              `json:"acronym" validate:"omitempty,min=1,max=30"`
	Description   *string              `json:"description" validate:"omitempty,max=5000"`
	Location      *string              `json:"location" validate:"omitempty,max=200"`
	CallForPapers *string              `json:"call_for_papers"`
	WebsiteURL    *string              `json:"website_url" validate:"omitempty,url"`
	IsPublic      *bool                `json:"is_public"`
	ResearchAreas models.ResearchAreas `json:"research_areas" validate:"omitempty,research_areas"`

	AbstractDeadline    *time.Time `json:"abstract_deadline"`
	SubmissionDeadline  *time.Time `json:"submission_deadline"`
	CameraReadyDeadline *time.Time `json:"camera_ready_deadline"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
}

// SubmissionCreateRequest represents a paper submission
type SubmissionCreateRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=300"`
	Abstract      string   `json:"abstract" validate:"required,min=1,max=10000"`
	PrimaryArea   string   `json:"primary_area" validate:"required"`
	SecondaryArea string   `json:"secondary_area" validate:"required"`
	Keywords      []string `json:"keywords" validate:"required,min=1,max=10,dive,min=1,max=50"`
	FileURL       string   `json:"file_url" validate:"required,url"`
	FileName      string   `json:"file_name" validate:"required,max=255"`
}

// SubmissionUpdateRequest represents an owner edit of a submission
type SubmissionUpdateRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=1,max=300"`
	Abstract      *string  `json:"abstract" validate:"omitempty,min=1,max=10000"`
	PrimaryArea   *string  `json:"primary_area"`
	SecondaryArea *string  `json:"secondary_area"`
	Keywords      []string `json:"keywords" validate:"omitempty,max=10,dive,min=1,max=50"`
	FileURL       *string  `json:"file_url" validate:"omitempty,url"`
	FileName      *string  `json:"file_name" validate:"omitempty,max=255"`
}

// SubmissionAuthorRequest is one entry of a wholesale author-list replace.
type SubmissionAuthorRequest struct {
	ID              *string `json:"id"`
	UserID          *string `json:"user_id"`
	Name            string  `json:"name" validate:"required,max=200"`
	Email           string  `json:"email" validate:"required,email"`
	Affiliation     string  `json:"affiliation" validate:"omitempty,max=200"`
	Country         string  `json:"country" validate:"omitempty,max=100"`
	IsCorresponding bool    `json:"is_corresponding"`
}

// AssignmentCreateRequest covers both review and decision assignments.
type AssignmentCreateRequest struct {
	SubmissionID   string    `json:"submission_id" validate:"required"`
	AssigneeUserID string    `json:"assignee_user_id" validate:"required"`
	DueDate        time.Time `json:"due_date" validate:"required"`
}

// ReviewSubmitRequest records a review against an assignment
type ReviewSubmitRequest struct {
	AssignmentID      string                `json:"assignment_id" validate:"required"`
	Recommendation    models.Recommendation `json:"recommendation" validate:"required,recommendation"`
	OverallScore      int                   `json:"overall_score" validate:"required,overall_score"`
	OverallEvaluation string                `json:"overall_evaluation" validate:"required,evaluation_length"`
}

// ReviewUpdateRequest edits an existing review
type ReviewUpdateRequest struct {
	Recommendation    *models.Recommendation `json:"recommendation" validate:"omitempty,recommendation"`
	OverallScore      *int                   `json:"overall_score" validate:"omitempty,overall_score"`
	OverallEvaluation *string                `json:"overall_evaluation" validate:"omitempty,evaluation_length"`
}

// DecisionSubmitRequest records a decision against an assignment
type DecisionSubmitRequest struct {
	AssignmentID   string                `json:"assignment_id" validate:"required"`
	ReviewDecision models.ReviewDecision `json:"review_decision" validate:"required,review_decision"`
}

// DecisionUpdateRequest edits an existing decision
type DecisionUpdateRequest struct {
	ReviewDecision models.ReviewDecision `json:"review_decision" validate:"required,review_decision"`
}

// InviteRequest offers a conference role to a user
type InviteRequest struct {
	UserID  string                `json:"user_id" validate:"required"`
	Role    models.ConferenceRole `json:"role" validate:"required,conference_role"`
	Message string                `json:"message" validate:"omitempty,max=2000"`
}

// InvitationRespondRequest accepts or refuses a pending invitation
type InvitationRespondRequest struct {
	Response models.InvitationStatus `json:"response" validate:"required,oneof=ACCEPTED REFUSED"`
}

// NotificationUpdateRequest flips notification flags; all optional.
type NotificationUpdateRequest struct {
	IsRead     *bool `json:"is_read"`
	IsArchived *bool `json:"is_archived"`
	IsDeleted  *bool `json:"is_deleted"`
}
