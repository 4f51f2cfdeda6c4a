package services

import (
	"context"
	"time"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateConferenceRequest = validator.ConferenceCreateRequest
type UpdateConferenceRequest = validator.ConferenceUpdateRequest
type CreateSubmissionRequest = validator.SubmissionCreateRequest
type UpdateSubmissionRequest = validator.SubmissionUpdateRequest
type SubmissionAuthorRequest = validator.SubmissionAuthorRequest
type CreateAssignmentRequest = validator.AssignmentCreateRequest
type SubmitReviewRequest = validator.ReviewSubmitRequest
type UpdateReviewRequest = validator.ReviewUpdateRequest
type SubmitDecisionRequest = validator.DecisionSubmitRequest
type UpdateDecisionRequest = validator.DecisionUpdateRequest
type InviteRequest = validator.InviteRequest
type RespondInvitationRequest = validator.InvitationRespondRequest
type UpdateNotificationRequest = validator.NotificationUpdateRequest

type ConferenceResponse struct {
	*models.Conference
	CanEdit   bool `json:"can_edit"`
	CanManage bool `json:"can_manage"`
}

type ConferenceListResponse struct {
	Conferences []*ConferenceResponse `json:"conferences"`
	Total       int64                 `json:"total"`
}

type ModerateConferenceRequest struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason" validate:"omitempty,max=2000"`
}

type SubmissionResponse struct {
	*models.Submission
	CanEdit bool `json:"can_edit"`
}

type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	Total       int64                 `json:"total"`
}

type UpdateDueDateRequest struct {
	DueDate time.Time `json:"due_date" validate:"required"`
}

type ParticipantResponse struct {
	RoleEntryID string                `json:"role_entry_id"`
	Role        models.ConferenceRole `json:"role"`
	User        *models.User          `json:"user"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
}

// ===== SERVICE INTERFACES =====

type ConferenceService interface {
	Create(ctx context.Context, req *CreateConferenceRequest, creatorID string) (*ConferenceResponse, error)
	GetByID(ctx context.Context, id, userID string) (*ConferenceResponse, error)
	Update(ctx context.Context, id string, req *UpdateConferenceRequest, userID string) (*ConferenceResponse, error)
	Moderate(ctx context.Context, id string, req *ModerateConferenceRequest, adminID string) (*ConferenceResponse, error)

	List(ctx context.Context, filters repositories.ConferenceFilters, userID string) (*ConferenceListResponse, error)
	ListMine(ctx context.Context, userID string, filters repositories.ConferenceFilters) (*ConferenceListResponse, error)
	ListPending(ctx context.Context, adminID string, filters repositories.ConferenceFilters) (*ConferenceListResponse, error)

	GetStats(ctx context.Context, id, userID string) (*repositories.ConferenceStats, error)
	GetParticipants(ctx context.Context, id, userID string) ([]*ParticipantResponse, error)
	RevokeRole(ctx context.Context, conferenceID, roleEntryID, userID string) error
}

type SubmissionService interface {
	Create(ctx context.Context, conferenceID string, req *CreateSubmissionRequest, authors []SubmissionAuthorRequest, userID string) (*SubmissionResponse, error)
	GetByID(ctx context.Context, id, userID string) (*SubmissionResponse, error)
	Update(ctx context.Context, id string, req *UpdateSubmissionRequest, userID string) (*SubmissionResponse, error)
	UpdateAuthors(ctx context.Context, id string, authors []SubmissionAuthorRequest, userID string) (*SubmissionResponse, error)

	ListByConference(ctx context.Context, conferenceID string, filters repositories.SubmissionFilters, userID string) (*SubmissionListResponse, error)
	ListMine(ctx context.Context, userID string, filters repositories.SubmissionFilters) (*SubmissionListResponse, error)
}

type ReviewService interface {
	CreateAssignment(ctx context.Context, conferenceID string, req *CreateAssignmentRequest, userID string) (*models.ReviewAssignment, error)
	RemoveAssignment(ctx context.Context, assignmentID, userID string) error
	UpdateDueDate(ctx context.Context, assignmentID string, req *UpdateDueDateRequest, userID string) (*models.ReviewAssignment, error)
	ListByConference(ctx context.Context, conferenceID string, filters repositories.AssignmentFilters, userID string) ([]*models.ReviewAssignment, error)
	ListMine(ctx context.Context, conferenceID, userID string) ([]*models.ReviewAssignment, error)

	SubmitReview(ctx context.Context, req *SubmitReviewRequest, userID string) (*models.Review, error)
	UpdateReview(ctx context.Context, reviewID string, req *UpdateReviewRequest, userID string) (*models.Review, error)
	GetReview(ctx context.Context, reviewID, userID string) (*models.Review, error)
}

type DecisionService interface {
	CreateAssignment(ctx context.Context, conferenceID string, req *CreateAssignmentRequest, userID string) (*models.DecisionAssignment, error)
	RemoveAssignment(ctx context.Context, assignmentID, userID string) error
	UpdateDueDate(ctx context.Context, assignmentID string, req *UpdateDueDateRequest, userID string) (*models.DecisionAssignment, error)
	ListByConference(ctx context.Context, conferenceID string, filters repositories.AssignmentFilters, userID string) ([]*models.DecisionAssignment, error)
	ListMine(ctx context.Context, conferenceID, userID string) ([]*models.DecisionAssignment, error)

	SubmitDecision(ctx context.Context, req *SubmitDecisionRequest, userID string) (*models.Decision, error)
	UpdateDecision(ctx context.Context, decisionID string, req *UpdateDecisionRequest, userID string) (*models.Decision, error)
	GetDecision(ctx context.Context, decisionID, userID string) (*models.Decision, error)
}

type InvitationService interface {
	Invite(ctx context.Context, conferenceID string, req *InviteRequest, inviterID string) (*models.Invitation, error)
	Respond(ctx context.Context, invitationID string, req *RespondInvitationRequest, userID string) (*models.Invitation, error)
	GetByID(ctx context.Context, invitationID, userID string) (*models.Invitation, error)
}

type NotificationService interface {
	ListMine(ctx context.Context, userID string, filters repositories.NotificationFilters) (*NotificationListResponse, error)
	UpdateFlags(ctx context.Context, notificationID string, req *UpdateNotificationRequest, userID string) (*models.Notification, error)

	// Notify persists a notification, publishes its event and sends any
	// email, best effort. Storage failures are returned; side-channel
	// failures are only logged.
	Notify(ctx context.Context, notification *models.Notification) error
	NotifyAll(ctx context.Context, notifications []*models.Notification)
}

type ExportService interface {
	ExportSubmissions(ctx context.Context, conferenceID, userID string) ([]byte, string, error)
}

type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
}

// ServiceManager provides access to all services
type ServiceManager interface {
	Conference() ConferenceService
	Submission() SubmissionService
	Review() ReviewService
	Decision() DecisionService
	Invitation() InvitationService
	Notification() NotificationService
	Export() ExportService
	User() UserService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
