package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type reviewService struct {
	repo          repositories.Repository
	db            *gorm.DB
	logger        *slog.Logger
	validator     *validator.Validator
	notifications NotificationService
}

func NewReviewService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifications NotificationService) ReviewService {
	return &reviewService{
		repo:          repo,
		db:            db,
		logger:        logger,
		validator:     validator,
		notifications: notifications,
	}
}

// ===== ASSIGNMENT OPERATIONS =====

func (s *reviewService) CreateAssignment(ctx context.Context, conferenceID string, req *CreateAssignmentRequest, userID string) (*models.ReviewAssignment, error) {
	s.logger.Info("Creating review assignment",
		"conference_id", conferenceID, "submission_id", req.SubmissionID, "assignee", req.AssigneeUserID, "user_id", userID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	assignerEntry, err := s.requireMainChairEntry(ctx, conferenceID, userID)
	if err != nil {
		return nil, err
	}

	if !req.DueDate.After(time.Now()) {
		return nil, NewServiceError(ErrCodeBadRequest, "due date must be in the future")
	}

	submission, err := s.repo.Submission().GetByID(ctx, nil, req.SubmissionID)
	if err != nil {
		return nil, notFoundOr(err, ErrSubmissionNotFound)
	}
	if submission.ConferenceID != conferenceID {
		return nil, ErrSubmissionNotFound
	}
	if submission.Status != models.SubmissionUnderReview && submission.Status != models.SubmissionRevision {
		return nil, NewServiceError(ErrCodeConflict, "submission is not open for review")
	}

	// The assignee may hold any invited role in the conference; their
	// reviewer entry is preferred when several are held
	entries, err := s.repo.Role().GetByUserAndConference(ctx, nil, req.AssigneeUserID, conferenceID)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	if len(entries) == 0 {
		return nil, NewServiceError(ErrCodeBadRequest, "assignee holds no role in this conference")
	}
	reviewerEntry := entries[0]
	for _, entry := range entries {
		if entry.Role == models.RoleReviewer {
			reviewerEntry = entry
			break
		}
	}

	exists, err := s.repo.Review().AssignmentExists(ctx, nil, req.SubmissionID, reviewerEntry.ID)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "assignment check failed", err)
	}
	if exists {
		return nil, NewServiceError(ErrCodeConflict, "submission is already assigned to this reviewer")
	}

	assignment := &models.ReviewAssignment{
		SubmissionID:   req.SubmissionID,
		ReviewerRoleID: reviewerEntry.ID,
		AssignedByID:   assignerEntry.ID,
		DueDate:        req.DueDate,
	}
	if err := s.repo.Review().CreateAssignment(ctx, nil, assignment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewServiceError(ErrCodeConflict, "submission is already assigned to this reviewer")
		}
		return nil, WrapServiceError(ErrCodeInternal, "assignment creation failed", err)
	}

	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:  reviewerEntry.UserID,
		Type:    models.NotificationAssignmentCreated,
		Title:   "New review assignment",
		Message: fmt.Sprintf("You have been assigned to review %q, due %s.", submission.Title, req.DueDate.Format("2006-01-02")),
	}})

	return assignment, nil
}

// RemoveAssignment deletes an assignment; once a review has been recorded
// the assignment is frozen
func (s *reviewService) RemoveAssignment(ctx context.Context, assignmentID, userID string) error {
	s.logger.Info("Removing review assignment", "assignment_id", assignmentID, "user_id", userID)

	assignment, err := s.repo.Review().GetAssignmentByID(ctx, nil, assignmentID)
	if err != nil {
		return notFoundOr(err, ErrAssignmentNotFound)
	}

	conferenceID := assignment.ReviewerRole.ConferenceID
	if _, err := s.requireChairEntry(ctx, conferenceID, userID); err != nil {
		return err
	}

	if assignment.Review != nil {
		return NewServiceError(ErrCodeConflict, "cannot remove an assignment with a recorded review")
	}

	if err := s.repo.Review().DeleteAssignment(ctx, nil, assignmentID); err != nil {
		return WrapServiceError(ErrCodeInternal, "assignment removal failed", err)
	}

	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:  assignment.ReviewerRole.UserID,
		Type:    models.NotificationAssignmentRemoved,
		Title:   "Review assignment withdrawn",
		Message: fmt.Sprintf("Your review assignment for %q was withdrawn.", assignment.Submission.Title),
	}})

	return nil
}

func (s *reviewService) UpdateDueDate(ctx context.Context, assignmentID string, req *UpdateDueDateRequest, userID string) (*models.ReviewAssignment, error) {
	assignment, err := s.repo.Review().GetAssignmentByID(ctx, nil, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}

	if _, err := s.requireChairEntry(ctx, assignment.ReviewerRole.ConferenceID, userID); err != nil {
		return nil, err
	}

	if !req.DueDate.After(time.Now()) {
		return nil, NewServiceError(ErrCodeBadRequest, "due date must be in the future")
	}

	if err := s.repo.Review().UpdateDueDate(ctx, nil, assignmentID, req.DueDate); err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "due date update failed", err)
	}
	assignment.DueDate = req.DueDate

	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:  assignment.ReviewerRole.UserID,
		Type:    models.NotificationAssignmentDueDate,
		Title:   "Review due date changed",
		Message: fmt.Sprintf("The review of %q is now due %s.", assignment.Submission.Title, req.DueDate.Format("2006-01-02")),
	}})

	return assignment, nil
}

func (s *reviewService) ListByConference(ctx context.Context, conferenceID string, filters repositories.AssignmentFilters, userID string) ([]*models.ReviewAssignment, error) {
	if _, err := s.requireChairEntry(ctx, conferenceID, userID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Review().ListByConference(ctx, nil, conferenceID, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "assignment listing failed", err)
	}
	return assignments, nil
}

func (s *reviewService) ListMine(ctx context.Context, conferenceID, userID string) ([]*models.ReviewAssignment, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Review().ListByAssignee(ctx, nil, conferenceID, userID)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "assignment listing failed", err)
	}
	return assignments, nil
}

// ===== REVIEW ARTIFACT OPERATIONS =====

func (s *reviewService) SubmitReview(ctx context.Context, req *SubmitReviewRequest, userID string) (*models.Review, error) {
	s.logger.Info("Submitting review", "assignment_id", req.AssignmentID, "user_id", userID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	assignment, err := s.repo.Review().GetAssignmentByID(ctx, nil, req.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}

	if assignment.ReviewerRole.UserID != userID {
		return nil, NewPermissionError(userID, req.AssignmentID, "assignment", "review", "not the assigned reviewer")
	}
	if assignment.Review != nil {
		return nil, NewServiceError(ErrCodeConflict, "assignment already has a review")
	}

	review := &models.Review{
		AssignmentID:      req.AssignmentID,
		Recommendation:    req.Recommendation,
		OverallScore:      req.OverallScore,
		OverallEvaluation: req.OverallEvaluation,
	}
	if err := s.repo.Review().CreateReview(ctx, nil, review); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewServiceError(ErrCodeConflict, "assignment already has a review")
		}
		return nil, WrapServiceError(ErrCodeInternal, "review creation failed", err)
	}

	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, req *UpdateReviewRequest, userID string) (*models.Review, error) {
	s.logger.Info("Updating review", "review_id", reviewID, "user_id", userID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	review, err := s.repo.Review().GetReviewByID(ctx, nil, reviewID)
	if err != nil {
		return nil, notFoundOr(err, ErrReviewNotFound)
	}

	assignment, err := s.repo.Review().GetAssignmentByID(ctx, nil, review.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}
	if assignment.ReviewerRole.UserID != userID {
		return nil, NewPermissionError(userID, reviewID, "review", "update", "not the review author")
	}

	// Reviews freeze once the submission leaves the review pipeline
	switch assignment.Submission.Status {
	case models.SubmissionUnderReview, models.SubmissionRevision:
	default:
		return nil, NewServiceError(ErrCodeConflict, "submission has been decided; review is frozen")
	}

	if req.Recommendation != nil {
		review.Recommendation = *req.Recommendation
	}
	if req.OverallScore != nil {
		review.OverallScore = *req.OverallScore
	}
	if req.OverallEvaluation != nil {
		review.OverallEvaluation = *req.OverallEvaluation
	}

	if err := s.repo.Review().UpdateReview(ctx, nil, review); err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "review update failed", err)
	}
	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, reviewID, userID string) (*models.Review, error) {
	review, err := s.repo.Review().GetReviewByID(ctx, nil, reviewID)
	if err != nil {
		return nil, notFoundOr(err, ErrReviewNotFound)
	}

	assignment, err := s.repo.Review().GetAssignmentByID(ctx, nil, review.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}

	if assignment.ReviewerRole.UserID == userID {
		return review, nil
	}
	if _, err := s.requireChairEntry(ctx, assignment.ReviewerRole.ConferenceID, userID); err != nil {
		return nil, NewPermissionError(userID, reviewID, "review", "read", "not the author or a chair")
	}
	return review, nil
}

// requireChairEntry checks for chair authority in the conference and
// returns the acting role entry (main chair wins when both are held)
func (s *reviewService) requireChairEntry(ctx context.Context, conferenceID, userID string) (*models.ConferenceRoleEntry, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	entries, err := s.repo.Role().GetByUserAndConference(ctx, nil, userID, conferenceID)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}

	var chair *models.ConferenceRoleEntry
	for _, entry := range entries {
		switch entry.Role {
		case models.RoleMainChair:
			return entry, nil
		case models.RoleChair:
			chair = entry
		}
	}
	if chair != nil {
		return chair, nil
	}
	return nil, NewPermissionError(userID, conferenceID, "conference", "manage_assignments", "chair role required")
}

// requireMainChairEntry is the stricter gate for assignment creation
func (s *reviewService) requireMainChairEntry(ctx context.Context, conferenceID, userID string) (*models.ConferenceRoleEntry, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	entry, err := s.repo.Role().GetEntry(ctx, nil, userID, conferenceID, models.RoleMainChair)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(userID, conferenceID, "conference", "create_assignments", "main chair role required")
		}
		return nil, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	return entry, nil
}
