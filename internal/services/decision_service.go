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

type decisionService struct {
	repo          repositories.Repository
	db            *gorm.DB
	logger        *slog.Logger
	validator     *validator.Validator
	notifications NotificationService
}

func NewDecisionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifications NotificationService) DecisionService {
	return &decisionService{
		repo:          repo,
		db:            db,
		logger:        logger,
		validator:     validator,
		notifications: notifications,
	}
}

// ===== ASSIGNMENT OPERATIONS =====

func (s *decisionService) CreateAssignment(ctx context.Context, conferenceID string, req *CreateAssignmentRequest, userID string) (*models.DecisionAssignment, error) {
	s.logger.Info("Creating decision assignment",
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

	// Decisions are made by chairs; a main chair may also be the assignee
	entries, err := s.repo.Role().GetByUserAndConference(ctx, nil, req.AssigneeUserID, conferenceID)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	var chairEntry *models.ConferenceRoleEntry
	for _, entry := range entries {
		switch entry.Role {
		case models.RoleChair:
			chairEntry = entry
		case models.RoleMainChair:
			if chairEntry == nil {
				chairEntry = entry
			}
		}
	}
	if chairEntry == nil {
		return nil, NewServiceError(ErrCodeBadRequest, "assignee is not a chair of this conference")
	}

	exists, err := s.repo.Decision().AssignmentExists(ctx, nil, req.SubmissionID, chairEntry.ID)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "assignment check failed", err)
	}
	if exists {
		return nil, NewServiceError(ErrCodeConflict, "submission is already assigned to this chair")
	}

	assignment := &models.DecisionAssignment{
		SubmissionID: req.SubmissionID,
		ChairRoleID:  chairEntry.ID,
		AssignedByID: assignerEntry.ID,
		DueDate:      req.DueDate,
	}
	if err := s.repo.Decision().CreateAssignment(ctx, nil, assignment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewServiceError(ErrCodeConflict, "submission is already assigned to this chair")
		}
		return nil, WrapServiceError(ErrCodeInternal, "assignment creation failed", err)
	}

	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:  chairEntry.UserID,
		Type:    models.NotificationAssignmentCreated,
		Title:   "New decision assignment",
		Message: fmt.Sprintf("You have been assigned to decide on %q, due %s.", submission.Title, req.DueDate.Format("2006-01-02")),
	}})

	return assignment, nil
}

func (s *decisionService) RemoveAssignment(ctx context.Context, assignmentID, userID string) error {
	s.logger.Info("Removing decision assignment", "assignment_id", assignmentID, "user_id", userID)

	assignment, err := s.repo.Decision().GetAssignmentByID(ctx, nil, assignmentID)
	if err != nil {
		return notFoundOr(err, ErrAssignmentNotFound)
	}

	if _, err := s.requireMainChairEntry(ctx, assignment.ChairRole.ConferenceID, userID); err != nil {
		return err
	}

	if assignment.Decision != nil {
		return NewServiceError(ErrCodeConflict, "cannot remove an assignment with a recorded decision")
	}

	if err := s.repo.Decision().DeleteAssignment(ctx, nil, assignmentID); err != nil {
		return WrapServiceError(ErrCodeInternal, "assignment removal failed", err)
	}

	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:  assignment.ChairRole.UserID,
		Type:    models.NotificationAssignmentRemoved,
		Title:   "Decision assignment withdrawn",
		Message: fmt.Sprintf("Your decision assignment for %q was withdrawn.", assignment.Submission.Title),
	}})

	return nil
}

func (s *decisionService) UpdateDueDate(ctx context.Context, assignmentID string, req *UpdateDueDateRequest, userID string) (*models.DecisionAssignment, error) {
	assignment, err := s.repo.Decision().GetAssignmentByID(ctx, nil, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}

	if _, err := s.requireMainChairEntry(ctx, assignment.ChairRole.ConferenceID, userID); err != nil {
		return nil, err
	}

	if !req.DueDate.After(time.Now()) {
		return nil, NewServiceError(ErrCodeBadRequest, "due date must be in the future")
	}

	if err := s.repo.Decision().UpdateDueDate(ctx, nil, assignmentID, req.DueDate); err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "due date update failed", err)
	}
	assignment.DueDate = req.DueDate

	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:  assignment.ChairRole.UserID,
		Type:    models.NotificationAssignmentDueDate,
		Title:   "Decision due date changed",
		Message: fmt.Sprintf("The decision on %q is now due %s.", assignment.Submission.Title, req.DueDate.Format("2006-01-02")),
	}})

	return assignment, nil
}

func (s *decisionService) ListByConference(ctx context.Context, conferenceID string, filters repositories.AssignmentFilters, userID string) ([]*models.DecisionAssignment, error) {
	if _, err := s.requireMainChairEntry(ctx, conferenceID, userID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Decision().ListByConference(ctx, nil, conferenceID, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "assignment listing failed", err)
	}
	return assignments, nil
}

func (s *decisionService) ListMine(ctx context.Context, conferenceID, userID string) ([]*models.DecisionAssignment, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Decision().ListByAssignee(ctx, nil, conferenceID, userID)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "assignment listing failed", err)
	}
	return assignments, nil
}

// ===== DECISION ARTIFACT OPERATIONS =====

// SubmitDecision records the decision and moves the submission into the
// status the decision implies, in one transaction
func (s *decisionService) SubmitDecision(ctx context.Context, req *SubmitDecisionRequest, userID string) (*models.Decision, error) {
	s.logger.Info("Submitting decision", "assignment_id", req.AssignmentID, "user_id", userID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	assignment, err := s.repo.Decision().GetAssignmentByID(ctx, nil, req.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}

	if assignment.ChairRole.UserID != userID {
		return nil, NewPermissionError(userID, req.AssignmentID, "assignment", "decide", "not the assigned chair")
	}
	if assignment.Decision != nil {
		return nil, NewServiceError(ErrCodeConflict, "assignment already has a decision")
	}

	if err := s.checkRevisionWindow(ctx, assignment.ChairRole.ConferenceID, req.ReviewDecision); err != nil {
		return nil, err
	}

	decision := &models.Decision{
		AssignmentID:   req.AssignmentID,
		ReviewDecision: req.ReviewDecision,
	}
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Decision().CreateDecision(ctx, nil, decision); err != nil {
			return fmt.Errorf("failed to create decision: %w", err)
		}
		newStatus := req.ReviewDecision.SubmissionStatus()
		if err := txRepo.Submission().UpdateStatus(ctx, nil, assignment.SubmissionID, newStatus); err != nil {
			return fmt.Errorf("failed to update submission status: %w", err)
		}
		return nil
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewServiceError(ErrCodeConflict, "assignment already has a decision")
		}
		return nil, WrapServiceError(ErrCodeInternal, "decision recording failed", err)
	}

	s.notifyDecision(ctx, assignment, req.ReviewDecision)

	return decision, nil
}

func (s *decisionService) UpdateDecision(ctx context.Context, decisionID string, req *UpdateDecisionRequest, userID string) (*models.Decision, error) {
	s.logger.Info("Updating decision", "decision_id", decisionID, "user_id", userID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	decision, err := s.repo.Decision().GetDecisionByID(ctx, nil, decisionID)
	if err != nil {
		return nil, notFoundOr(err, ErrDecisionNotFound)
	}

	assignment, err := s.repo.Decision().GetAssignmentByID(ctx, nil, decision.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}
	if assignment.ChairRole.UserID != userID {
		return nil, NewPermissionError(userID, decisionID, "decision", "update", "not the decision author")
	}

	if err := s.checkRevisionWindow(ctx, assignment.ChairRole.ConferenceID, req.ReviewDecision); err != nil {
		return nil, err
	}

	decision.ReviewDecision = req.ReviewDecision
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Decision().UpdateDecision(ctx, nil, decision); err != nil {
			return fmt.Errorf("failed to update decision: %w", err)
		}
		newStatus := req.ReviewDecision.SubmissionStatus()
		if err := txRepo.Submission().UpdateStatus(ctx, nil, assignment.SubmissionID, newStatus); err != nil {
			return fmt.Errorf("failed to update submission status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "decision update failed", err)
	}

	s.notifyDecision(ctx, assignment, req.ReviewDecision)

	return decision, nil
}

func (s *decisionService) GetDecision(ctx context.Context, decisionID, userID string) (*models.Decision, error) {
	decision, err := s.repo.Decision().GetDecisionByID(ctx, nil, decisionID)
	if err != nil {
		return nil, notFoundOr(err, ErrDecisionNotFound)
	}

	assignment, err := s.repo.Decision().GetAssignmentByID(ctx, nil, decision.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}

	if assignment.ChairRole.UserID == userID {
		return decision, nil
	}
	if _, err := s.requireMainChairEntry(ctx, assignment.ChairRole.ConferenceID, userID); err != nil {
		return nil, NewPermissionError(userID, decisionID, "decision", "read", "not the author or the main chair")
	}
	return decision, nil
}

// ===== HELPERS =====

// checkRevisionWindow rejects revision decisions once the submission
// deadline has passed; past that point only accept or reject remain
func (s *decisionService) checkRevisionWindow(ctx context.Context, conferenceID string, d models.ReviewDecision) error {
	if d != models.DecisionMajorRevision && d != models.DecisionMinorRevision {
		return nil
	}
	conference, err := s.repo.Conference().GetByID(ctx, nil, conferenceID)
	if err != nil {
		return notFoundOr(err, ErrConferenceNotFound)
	}
	if time.Now().After(conference.SubmissionDeadline) {
		return NewServiceError(ErrCodeConflict, "revision decisions are closed after the submission deadline")
	}
	return nil
}

// notifyDecision tells every registered corresponding author
func (s *decisionService) notifyDecision(ctx context.Context, assignment *models.DecisionAssignment, d models.ReviewDecision) {
	userIDs, err := s.repo.Submission().CorrespondingUserIDs(ctx, nil, assignment.SubmissionID)
	if err != nil {
		s.logger.Error("Failed to resolve corresponding authors", "submission_id", assignment.SubmissionID, "error", err)
		return
	}
	// Fall back to the submitter when no author is linked to an account
	if len(userIDs) == 0 {
		userIDs = []string{assignment.Submission.SubmittedByID}
	}

	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications, &models.Notification{
			UserID:  userID,
			Type:    models.NotificationDecisionRecorded,
			Title:   "Decision recorded",
			Message: fmt.Sprintf("A decision has been recorded on %q: %s.", assignment.Submission.Title, d),
		})
	}
	s.notifications.NotifyAll(ctx, notifications)
}

func (s *decisionService) requireMainChairEntry(ctx context.Context, conferenceID, userID string) (*models.ConferenceRoleEntry, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	entry, err := s.repo.Role().GetEntry(ctx, nil, userID, conferenceID, models.RoleMainChair)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(userID, conferenceID, "conference", "manage_decisions", "main chair role required")
		}
		return nil, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	return entry, nil
}
