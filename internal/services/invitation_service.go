package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/events"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type invitationService struct {
	repo          repositories.Repository
	db            *gorm.DB
	logger        *slog.Logger
	validator     *validator.Validator
	notifications NotificationService
	publisher     events.EventPublisher
}

func NewInvitationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifications NotificationService, publisher events.EventPublisher) InvitationService {
	return &invitationService{
		repo:          repo,
		db:            db,
		logger:        logger,
		validator:     validator,
		notifications: notifications,
		publisher:     publisher,
	}
}

// Invite offers a conference role. The offer is a one-shot state machine:
// PENDING until the invitee answers, then frozen.
func (s *invitationService) Invite(ctx context.Context, conferenceID string, req *InviteRequest, inviterID string) (*models.Invitation, error) {
	s.logger.Info("Sending invitation",
		"conference_id", conferenceID, "invitee", req.UserID, "role", req.Role, "inviter", inviterID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if err := requireAdminOrMainChair(ctx, s.repo, inviterID, conferenceID); err != nil {
		return nil, err
	}

	conference, err := requireApprovedConference(ctx, s.repo, conferenceID)
	if err != nil {
		return nil, err
	}

	invitee, err := s.repo.User().GetByID(ctx, req.UserID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	if !invitee.IsVerified {
		return nil, NewServiceError(ErrCodeBadRequest, "invitee account is not verified")
	}

	// No point inviting someone into a role they already hold
	has, err := s.repo.Role().HasRole(ctx, nil, invitee.ID, conferenceID, req.Role)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	if has {
		return nil, NewServiceError(ErrCodeConflict, "user already holds this role")
	}

	invitation := &models.Invitation{
		UserID:          invitee.ID,
		ConferenceID:    conferenceID,
		Role:            req.Role,
		Status:          models.InvitationPending,
		OriginalMessage: req.Message,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Invitation().Create(ctx, nil, invitation); err != nil {
			return fmt.Errorf("failed to create invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "invitation creation failed", err)
	}

	message := fmt.Sprintf("You have been invited to join %q as %s.", conference.Title, invitation.Role)
	if req.Message != "" {
		message = fmt.Sprintf("%s Message: %s", message, req.Message)
	}
	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:       invitee.ID,
		Type:         models.NotificationInvitation,
		Title:        "Conference invitation",
		Message:      message,
		InvitationID: &invitation.ID,
	}})

	return invitation, nil
}

// Respond answers a pending invitation. Accepting grants the offered role;
// either answer is final.
func (s *invitationService) Respond(ctx context.Context, invitationID string, req *RespondInvitationRequest, userID string) (*models.Invitation, error) {
	s.logger.Info("Responding to invitation", "invitation_id", invitationID, "user_id", userID, "response", req.Response)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := requireVerifiedUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	invitation, err := s.repo.Invitation().GetByID(ctx, nil, invitationID)
	if err != nil {
		return nil, notFoundOr(err, ErrInvitationNotFound)
	}

	if invitation.UserID != user.ID {
		return nil, NewPermissionError(userID, invitationID, "invitation", "respond", "not the invitee")
	}
	if invitation.Status != models.InvitationPending {
		return nil, NewServiceError(ErrCodeConflict, "invitation has already been answered")
	}

	now := time.Now()
	invitation.Status = req.Response
	invitation.RespondedAt = &now

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Invitation().Update(ctx, nil, invitation); err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}
		if req.Response == models.InvitationAccepted {
			entry := &models.ConferenceRoleEntry{
				UserID:       invitation.UserID,
				ConferenceID: invitation.ConferenceID,
				Role:         invitation.Role,
			}
			if _, err := txRepo.Role().Grant(ctx, nil, entry); err != nil {
				return fmt.Errorf("failed to grant role: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "invitation response failed", err)
	}

	if s.publisher != nil {
		event := events.NewEvent(events.TypeInvitationAnswered, map[string]interface{}{
			"invitation_id": invitation.ID,
			"conference_id": invitation.ConferenceID,
			"user_id":       invitation.UserID,
			"role":          invitation.Role,
			"response":      invitation.Status,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish invitation event", "invitation_id", invitation.ID, "error", err)
		}
	}

	return invitation, nil
}

func (s *invitationService) GetByID(ctx context.Context, invitationID, userID string) (*models.Invitation, error) {
	invitation, err := s.repo.Invitation().GetByID(ctx, nil, invitationID)
	if err != nil {
		return nil, notFoundOr(err, ErrInvitationNotFound)
	}

	if invitation.UserID == userID {
		return invitation, nil
	}
	if err := requireAdminOrMainChair(ctx, s.repo, userID, invitation.ConferenceID); err != nil {
		return nil, NewPermissionError(userID, invitationID, "invitation", "read", "not the invitee or an organizer")
	}
	return invitation, nil
}
