package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type conferenceService struct {
	repo          repositories.Repository
	db            *gorm.DB
	logger        *slog.Logger
	validator     *validator.Validator
	notifications NotificationService

	// The call for papers and description are organizer-authored rich text
	// rendered on public pages; keep basic formatting, strip everything else.
	sanitizer *bluemonday.Policy
}

func NewConferenceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifications NotificationService) ConferenceService {
	return &conferenceService{
		repo:          repo,
		db:            db,
		logger:        logger,
		validator:     validator,
		notifications: notifications,
		sanitizer:     bluemonday.UGCPolicy(),
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *conferenceService) Create(ctx context.Context, req *CreateConferenceRequest, creatorID string) (*ConferenceResponse, error) {
	s.logger.Info("Creating conference", "creator_id", creatorID, "title", req.Title)

	creator, err := requireVerifiedUser(ctx, s.repo, creatorID)
	if err != nil {
		return nil, err
	}

	s.sanitizeCreate(req)

	if errs := s.validator.GetBusinessValidator().ValidateConferenceCreate(req); len(errs) > 0 {
		return nil, errs
	}

	var conference *models.Conference
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		conference = &models.Conference{
			Title:               req.Title,
			Acronym:             req.Acronym,
			Description:         req.Description,
			Location:            req.Location,
			CallForPapers:       req.CallForPapers,
			WebsiteURL:          req.WebsiteURL,
			Status:              models.ConferencePending,
			IsPublic:            req.IsPublic,
			AbstractDeadline:    req.AbstractDeadline,
			SubmissionDeadline:  req.SubmissionDeadline,
			CameraReadyDeadline: req.CameraReadyDeadline,
			StartDate:           req.StartDate,
			EndDate:             req.EndDate,
			ResearchAreas:       datatypes.NewJSONType(req.ResearchAreas),
			CreatedByID:         creator.ID,
		}

		if err := txRepo.Conference().Create(ctx, nil, conference); err != nil {
			return fmt.Errorf("failed to create conference: %w", err)
		}

		// The creator runs the conference from day one
		entry := &models.ConferenceRoleEntry{
			UserID:       creator.ID,
			ConferenceID: conference.ID,
			Role:         models.RoleMainChair,
		}
		if _, err := txRepo.Role().Grant(ctx, nil, entry); err != nil {
			return fmt.Errorf("failed to grant main chair role: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "conference creation failed", err)
	}

	return &ConferenceResponse{Conference: conference, CanEdit: true, CanManage: true}, nil
}

func (s *conferenceService) GetByID(ctx context.Context, id, userID string) (*ConferenceResponse, error) {
	conference, err := s.repo.Conference().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, ErrConferenceNotFound)
	}

	canManage, err := s.canManage(ctx, userID, conference)
	if err != nil {
		return nil, err
	}

	// Pending and rejected conferences are only visible to their organizers
	// and admins
	if conference.Status != models.ConferenceApproved && conference.Status != models.ConferenceCompleted {
		if !canManage {
			return nil, ErrConferenceNotFound
		}
	}

	if !conference.IsPublic && !canManage {
		hasRole, err := s.repo.Role().HasAnyRole(ctx, nil, userID, id)
		if err != nil {
			return nil, WrapServiceError(ErrCodeInternal, "role check failed", err)
		}
		if !hasRole {
			return nil, ErrConferenceNotFound
		}
	}

	return &ConferenceResponse{Conference: conference, CanEdit: canManage, CanManage: canManage}, nil
}

func (s *conferenceService) Update(ctx context.Context, id string, req *UpdateConferenceRequest, userID string) (*ConferenceResponse, error) {
	s.logger.Info("Updating conference", "conference_id", id, "user_id", userID)

	conference, err := s.repo.Conference().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, ErrConferenceNotFound)
	}

	if err := requireAdminOrMainChair(ctx, s.repo, userID, id); err != nil {
		return nil, err
	}

	s.sanitizeUpdate(req)

	if errs := s.validator.GetBusinessValidator().ValidateConferenceUpdate(req, conference); len(errs) > 0 {
		return nil, errs
	}

	applyConferenceUpdate(conference, req)

	if err := s.repo.Conference().Update(ctx, nil, conference); err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "conference update failed", err)
	}

	return &ConferenceResponse{Conference: conference, CanEdit: true, CanManage: true}, nil
}

// Moderate approves or rejects a pending conference and tells the creator
func (s *conferenceService) Moderate(ctx context.Context, id string, req *ModerateConferenceRequest, adminID string) (*ConferenceResponse, error) {
	s.logger.Info("Moderating conference", "conference_id", id, "admin_id", adminID, "approve", req.Approve)

	if _, err := requireAdmin(ctx, s.repo, adminID); err != nil {
		return nil, err
	}

	conference, err := s.repo.Conference().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, ErrConferenceNotFound)
	}

	if conference.Status != models.ConferencePending {
		return nil, NewServiceError(ErrCodeConflict, "conference has already been moderated")
	}

	status := models.ConferenceRejected
	notifType := models.NotificationConferenceRejected
	title := "Conference rejected"
	message := fmt.Sprintf("Your conference %q was not approved.", conference.Title)
	if req.Approve {
		status = models.ConferenceApproved
		notifType = models.NotificationConferenceApproved
		title = "Conference approved"
		message = fmt.Sprintf("Your conference %q is now live.", conference.Title)
	}
	if req.Reason != nil && *req.Reason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, *req.Reason)
	}

	if err := s.repo.Conference().UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "status update failed", err)
	}
	conference.Status = status

	s.notifications.NotifyAll(ctx, []*models.Notification{{
		UserID:  conference.CreatedByID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}})

	return &ConferenceResponse{Conference: conference}, nil
}

// ===== LISTINGS =====

func (s *conferenceService) List(ctx context.Context, filters repositories.ConferenceFilters, userID string) (*ConferenceListResponse, error) {
	// The public catalog only shows approved, public conferences
	approved := models.ConferenceApproved
	public := true
	filters.Status = &approved
	filters.IsPublic = &public

	conferences, total, err := s.repo.Conference().List(ctx, nil, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "conference listing failed", err)
	}

	return s.buildListResponse(ctx, conferences, total, userID)
}

func (s *conferenceService) ListMine(ctx context.Context, userID string, filters repositories.ConferenceFilters) (*ConferenceListResponse, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	conferences, total, err := s.repo.Conference().GetByParticipant(ctx, nil, userID, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "conference listing failed", err)
	}

	created, _, err := s.repo.Conference().GetByCreator(ctx, nil, userID, repositories.ConferenceFilters{})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "conference listing failed", err)
	}

	// Merge created conferences the user holds no role in (possible after a
	// revoked grant)
	seen := make(map[string]bool, len(conferences))
	for _, c := range conferences {
		seen[c.ID] = true
	}
	for _, c := range created {
		if !seen[c.ID] {
			conferences = append(conferences, c)
			total++
		}
	}

	return s.buildListResponse(ctx, conferences, total, userID)
}

func (s *conferenceService) ListPending(ctx context.Context, adminID string, filters repositories.ConferenceFilters) (*ConferenceListResponse, error) {
	if _, err := requireAdmin(ctx, s.repo, adminID); err != nil {
		return nil, err
	}

	pending := models.ConferencePending
	filters.Status = &pending

	conferences, total, err := s.repo.Conference().List(ctx, nil, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "conference listing failed", err)
	}

	responses := make([]*ConferenceResponse, 0, len(conferences))
	for _, c := range conferences {
		responses = append(responses, &ConferenceResponse{Conference: c, CanEdit: true, CanManage: true})
	}
	return &ConferenceListResponse{Conferences: responses, Total: total}, nil
}

// ===== ORGANIZER OPERATIONS =====

func (s *conferenceService) GetStats(ctx context.Context, id, userID string) (*repositories.ConferenceStats, error) {
	if err := requireAdminOrMainChair(ctx, s.repo, userID, id); err != nil {
		return nil, err
	}

	if _, err := s.repo.Conference().GetByID(ctx, nil, id); err != nil {
		return nil, notFoundOr(err, ErrConferenceNotFound)
	}

	stats, err := s.repo.Conference().GetStats(ctx, nil, id)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "stats aggregation failed", err)
	}
	return stats, nil
}

func (s *conferenceService) GetParticipants(ctx context.Context, id, userID string) ([]*ParticipantResponse, error) {
	if err := requireAdminOrMainChair(ctx, s.repo, userID, id); err != nil {
		return nil, err
	}

	entries, err := s.repo.Role().ListByConference(ctx, nil, id)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "participant listing failed", err)
	}

	participants := make([]*ParticipantResponse, 0, len(entries))
	for _, entry := range entries {
		user, err := s.repo.User().GetByID(ctx, entry.UserID)
		if err != nil {
			s.logger.Warn("Failed to resolve participant", "user_id", entry.UserID, "error", err)
			continue
		}
		participants = append(participants, &ParticipantResponse{
			RoleEntryID: entry.ID,
			Role:        entry.Role,
			User:        user,
		})
	}
	return participants, nil
}

// RevokeRole removes a role grant. The last main chair cannot be revoked;
// a conference without a main chair would be unmanageable.
func (s *conferenceService) RevokeRole(ctx context.Context, conferenceID, roleEntryID, userID string) error {
	s.logger.Info("Revoking role", "conference_id", conferenceID, "role_entry_id", roleEntryID, "user_id", userID)

	if err := requireAdminOrMainChair(ctx, s.repo, userID, conferenceID); err != nil {
		return err
	}

	entry, err := s.repo.Role().GetByID(ctx, nil, roleEntryID)
	if err != nil {
		return notFoundOr(err, ErrRoleEntryNotFound)
	}
	if entry.ConferenceID != conferenceID {
		return ErrRoleEntryNotFound
	}

	if entry.Role == models.RoleMainChair {
		chairs, err := s.repo.Role().ListByConferenceAndRoles(ctx, nil, conferenceID, models.RoleMainChair)
		if err != nil {
			return WrapServiceError(ErrCodeInternal, "role check failed", err)
		}
		if len(chairs) <= 1 {
			return NewServiceError(ErrCodeConflict, "cannot revoke the only main chair")
		}
	}

	if err := s.repo.Role().Revoke(ctx, nil, roleEntryID); err != nil {
		return WrapServiceError(ErrCodeInternal, "role revocation failed", err)
	}

	return nil
}

// ===== HELPERS =====

func (s *conferenceService) canManage(ctx context.Context, userID string, conference *models.Conference) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if userID == conference.CreatedByID {
		return true, nil
	}
	user, err := s.repo.User().GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return true, nil
	}
	has, err := s.repo.Role().HasRole(ctx, nil, userID, conference.ID, models.RoleMainChair)
	if err != nil {
		return false, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	return has, nil
}

func (s *conferenceService) buildListResponse(ctx context.Context, conferences []*models.Conference, total int64, userID string) (*ConferenceListResponse, error) {
	responses := make([]*ConferenceResponse, 0, len(conferences))
	for _, c := range conferences {
		canManage, err := s.canManage(ctx, userID, c)
		if err != nil {
			return nil, err
		}
		responses = append(responses, &ConferenceResponse{Conference: c, CanEdit: canManage, CanManage: canManage})
	}
	return &ConferenceListResponse{Conferences: responses, Total: total}, nil
}

func (s *conferenceService) sanitizeCreate(req *CreateConferenceRequest) {
	req.Description = s.sanitizer.Sanitize(req.Description)
	req.CallForPapers = s.sanitizer.Sanitize(req.CallForPapers)
}

func (s *conferenceService) sanitizeUpdate(req *UpdateConferenceRequest) {
	if req.Description != nil {
		clean := s.sanitizer.Sanitize(*req.Description)
		req.Description = &clean
	}
	if req.CallForPapers != nil {
		clean := s.sanitizer.Sanitize(*req.CallForPapers)
		req.CallForPapers = &clean
	}
}

func applyConferenceUpdate(conference *models.Conference, req *UpdateConferenceRequest) {
	if req.Title != nil {
		conference.Title = *req.Title
	}
	if req.Acronym != nil {
		conference.Acronym = *req.Acronym
	}
	if req.Description != nil {
		conference.Description = *req.Description
	}
	if req.Location != nil {
		conference.Location = *req.Location
	}
	if req.CallForPapers != nil {
		conference.CallForPapers = *req.CallForPapers
	}
	if req.WebsiteURL != nil {
		conference.WebsiteURL = req.WebsiteURL
	}
	if req.IsPublic != nil {
		conference.IsPublic = *req.IsPublic
	}
	if req.ResearchAreas != nil {
		conference.ResearchAreas = datatypes.NewJSONType(req.ResearchAreas)
	}
	if req.AbstractDeadline != nil {
		conference.AbstractDeadline = req.AbstractDeadline
	}
	if req.SubmissionDeadline != nil {
		conference.SubmissionDeadline = *req.SubmissionDeadline
	}
	if req.CameraReadyDeadline != nil {
		conference.CameraReadyDeadline = *req.CameraReadyDeadline
	}
	if req.StartDate != nil {
		conference.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		conference.EndDate = *req.EndDate
	}
}
