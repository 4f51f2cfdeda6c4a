package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type submissionService struct {
	repo          repositories.Repository
	db            *gorm.DB
	logger        *slog.Logger
	validator     *validator.Validator
	notifications NotificationService

	// Submitted text is rendered in organizer dashboards; strip all markup.
	sanitizer *bluemonday.Policy
}

func NewSubmissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifications NotificationService) SubmissionService {
	return &submissionService{
		repo:          repo,
		db:            db,
		logger:        logger,
		validator:     validator,
		notifications: notifications,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

// ===== CORE OPERATIONS =====

func (s *submissionService) Create(ctx context.Context, conferenceID string, req *CreateSubmissionRequest, authors []SubmissionAuthorRequest, userID string) (*SubmissionResponse, error) {
	s.logger.Info("Creating submission", "conference_id", conferenceID, "user_id", userID, "title", req.Title)

	user, err := requireVerifiedUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	conference, err := requireApprovedConference(ctx, s.repo, conferenceID)
	if err != nil {
		return nil, err
	}

	if time.Now().After(conference.SubmissionDeadline) {
		return nil, NewServiceError(ErrCodeForbidden, "submission deadline has passed")
	}

	// Conflict of interest: organizers and reviewers cannot submit
	if err := requireNoConferenceRole(ctx, s.repo, userID, conferenceID); err != nil {
		return nil, err
	}

	s.sanitizeCreate(req)

	bv := s.validator.GetBusinessValidator()
	if errs := bv.ValidateSubmissionCreate(req, conference); len(errs) > 0 {
		return nil, errs
	}
	if errs := bv.ValidateAuthorList(authors); len(errs) > 0 {
		return nil, errs
	}

	var submission *models.Submission
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		submission = &models.Submission{
			Title:         req.Title,
			Abstract:      req.Abstract,
			PrimaryArea:   req.PrimaryArea,
			SecondaryArea: req.SecondaryArea,
			Keywords:      datatypes.JSONSlice[string](req.Keywords),
			FileURL:       req.FileURL,
			FileName:      req.FileName,
			Status:        models.SubmissionUnderReview,
			SubmittedByID: user.ID,
			ConferenceID:  conferenceID,
			Authors:       s.buildAuthors(authors),
		}
		if err := txRepo.Submission().Create(ctx, nil, submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "submission creation failed", err)
	}

	return &SubmissionResponse{Submission: submission, CanEdit: true}, nil
}

func (s *submissionService) GetByID(ctx context.Context, id, userID string) (*SubmissionResponse, error) {
	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSubmissionNotFound)
	}

	access, err := s.accessLevel(ctx, submission, userID)
	if err != nil {
		return nil, err
	}
	if access == accessNone {
		return nil, NewPermissionError(userID, id, "submission", "read", "not an author, organizer or assigned reviewer")
	}

	return &SubmissionResponse{Submission: submission, CanEdit: access == accessOwner && s.isEditable(submission)}, nil
}

func (s *submissionService) Update(ctx context.Context, id string, req *UpdateSubmissionRequest, userID string) (*SubmissionResponse, error) {
	s.logger.Info("Updating submission", "submission_id", id, "user_id", userID)

	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSubmissionNotFound)
	}

	if submission.SubmittedByID != userID {
		return nil, NewPermissionError(userID, id, "submission", "update", "only the submitter can edit")
	}
	if !s.isEditable(submission) {
		return nil, NewServiceError(ErrCodeConflict, "submission is no longer editable")
	}

	conference, err := s.repo.Conference().GetByID(ctx, nil, submission.ConferenceID)
	if err != nil {
		return nil, notFoundOr(err, ErrConferenceNotFound)
	}

	s.sanitizeUpdate(req)
	applySubmissionUpdate(submission, req)

	bv := s.validator.GetBusinessValidator()
	if errs := bv.ValidateAreaPair(submission.PrimaryArea, submission.SecondaryArea, conference); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Submission().Update(ctx, nil, submission); err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "submission update failed", err)
	}

	return &SubmissionResponse{Submission: submission, CanEdit: true}, nil
}

func (s *submissionService) UpdateAuthors(ctx context.Context, id string, authors []SubmissionAuthorRequest, userID string) (*SubmissionResponse, error) {
	s.logger.Info("Replacing submission authors", "submission_id", id, "user_id", userID)

	submission, err := s.repo.Submission().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSubmissionNotFound)
	}

	if submission.SubmittedByID != userID {
		return nil, NewPermissionError(userID, id, "submission", "update_authors", "only the submitter can edit")
	}
	if !s.isEditable(submission) {
		return nil, NewServiceError(ErrCodeConflict, "submission is no longer editable")
	}

	if errs := s.validator.GetBusinessValidator().ValidateAuthorList(authors); len(errs) > 0 {
		return nil, errs
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Submission().ReplaceAuthors(ctx, nil, id, s.buildAuthors(authors))
	})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "author replacement failed", err)
	}

	updated, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSubmissionNotFound)
	}

	return &SubmissionResponse{Submission: updated, CanEdit: true}, nil
}

// ===== LISTINGS =====

func (s *submissionService) ListByConference(ctx context.Context, conferenceID string, filters repositories.SubmissionFilters, userID string) (*SubmissionListResponse, error) {
	user, err := requireVerifiedUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleAdmin {
		if err := requireConferenceRole(ctx, s.repo, userID, conferenceID, models.RoleMainChair, models.RoleChair); err != nil {
			return nil, err
		}
	}

	submissions, total, err := s.repo.Submission().GetByConference(ctx, nil, conferenceID, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "submission listing failed", err)
	}

	responses := make([]*SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		responses = append(responses, &SubmissionResponse{Submission: sub})
	}
	return &SubmissionListResponse{Submissions: responses, Total: total}, nil
}

func (s *submissionService) ListMine(ctx context.Context, userID string, filters repositories.SubmissionFilters) (*SubmissionListResponse, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	submissions, total, err := s.repo.Submission().GetBySubmitter(ctx, nil, userID, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "submission listing failed", err)
	}

	responses := make([]*SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		responses = append(responses, &SubmissionResponse{Submission: sub, CanEdit: s.isEditable(sub)})
	}
	return &SubmissionListResponse{Submissions: responses, Total: total}, nil
}

// ===== HELPERS =====

type accessKind int

const (
	accessNone accessKind = iota
	accessReader
	accessOwner
)

func (s *submissionService) accessLevel(ctx context.Context, submission *models.Submission, userID string) (accessKind, error) {
	if userID == "" {
		return accessNone, nil
	}
	if submission.SubmittedByID == userID {
		return accessOwner, nil
	}

	for _, author := range submission.Authors {
		if author.UserID != nil && *author.UserID == userID {
			return accessReader, nil
		}
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return accessReader, nil
	}

	entries, err := s.repo.Role().GetByUserAndConference(ctx, nil, userID, submission.ConferenceID)
	if err != nil {
		return accessNone, WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	for _, entry := range entries {
		switch entry.Role {
		case models.RoleMainChair, models.RoleChair:
			return accessReader, nil
		case models.RoleReviewer:
			assigned, err := s.repo.Review().AssignmentExists(ctx, nil, submission.ID, entry.ID)
			if err != nil {
				return accessNone, WrapServiceError(ErrCodeInternal, "assignment check failed", err)
			}
			if assigned {
				return accessReader, nil
			}
		}
	}

	return accessNone, nil
}

// isEditable reports whether the submitter can still change the submission.
// Terminal and refused states freeze it.
func (s *submissionService) isEditable(submission *models.Submission) bool {
	switch submission.Status {
	case models.SubmissionUnderReview, models.SubmissionRevision:
		return true
	default:
		return false
	}
}

func (s *submissionService) buildAuthors(reqs []SubmissionAuthorRequest) []models.SubmissionAuthor {
	authors := make([]models.SubmissionAuthor, 0, len(reqs))
	for _, req := range reqs {
		authors = append(authors, models.SubmissionAuthor{
			UserID:          req.UserID,
			Name:            s.sanitizer.Sanitize(req.Name),
			Email:           strings.TrimSpace(req.Email),
			Affiliation:     s.sanitizer.Sanitize(req.Affiliation),
			Country:         s.sanitizer.Sanitize(req.Country),
			IsCorresponding: req.IsCorresponding,
		})
	}
	return authors
}

func (s *submissionService) sanitizeCreate(req *CreateSubmissionRequest) {
	req.Title = s.sanitizer.Sanitize(req.Title)
	req.Abstract = s.sanitizer.Sanitize(req.Abstract)
	for i, kw := range req.Keywords {
		req.Keywords[i] = s.sanitizer.Sanitize(kw)
	}
}

func (s *submissionService) sanitizeUpdate(req *UpdateSubmissionRequest) {
	if req.Title != nil {
		clean := s.sanitizer.Sanitize(*req.Title)
		req.Title = &clean
	}
	if req.Abstract != nil {
		clean := s.sanitizer.Sanitize(*req.Abstract)
		req.Abstract = &clean
	}
	for i, kw := range req.Keywords {
		req.Keywords[i] = s.sanitizer.Sanitize(kw)
	}
}

func applySubmissionUpdate(submission *models.Submission, req *UpdateSubmissionRequest) {
	if req.Title != nil {
		submission.Title = *req.Title
	}
	if req.Abstract != nil {
		submission.Abstract = *req.Abstract
	}
	if req.PrimaryArea != nil {
		submission.PrimaryArea = *req.PrimaryArea
	}
	if req.SecondaryArea != nil {
		submission.SecondaryArea = *req.SecondaryArea
	}
	if req.Keywords != nil {
		submission.Keywords = datatypes.JSONSlice[string](req.Keywords)
	}
	if req.FileURL != nil {
		submission.FileURL = *req.FileURL
	}
	if req.FileName != nil {
		submission.FileName = *req.FileName
	}
}
