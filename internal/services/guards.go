package services

import (
	"context"
	"fmt"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

// guards are the shared access checks services run before touching state.
// Each returns a typed ServiceError so handlers map denials consistently.

// requireVerifiedUser resolves the caller and rejects unverified accounts
func requireVerifiedUser(ctx context.Context, repo repositories.Repository, userID string) (*models.User, error) {
	if userID == "" {
		return nil, NewServiceError(ErrCodeUnauthorized, "authentication required")
	}
	user, err := repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewServiceError(ErrCodeUnauthorized, "account not found")
		}
		return nil, WrapServiceError(ErrCodeInternal, "failed to resolve user", err)
	}
	if !user.IsVerified {
		return nil, NewServiceError(ErrCodeForbidden, "account is not verified")
	}
	return user, nil
}

// requireAdmin additionally checks the platform-wide admin flag
func requireAdmin(ctx context.Context, repo repositories.Repository, userID string) (*models.User, error) {
	user, err := requireVerifiedUser(ctx, repo, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, NewPermissionError(userID, "", "platform", "administer", "admin role required")
	}
	return user, nil
}

// requireConferenceRole checks that the user holds at least one of the given
// roles in the conference
func requireConferenceRole(ctx context.Context, repo repositories.Repository, userID, conferenceID string, roles ...models.ConferenceRole) error {
	for _, role := range roles {
		has, err := repo.Role().HasRole(ctx, nil, userID, conferenceID, role)
		if err != nil {
			return WrapServiceError(ErrCodeInternal, "role check failed", err)
		}
		if has {
			return nil
		}
	}
	return NewPermissionError(userID, conferenceID, "conference", "access",
		fmt.Sprintf("requires one of roles %v", roles))
}

// requireAdminOrMainChair passes for platform admins and conference main
// chairs; everything with conference-wide authority funnels through here
func requireAdminOrMainChair(ctx context.Context, repo repositories.Repository, userID, conferenceID string) error {
	user, err := requireVerifiedUser(ctx, repo, userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	return requireConferenceRole(ctx, repo, userID, conferenceID, models.RoleMainChair)
}

// requireNoConferenceRole blocks actions reserved for outsiders, like
// submitting a paper to a conference you help run
func requireNoConferenceRole(ctx context.Context, repo repositories.Repository, userID, conferenceID string) error {
	has, err := repo.Role().HasAnyRole(ctx, nil, userID, conferenceID)
	if err != nil {
		return WrapServiceError(ErrCodeInternal, "role check failed", err)
	}
	if has {
		return NewPermissionError(userID, conferenceID, "conference", "submit",
			"conference organizers and reviewers cannot act as authors")
	}
	return nil
}

// requireApprovedConference loads the conference and checks it passed
// moderation
func requireApprovedConference(ctx context.Context, repo repositories.Repository, conferenceID string) (*models.Conference, error) {
	conference, err := repo.Conference().GetByID(ctx, nil, conferenceID)
	if err != nil {
		return nil, notFoundOr(err, ErrConferenceNotFound)
	}
	if conference.Status != models.ConferenceApproved {
		return nil, NewServiceError(ErrCodeForbidden, "conference is not approved")
	}
	return conference, nil
}
