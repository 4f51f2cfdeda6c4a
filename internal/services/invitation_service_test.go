package services

import (
	"context"
	"testing"

	"github.com/Kwanddwo/conflow-service/internal/events"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

func newInvitationTestService(repo *mockRepository) (InvitationService, *events.MockEventPublisher) {
	logger := testLogger()
	v := validator.New()
	publisher := events.NewMockEventPublisher(logger)
	notifications := NewNotificationService(repo, nil, logger, v, publisher, nil)
	return NewInvitationService(repo, nil, logger, v, notifications, publisher), publisher
}

func invitationTestFixture(repo *mockRepository) {
	repo.addUser("mainchair", models.RoleUser, true)
	repo.addUser("chair", models.RoleUser, true)
	repo.addUser("invitee", models.RoleUser, true)
	repo.addUser("unverified", models.RoleUser, false)
	repo.addConference("conf-1", models.ConferenceApproved)
	repo.addConference("conf-pending", models.ConferencePending)
	repo.addRole("mainchair", "conf-1", models.RoleMainChair)
	repo.addRole("chair", "conf-1", models.RoleChair)
}

func TestInvitationService_Invite(t *testing.T) {
	repo := newMockRepository()
	invitationTestFixture(repo)
	service, _ := newInvitationTestService(repo)

	ctx := context.Background()

	req := func() *InviteRequest {
		return &InviteRequest{
			UserID:  "invitee",
			Role:    models.RoleReviewer,
			Message: "We would value your expertise on the systems track.",
		}
	}

	t.Run("main chair invites a reviewer", func(t *testing.T) {
		invitation, err := service.Invite(ctx, "conf-1", req(), "mainchair")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if invitation.Status != models.InvitationPending {
			t.Errorf("expected pending status, got %s", invitation.Status)
		}

		// The invitee gets a notification carrying the invitation reference
		notifications, _, err := repo.Notification().ListByUser(ctx, nil, "invitee", repositories.NotificationFilters{})
		if err != nil {
			t.Fatalf("notification lookup failed: %v", err)
		}
		if len(notifications) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(notifications))
		}
		if notifications[0].InvitationID == nil || *notifications[0].InvitationID != invitation.ID {
			t.Error("notification does not reference the invitation")
		}
	})

	t.Run("regular chairs cannot invite", func(t *testing.T) {
		_, err := service.Invite(ctx, "conf-1", req(), "chair")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("unapproved conferences cannot invite", func(t *testing.T) {
		repo.addRole("mainchair", "conf-pending", models.RoleMainChair)
		_, err := service.Invite(ctx, "conf-pending", req(), "mainchair")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("unverified invitees are rejected", func(t *testing.T) {
		r := req()
		r.UserID = "unverified"
		_, err := service.Invite(ctx, "conf-1", r, "mainchair")
		if CodeOf(err) != ErrCodeBadRequest {
			t.Errorf("expected bad request, got %v", err)
		}
	})

	t.Run("existing role holders are not re-invited", func(t *testing.T) {
		r := req()
		r.UserID = "chair"
		r.Role = models.RoleChair
		_, err := service.Invite(ctx, "conf-1", r, "mainchair")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})
}

func TestInvitationService_Respond(t *testing.T) {
	repo := newMockRepository()
	invitationTestFixture(repo)
	service, publisher := newInvitationTestService(repo)

	ctx := context.Background()

	invitation, err := service.Invite(ctx, "conf-1", &InviteRequest{
		UserID: "invitee",
		Role:   models.RoleReviewer,
	}, "mainchair")
	if err != nil {
		t.Fatalf("fixture invitation failed: %v", err)
	}
	publisher.ClearEvents()

	t.Run("only the invitee answers", func(t *testing.T) {
		_, err := service.Respond(ctx, invitation.ID, &RespondInvitationRequest{
			Response: models.InvitationAccepted,
		}, "chair")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("accepting grants the offered role", func(t *testing.T) {
		answered, err := service.Respond(ctx, invitation.ID, &RespondInvitationRequest{
			Response: models.InvitationAccepted,
		}, "invitee")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if answered.Status != models.InvitationAccepted {
			t.Errorf("expected accepted status, got %s", answered.Status)
		}
		if answered.RespondedAt == nil {
			t.Error("expected RespondedAt to be set")
		}

		has, err := repo.Role().HasRole(ctx, nil, "invitee", "conf-1", models.RoleReviewer)
		if err != nil {
			t.Fatalf("role check failed: %v", err)
		}
		if !has {
			t.Error("accepting should grant the reviewer role")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeInvitationAnswered {
			t.Errorf("expected one invitation answered event, got %v", published)
		}
	})

	t.Run("answered invitations are frozen", func(t *testing.T) {
		_, err := service.Respond(ctx, invitation.ID, &RespondInvitationRequest{
			Response: models.InvitationRefused,
		}, "invitee")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})
}

func TestInvitationService_Respond_Refuse(t *testing.T) {
	repo := newMockRepository()
	invitationTestFixture(repo)
	service, _ := newInvitationTestService(repo)

	ctx := context.Background()

	invitation, err := service.Invite(ctx, "conf-1", &InviteRequest{
		UserID: "invitee",
		Role:   models.RoleChair,
	}, "mainchair")
	if err != nil {
		t.Fatalf("fixture invitation failed: %v", err)
	}

	answered, err := service.Respond(ctx, invitation.ID, &RespondInvitationRequest{
		Response: models.InvitationRefused,
	}, "invitee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answered.Status != models.InvitationRefused {
		t.Errorf("expected refused status, got %s", answered.Status)
	}

	has, err := repo.Role().HasRole(ctx, nil, "invitee", "conf-1", models.RoleChair)
	if err != nil {
		t.Fatalf("role check failed: %v", err)
	}
	if has {
		t.Error("refusing must not grant the role")
	}
}

func TestInvitationService_GetByID(t *testing.T) {
	repo := newMockRepository()
	invitationTestFixture(repo)
	service, _ := newInvitationTestService(repo)

	ctx := context.Background()

	invitation, err := service.Invite(ctx, "conf-1", &InviteRequest{
		UserID: "invitee",
		Role:   models.RoleReviewer,
	}, "mainchair")
	if err != nil {
		t.Fatalf("fixture invitation failed: %v", err)
	}

	if _, err := service.GetByID(ctx, invitation.ID, "invitee"); err != nil {
		t.Errorf("invitee should read the invitation: %v", err)
	}
	if _, err := service.GetByID(ctx, invitation.ID, "mainchair"); err != nil {
		t.Errorf("main chair should read the invitation: %v", err)
	}
	if _, err := service.GetByID(ctx, invitation.ID, "chair"); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden for a regular chair, got %v", err)
	}
}
