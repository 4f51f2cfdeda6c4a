package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Kwanddwo/conflow-service/internal/events"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

func newConferenceTestService(repo *mockRepository) (ConferenceService, *events.MockEventPublisher) {
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()
	notifications := NewNotificationService(repo, nil, logger, v, publisher, nil)
	return NewConferenceService(repo, nil, logger, v, notifications), publisher
}

func validConferenceCreateRequest() *CreateConferenceRequest {
	now := time.Now()
	return &CreateConferenceRequest{
		Title:               "International Conference on Distributed Systems",
		Acronym:             "ICDS",
		CallForPapers:       "We welcome papers on distributed systems.",
		IsPublic:            true,
		ResearchAreas:       models.ResearchAreas{"Systems": {"Networking", "Storage"}},
		SubmissionDeadline:  now.Add(30 * 24 * time.Hour),
		CameraReadyDeadline: now.Add(60 * 24 * time.Hour),
		StartDate:           now.Add(90 * 24 * time.Hour),
		EndDate:             now.Add(93 * 24 * time.Hour),
	}
}

func TestConferenceService_Create(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("creator", models.RoleUser, true)
	repo.addUser("unverified", models.RoleUser, false)
	service, _ := newConferenceTestService(repo)

	ctx := context.Background()

	t.Run("creates pending conference and grants main chair", func(t *testing.T) {
		resp, err := service.Create(ctx, validConferenceCreateRequest(), "creator")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Status != models.ConferencePending {
			t.Errorf("expected PENDING status, got %s", resp.Status)
		}
		if !resp.CanManage {
			t.Error("creator should be able to manage")
		}

		has, err := repo.Role().HasRole(ctx, nil, "creator", resp.ID, models.RoleMainChair)
		if err != nil {
			t.Fatalf("role check failed: %v", err)
		}
		if !has {
			t.Error("creator should hold the main chair role")
		}
	})

	t.Run("rejects unverified creator", func(t *testing.T) {
		_, err := service.Create(ctx, validConferenceCreateRequest(), "unverified")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("strips markup from organizer text", func(t *testing.T) {
		req := validConferenceCreateRequest()
		req.Description = `About the event<script>alert("xss")</script>`
		req.CallForPapers = `<p>Submit papers</p><img src=x onerror=alert(1)>`
		resp, err := service.Create(ctx, req, "creator")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(resp.Description, "<script>") {
			t.Errorf("description kept script markup: %q", resp.Description)
		}
		if strings.Contains(resp.CallForPapers, "onerror") {
			t.Errorf("call for papers kept event handler markup: %q", resp.CallForPapers)
		}
	})

	t.Run("rejects bad deadline order", func(t *testing.T) {
		req := validConferenceCreateRequest()
		req.SubmissionDeadline = req.CameraReadyDeadline.Add(24 * time.Hour)
		_, err := service.Create(ctx, req, "creator")
		if _, ok := err.(validator.ValidationErrors); !ok {
			t.Errorf("expected validation errors, got %v", err)
		}
	})
}

func TestConferenceService_Update(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("mainchair", models.RoleUser, true)
	repo.addConference("conf-1", models.ConferenceApproved)
	repo.addRole("mainchair", "conf-1", models.RoleMainChair)
	service, _ := newConferenceTestService(repo)

	ctx := context.Background()

	t.Run("strips markup from updated organizer text", func(t *testing.T) {
		description := `Venue details<script>alert("xss")</script>`
		cfp := `<p>Extended deadline</p><iframe src="evil"></iframe>`
		resp, err := service.Update(ctx, "conf-1", &UpdateConferenceRequest{
			Description:   &description,
			CallForPapers: &cfp,
		}, "mainchair")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(resp.Description, "<script>") {
			t.Errorf("description kept script markup: %q", resp.Description)
		}
		if strings.Contains(resp.CallForPapers, "<iframe") {
			t.Errorf("call for papers kept iframe markup: %q", resp.CallForPapers)
		}
	})
}

func TestConferenceService_Moderate(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("admin", models.RoleAdmin, true)
	repo.addUser("user", models.RoleUser, true)
	conference := repo.addConference("conf-1", models.ConferencePending)
	conference.CreatedByID = "user"
	service, publisher := newConferenceTestService(repo)

	ctx := context.Background()

	t.Run("non-admin cannot moderate", func(t *testing.T) {
		_, err := service.Moderate(ctx, "conf-1", &ModerateConferenceRequest{Approve: true}, "user")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("admin approves pending conference", func(t *testing.T) {
		resp, err := service.Moderate(ctx, "conf-1", &ModerateConferenceRequest{Approve: true}, "admin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Status != models.ConferenceApproved {
			t.Errorf("expected APPROVED, got %s", resp.Status)
		}

		// The creator gets told through the side channel
		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.TypeConferenceReviewed {
			t.Errorf("expected %s event, got %s", events.TypeConferenceReviewed, published[0].Type)
		}
	})

	t.Run("moderation is one-shot", func(t *testing.T) {
		_, err := service.Moderate(ctx, "conf-1", &ModerateConferenceRequest{Approve: false}, "admin")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict for already-moderated conference, got %v", err)
		}
	})
}

func TestConferenceService_RevokeRole(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("mainchair", models.RoleUser, true)
	repo.addUser("reviewer", models.RoleUser, true)
	repo.addConference("conf-1", models.ConferenceApproved)
	chairEntry := repo.addRole("mainchair", "conf-1", models.RoleMainChair)
	reviewerEntry := repo.addRole("reviewer", "conf-1", models.RoleReviewer)
	service, _ := newConferenceTestService(repo)

	ctx := context.Background()

	t.Run("revokes a reviewer", func(t *testing.T) {
		if err := service.RevokeRole(ctx, "conf-1", reviewerEntry.ID, "mainchair"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		has, _ := repo.Role().HasRole(ctx, nil, "reviewer", "conf-1", models.RoleReviewer)
		if has {
			t.Error("reviewer role should be gone")
		}
	})

	t.Run("cannot revoke the last main chair", func(t *testing.T) {
		err := service.RevokeRole(ctx, "conf-1", chairEntry.ID, "mainchair")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})
}
