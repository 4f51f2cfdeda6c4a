package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/Kwanddwo/conflow-service/internal/events"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

func newSubmissionTestService(repo *mockRepository) SubmissionService {
	logger := testLogger()
	v := validator.New()
	notifications := NewNotificationService(repo, nil, logger, v, events.NewMockEventPublisher(logger), nil)
	return NewSubmissionService(repo, nil, logger, v, notifications)
}

func validSubmissionCreateRequest() *CreateSubmissionRequest {
	return &CreateSubmissionRequest{
		Title:         "A Study of Consensus Protocols",
		Abstract:      "We study consensus protocols under partial synchrony.",
		PrimaryArea:   "Systems",
		SecondaryArea: "Networking",
		Keywords:      []string{"consensus", "distributed systems"},
		FileURL:       "https://files.example.org/papers/consensus.pdf",
		FileName:      "consensus.pdf",
	}
}

func validAuthorList() []SubmissionAuthorRequest {
	return []SubmissionAuthorRequest{
		{Name: "Ada Lovelace", Email: "ada@example.org", IsCorresponding: true},
	}
}

func TestSubmissionService_Create(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("author", models.RoleUser, true)
	repo.addUser("chair", models.RoleUser, true)
	conference := repo.addConference("conf-1", models.ConferenceApproved)
	conference.ResearchAreas = datatypes.NewJSONType(models.ResearchAreas{"Systems": {"Networking", "Storage"}})
	repo.addRole("chair", "conf-1", models.RoleChair)
	service := newSubmissionTestService(repo)

	ctx := context.Background()

	t.Run("creates submission under review", func(t *testing.T) {
		resp, err := service.Create(ctx, "conf-1", validSubmissionCreateRequest(), validAuthorList(), "author")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Status != models.SubmissionUnderReview {
			t.Errorf("expected UNDER_REVIEW, got %s", resp.Status)
		}
		if !resp.CanEdit {
			t.Error("submitter should be able to edit a fresh submission")
		}
		if len(resp.Authors) != 1 {
			t.Fatalf("expected 1 author, got %d", len(resp.Authors))
		}
	})

	t.Run("strips markup from submitted text", func(t *testing.T) {
		req := validSubmissionCreateRequest()
		req.Title = `Robust <script>alert("x")</script> Systems`
		resp, err := service.Create(ctx, "conf-1", req, validAuthorList(), "author")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(resp.Title, "<script>") {
			t.Errorf("markup survived sanitization: %q", resp.Title)
		}
	})

	t.Run("organizers cannot submit", func(t *testing.T) {
		_, err := service.Create(ctx, "conf-1", validSubmissionCreateRequest(), validAuthorList(), "chair")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden for conflict of interest, got %v", err)
		}
	})

	t.Run("rejects area pair outside the taxonomy", func(t *testing.T) {
		req := validSubmissionCreateRequest()
		req.PrimaryArea = "Theory"
		_, err := service.Create(ctx, "conf-1", req, validAuthorList(), "author")
		if _, ok := err.(validator.ValidationErrors); !ok {
			t.Errorf("expected validation errors, got %v", err)
		}
	})

	t.Run("rejects after the submission deadline", func(t *testing.T) {
		conference.SubmissionDeadline = time.Now().Add(-time.Hour)
		defer func() { conference.SubmissionDeadline = time.Now().Add(30 * 24 * time.Hour) }()

		_, err := service.Create(ctx, "conf-1", validSubmissionCreateRequest(), validAuthorList(), "author")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden after deadline, got %v", err)
		}
	})

	t.Run("rejects unapproved conference", func(t *testing.T) {
		repo.addConference("conf-pending", models.ConferencePending)
		_, err := service.Create(ctx, "conf-pending", validSubmissionCreateRequest(), validAuthorList(), "author")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})
}

func TestSubmissionService_Update(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("author", models.RoleUser, true)
	repo.addUser("other", models.RoleUser, true)
	conference := repo.addConference("conf-1", models.ConferenceApproved)
	conference.ResearchAreas = datatypes.NewJSONType(models.ResearchAreas{"Systems": {"Networking"}})
	submission := repo.addSubmission("sub-1", "conf-1", "author", models.SubmissionUnderReview)
	submission.PrimaryArea = "Systems"
	submission.SecondaryArea = "Networking"
	service := newSubmissionTestService(repo)

	ctx := context.Background()

	t.Run("submitter edits an open submission", func(t *testing.T) {
		title := "Revised Title"
		resp, err := service.Update(ctx, "sub-1", &UpdateSubmissionRequest{Title: &title}, "author")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Title != "Revised Title" {
			t.Errorf("title not updated: %q", resp.Title)
		}
	})

	t.Run("only the submitter can edit", func(t *testing.T) {
		title := "Hijacked"
		_, err := service.Update(ctx, "sub-1", &UpdateSubmissionRequest{Title: &title}, "other")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("decided submissions are frozen", func(t *testing.T) {
		submission.Status = models.SubmissionAccepted
		defer func() { submission.Status = models.SubmissionUnderReview }()

		title := "Too Late"
		_, err := service.Update(ctx, "sub-1", &UpdateSubmissionRequest{Title: &title}, "author")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})
}

func TestSubmissionService_UpdateAuthors(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("author", models.RoleUser, true)
	conference := repo.addConference("conf-1", models.ConferenceApproved)
	conference.ResearchAreas = datatypes.NewJSONType(models.ResearchAreas{"Systems": {"Networking"}})
	repo.addSubmission("sub-1", "conf-1", "author", models.SubmissionUnderReview)
	service := newSubmissionTestService(repo)

	ctx := context.Background()

	authors := []SubmissionAuthorRequest{
		{Name: "Ada Lovelace", Email: "ada@example.org", IsCorresponding: true},
		{Name: "Alan Turing", Email: "alan@example.org"},
	}
	resp, err := service.UpdateAuthors(ctx, "sub-1", authors, "author")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Authors) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(resp.Authors))
	}
	if !repo.authorReplaceInTx {
		t.Error("author replacement must run inside a transaction")
	}

	// The author list requires exactly one corresponding author
	bad := []SubmissionAuthorRequest{
		{Name: "Ada Lovelace", Email: "ada@example.org"},
	}
	if _, err := service.UpdateAuthors(ctx, "sub-1", bad, "author"); err == nil {
		t.Error("expected error for author list without a corresponding author")
	}
}
