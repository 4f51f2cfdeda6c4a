package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kwanddwo/conflow-service/internal/events"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

func newReviewTestService(repo *mockRepository) ReviewService {
	logger := testLogger()
	v := validator.New()
	notifications := NewNotificationService(repo, nil, logger, v, events.NewMockEventPublisher(logger), nil)
	return NewReviewService(repo, nil, logger, v, notifications)
}

func reviewTestFixture(repo *mockRepository) {
	repo.addUser("mainchair", models.RoleUser, true)
	repo.addUser("chair", models.RoleUser, true)
	repo.addUser("reviewer", models.RoleUser, true)
	repo.addUser("outsider", models.RoleUser, true)
	repo.addConference("conf-1", models.ConferenceApproved)
	repo.addRole("mainchair", "conf-1", models.RoleMainChair)
	repo.addRole("chair", "conf-1", models.RoleChair)
	repo.addRole("reviewer", "conf-1", models.RoleReviewer)
	repo.addSubmission("sub-1", "conf-1", "author", models.SubmissionUnderReview)
}

func validAssignmentRequest() *CreateAssignmentRequest {
	return &CreateAssignmentRequest{
		SubmissionID:   "sub-1",
		AssigneeUserID: "reviewer",
		DueDate:        time.Now().Add(14 * 24 * time.Hour),
	}
}

func TestReviewService_CreateAssignment(t *testing.T) {
	repo := newMockRepository()
	reviewTestFixture(repo)
	service := newReviewTestService(repo)

	ctx := context.Background()

	t.Run("main chair assigns a reviewer", func(t *testing.T) {
		assignment, err := service.CreateAssignment(ctx, "conf-1", validAssignmentRequest(), "mainchair")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if assignment.SubmissionID != "sub-1" {
			t.Errorf("wrong submission: %s", assignment.SubmissionID)
		}
	})

	t.Run("duplicate pair conflicts", func(t *testing.T) {
		_, err := service.CreateAssignment(ctx, "conf-1", validAssignmentRequest(), "mainchair")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("any invited role can be the assignee", func(t *testing.T) {
		req := validAssignmentRequest()
		req.AssigneeUserID = "chair"
		assignment, err := service.CreateAssignment(ctx, "conf-1", req, "mainchair")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if assignment.ReviewerRoleID == "" {
			t.Error("expected the assignee's role entry to be recorded")
		}
	})

	t.Run("assignee without a role is rejected", func(t *testing.T) {
		req := validAssignmentRequest()
		req.AssigneeUserID = "outsider"
		_, err := service.CreateAssignment(ctx, "conf-1", req, "mainchair")
		if CodeOf(err) != ErrCodeBadRequest {
			t.Errorf("expected bad request, got %v", err)
		}
	})

	t.Run("regular chairs cannot assign", func(t *testing.T) {
		req := validAssignmentRequest()
		req.AssigneeUserID = "reviewer2"
		repo.addUser("reviewer2", models.RoleUser, true)
		repo.addRole("reviewer2", "conf-1", models.RoleReviewer)
		_, err := service.CreateAssignment(ctx, "conf-1", req, "chair")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("reviewers cannot assign", func(t *testing.T) {
		_, err := service.CreateAssignment(ctx, "conf-1", validAssignmentRequest(), "reviewer")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("due date must be in the future", func(t *testing.T) {
		req := validAssignmentRequest()
		req.DueDate = time.Now().Add(-time.Hour)
		_, err := service.CreateAssignment(ctx, "conf-1", req, "mainchair")
		if CodeOf(err) != ErrCodeBadRequest {
			t.Errorf("expected bad request, got %v", err)
		}
	})

	t.Run("decided submissions are closed for review", func(t *testing.T) {
		repo.addSubmission("sub-decided", "conf-1", "author", models.SubmissionAccepted)
		req := validAssignmentRequest()
		req.SubmissionID = "sub-decided"
		_, err := service.CreateAssignment(ctx, "conf-1", req, "mainchair")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})
}

func TestReviewService_SubmitReview(t *testing.T) {
	repo := newMockRepository()
	reviewTestFixture(repo)
	service := newReviewTestService(repo)

	ctx := context.Background()

	assignment, err := service.CreateAssignment(ctx, "conf-1", validAssignmentRequest(), "mainchair")
	if err != nil {
		t.Fatalf("fixture assignment failed: %v", err)
	}

	evaluation := "The paper presents a thorough evaluation of consensus protocols under realistic failure models."
	req := &SubmitReviewRequest{
		AssignmentID:      assignment.ID,
		Recommendation:    models.RecommendAccepted,
		OverallScore:      8,
		OverallEvaluation: evaluation,
	}

	t.Run("only the assignee reviews", func(t *testing.T) {
		_, err := service.SubmitReview(ctx, req, "chair")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("assignee records the review", func(t *testing.T) {
		review, err := service.SubmitReview(ctx, req, "reviewer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if review.OverallScore != 8 {
			t.Errorf("wrong score: %d", review.OverallScore)
		}
	})

	t.Run("one review per assignment", func(t *testing.T) {
		_, err := service.SubmitReview(ctx, req, "reviewer")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("reviewed assignments cannot be removed", func(t *testing.T) {
		err := service.RemoveAssignment(ctx, assignment.ID, "chair")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})
}

func TestReviewService_UpdateReview(t *testing.T) {
	repo := newMockRepository()
	reviewTestFixture(repo)
	service := newReviewTestService(repo)

	ctx := context.Background()

	assignment, err := service.CreateAssignment(ctx, "conf-1", validAssignmentRequest(), "mainchair")
	if err != nil {
		t.Fatalf("fixture assignment failed: %v", err)
	}
	review, err := service.SubmitReview(ctx, &SubmitReviewRequest{
		AssignmentID:      assignment.ID,
		Recommendation:    models.RecommendRevision,
		OverallScore:      5,
		OverallEvaluation: "The methodology needs work; the failure injection setup is not described in enough detail.",
	}, "reviewer")
	if err != nil {
		t.Fatalf("fixture review failed: %v", err)
	}

	t.Run("author edits while the submission is open", func(t *testing.T) {
		score := 6
		updated, err := service.UpdateReview(ctx, review.ID, &UpdateReviewRequest{OverallScore: &score}, "reviewer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.OverallScore != 6 {
			t.Errorf("score not updated: %d", updated.OverallScore)
		}
	})

	t.Run("review freezes once the submission is decided", func(t *testing.T) {
		if err := repo.Submission().UpdateStatus(ctx, nil, "sub-1", models.SubmissionAccepted); err != nil {
			t.Fatalf("status update failed: %v", err)
		}
		score := 9
		_, err := service.UpdateReview(ctx, review.ID, &UpdateReviewRequest{OverallScore: &score}, "reviewer")
		if CodeOf(err) != ErrCodeConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	})
}

func TestReviewService_RemoveAssignment(t *testing.T) {
	repo := newMockRepository()
	reviewTestFixture(repo)
	service := newReviewTestService(repo)

	ctx := context.Background()

	assignment, err := service.CreateAssignment(ctx, "conf-1", validAssignmentRequest(), "mainchair")
	if err != nil {
		t.Fatalf("fixture assignment failed: %v", err)
	}

	if err := service.RemoveAssignment(ctx, assignment.ID, "reviewer"); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden for non-chair, got %v", err)
	}
	if err := service.RemoveAssignment(ctx, assignment.ID, "mainchair"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.RemoveAssignment(ctx, assignment.ID, "mainchair"); CodeOf(err) != ErrCodeNotFound {
		t.Errorf("expected not found after removal, got %v", err)
	}
}
