package services

import (
	"context"
	"testing"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

func TestRequireVerifiedUser(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("verified", models.RoleUser, true)
	repo.addUser("unverified", models.RoleUser, false)

	ctx := context.Background()

	t.Run("verified user passes", func(t *testing.T) {
		user, err := requireVerifiedUser(ctx, repo, "verified")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "verified" {
			t.Errorf("expected user 'verified', got %q", user.ID)
		}
	})

	t.Run("unverified user is forbidden", func(t *testing.T) {
		_, err := requireVerifiedUser(ctx, repo, "unverified")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("empty user ID is unauthorized", func(t *testing.T) {
		_, err := requireVerifiedUser(ctx, repo, "")
		if CodeOf(err) != ErrCodeUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		_, err := requireVerifiedUser(ctx, repo, "ghost")
		if CodeOf(err) != ErrCodeUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("admin", models.RoleAdmin, true)
	repo.addUser("user", models.RoleUser, true)

	ctx := context.Background()

	if _, err := requireAdmin(ctx, repo, "admin"); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if _, err := requireAdmin(ctx, repo, "user"); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}
}

func TestRequireConferenceRole(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("chair", models.RoleUser, true)
	repo.addConference("conf-1", models.ConferenceApproved)
	repo.addRole("chair", "conf-1", models.RoleChair)

	ctx := context.Background()

	if err := requireConferenceRole(ctx, repo, "chair", "conf-1", models.RoleMainChair, models.RoleChair); err != nil {
		t.Fatalf("chair should pass: %v", err)
	}
	if err := requireConferenceRole(ctx, repo, "chair", "conf-1", models.RoleMainChair); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden when only a stricter role qualifies, got %v", err)
	}
	if err := requireConferenceRole(ctx, repo, "nobody", "conf-1", models.RoleChair); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden for outsider, got %v", err)
	}
}

func TestRequireAdminOrMainChair(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("admin", models.RoleAdmin, true)
	repo.addUser("mainchair", models.RoleUser, true)
	repo.addUser("reviewer", models.RoleUser, true)
	repo.addConference("conf-1", models.ConferenceApproved)
	repo.addRole("mainchair", "conf-1", models.RoleMainChair)
	repo.addRole("reviewer", "conf-1", models.RoleReviewer)

	ctx := context.Background()

	if err := requireAdminOrMainChair(ctx, repo, "admin", "conf-1"); err != nil {
		t.Errorf("admin should pass without any conference role: %v", err)
	}
	if err := requireAdminOrMainChair(ctx, repo, "mainchair", "conf-1"); err != nil {
		t.Errorf("main chair should pass: %v", err)
	}
	if err := requireAdminOrMainChair(ctx, repo, "reviewer", "conf-1"); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden for reviewer, got %v", err)
	}
}

func TestRequireNoConferenceRole(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("reviewer", models.RoleUser, true)
	repo.addUser("outsider", models.RoleUser, true)
	repo.addConference("conf-1", models.ConferenceApproved)
	repo.addRole("reviewer", "conf-1", models.RoleReviewer)

	ctx := context.Background()

	if err := requireNoConferenceRole(ctx, repo, "outsider", "conf-1"); err != nil {
		t.Errorf("outsider should pass: %v", err)
	}
	if err := requireNoConferenceRole(ctx, repo, "reviewer", "conf-1"); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden for role holder, got %v", err)
	}
}

func TestRequireApprovedConference(t *testing.T) {
	repo := newMockRepository()
	repo.addConference("approved", models.ConferenceApproved)
	repo.addConference("pending", models.ConferencePending)

	ctx := context.Background()

	if _, err := requireApprovedConference(ctx, repo, "approved"); err != nil {
		t.Errorf("approved conference should pass: %v", err)
	}
	if _, err := requireApprovedConference(ctx, repo, "pending"); CodeOf(err) != ErrCodeForbidden {
		t.Errorf("expected forbidden for pending conference, got %v", err)
	}
	if _, err := requireApprovedConference(ctx, repo, "missing"); CodeOf(err) != ErrCodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
