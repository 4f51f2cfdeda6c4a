package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Kwanddwo/conflow-service/internal/events"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

func newNotificationTestService(repo *mockRepository) (NotificationService, *events.MockEventPublisher) {
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	return NewNotificationService(repo, nil, logger, validator.New(), publisher, nil), publisher
}

func TestNotificationService_Notify(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("alice", models.RoleUser, true)
	service, publisher := newNotificationTestService(repo)

	ctx := context.Background()

	t.Run("persists and publishes a typed event", func(t *testing.T) {
		err := service.Notify(ctx, &models.Notification{
			UserID:  "alice",
			Type:    models.NotificationAssignmentCreated,
			Title:   "New review assignment",
			Message: "You have been assigned a submission.",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored, total, err := repo.Notification().ListByUser(ctx, nil, "alice", repositories.NotificationFilters{})
		if err != nil {
			t.Fatalf("notification lookup failed: %v", err)
		}
		if total != 1 || len(stored) != 1 {
			t.Fatalf("expected 1 stored notification, got %d", total)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.TypeAssignmentCreated {
			t.Errorf("wrong event type: %s", published[0].Type)
		}
	})

	t.Run("publish failure does not fail delivery", func(t *testing.T) {
		publisher.ClearEvents()
		publisher.FailNext = true

		err := service.Notify(ctx, &models.Notification{
			UserID:  "alice",
			Type:    models.NotificationInvitation,
			Title:   "Conference invitation",
			Message: "You have been invited.",
		})
		if err != nil {
			t.Fatalf("store write succeeded, delivery must not fail: %v", err)
		}

		_, total, err := repo.Notification().ListByUser(ctx, nil, "alice", repositories.NotificationFilters{})
		if err != nil {
			t.Fatalf("notification lookup failed: %v", err)
		}
		if total != 2 {
			t.Errorf("expected 2 stored notifications, got %d", total)
		}
	})
}

func TestNotificationService_NotifyAll(t *testing.T) {
	repo := newMockRepository()
	service, _ := newNotificationTestService(repo)

	ctx := context.Background()

	batch := make([]*models.Notification, 0, 10)
	for i := 0; i < 10; i++ {
		batch = append(batch, &models.Notification{
			UserID:  "bulk-user",
			Type:    models.NotificationAssignmentRemoved,
			Title:   "Assignment withdrawn",
			Message: fmt.Sprintf("Assignment %d was withdrawn.", i),
		})
	}
	service.NotifyAll(ctx, batch)

	_, total, err := repo.Notification().ListByUser(ctx, nil, "bulk-user", repositories.NotificationFilters{})
	if err != nil {
		t.Fatalf("notification lookup failed: %v", err)
	}
	if total != 10 {
		t.Errorf("expected 10 stored notifications, got %d", total)
	}
}

func TestNotificationService_ListMine(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("alice", models.RoleUser, true)
	repo.addUser("unverified", models.RoleUser, false)
	service, _ := newNotificationTestService(repo)

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := service.Notify(ctx, &models.Notification{
			UserID:  "alice",
			Type:    models.NotificationAssignmentCreated,
			Title:   "New review assignment",
			Message: fmt.Sprintf("Assignment %d.", i),
		}); err != nil {
			t.Fatalf("fixture notification failed: %v", err)
		}
	}

	t.Run("unverified users cannot list", func(t *testing.T) {
		_, err := service.ListMine(ctx, "unverified", repositories.NotificationFilters{})
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("lists with unread count", func(t *testing.T) {
		resp, err := service.ListMine(ctx, "alice", repositories.NotificationFilters{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Total != 3 {
			t.Errorf("expected total 3, got %d", resp.Total)
		}
		if resp.UnreadCount != 3 {
			t.Errorf("expected 3 unread, got %d", resp.UnreadCount)
		}
	})

	t.Run("unread count drops as notifications are read", func(t *testing.T) {
		resp, err := service.ListMine(ctx, "alice", repositories.NotificationFilters{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		read := true
		if _, err := service.UpdateFlags(ctx, resp.Notifications[0].ID, &UpdateNotificationRequest{IsRead: &read}, "alice"); err != nil {
			t.Fatalf("flag update failed: %v", err)
		}

		resp, err = service.ListMine(ctx, "alice", repositories.NotificationFilters{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.UnreadCount != 2 {
			t.Errorf("expected 2 unread, got %d", resp.UnreadCount)
		}
	})
}

func TestNotificationService_UpdateFlags(t *testing.T) {
	repo := newMockRepository()
	repo.addUser("alice", models.RoleUser, true)
	repo.addUser("bob", models.RoleUser, true)
	service, _ := newNotificationTestService(repo)

	ctx := context.Background()

	if err := service.Notify(ctx, &models.Notification{
		UserID:  "alice",
		Type:    models.NotificationAssignmentCreated,
		Title:   "New review assignment",
		Message: "You have been assigned a submission.",
	}); err != nil {
		t.Fatalf("fixture notification failed: %v", err)
	}
	resp, err := service.ListMine(ctx, "alice", repositories.NotificationFilters{})
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	notificationID := resp.Notifications[0].ID

	t.Run("only the recipient updates", func(t *testing.T) {
		read := true
		_, err := service.UpdateFlags(ctx, notificationID, &UpdateNotificationRequest{IsRead: &read}, "bob")
		if CodeOf(err) != ErrCodeForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("deleted notifications leave the inbox", func(t *testing.T) {
		deleted := true
		if _, err := service.UpdateFlags(ctx, notificationID, &UpdateNotificationRequest{IsDeleted: &deleted}, "alice"); err != nil {
			t.Fatalf("flag update failed: %v", err)
		}
		resp, err := service.ListMine(ctx, "alice", repositories.NotificationFilters{})
		if err != nil {
			t.Fatalf("listing failed: %v", err)
		}
		if resp.Total != 0 {
			t.Errorf("expected empty inbox, got %d", resp.Total)
		}
	})
}
