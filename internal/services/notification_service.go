package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/events"
	"github.com/Kwanddwo/conflow-service/internal/mailer"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type notificationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	mailer    *mailer.Mailer
}

func NewNotificationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, m *mailer.Mailer) NotificationService {
	return &notificationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		mailer:    m,
	}
}

// ===== INBOX OPERATIONS =====

func (s *notificationService) ListMine(ctx context.Context, userID string, filters repositories.NotificationFilters) (*NotificationListResponse, error) {
	if _, err := requireVerifiedUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	notifications, total, err := s.repo.Notification().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "notification listing failed", err)
	}

	unread := false
	_, unreadCount, err := s.repo.Notification().ListByUser(ctx, nil, userID, repositories.NotificationFilters{
		IsRead: &unread,
		Limit:  1,
	})
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "unread count failed", err)
	}

	return &NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unreadCount,
	}, nil
}

func (s *notificationService) UpdateFlags(ctx context.Context, notificationID string, req *UpdateNotificationRequest, userID string) (*models.Notification, error) {
	notification, err := s.repo.Notification().GetByID(ctx, nil, notificationID)
	if err != nil {
		return nil, notFoundOr(err, ErrNotificationNotFound)
	}

	if notification.UserID != userID {
		return nil, NewPermissionError(userID, notificationID, "notification", "update", "not the recipient")
	}

	if req.IsRead != nil {
		notification.IsRead = *req.IsRead
	}
	if req.IsArchived != nil {
		notification.IsArchived = *req.IsArchived
	}
	if req.IsDeleted != nil {
		notification.IsDeleted = *req.IsDeleted
	}

	if err := s.repo.Notification().Update(ctx, nil, notification); err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "notification update failed", err)
	}
	return notification, nil
}

// ===== DELIVERY =====

// Notify persists the notification and fans out to the event bus and email.
// Only the store write can fail the call.
func (s *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		return WrapServiceError(ErrCodeInternal, "notification creation failed", err)
	}

	s.publishEvent(ctx, notification)
	s.sendEmail(ctx, notification)

	return nil
}

// NotifyAll delivers a batch concurrently; failures are logged and dropped
func (s *notificationService) NotifyAll(ctx context.Context, notifications []*models.Notification) {
	var wg sync.WaitGroup
	for _, notification := range notifications {
		wg.Add(1)
		go func(n *models.Notification) {
			defer wg.Done()
			if err := s.Notify(ctx, n); err != nil {
				s.logger.Error("Failed to deliver notification",
					"user_id", n.UserID, "type", n.Type, "error", err)
			}
		}(notification)
	}
	wg.Wait()
}

func (s *notificationService) publishEvent(ctx context.Context, notification *models.Notification) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(eventTypeFor(notification.Type), map[string]interface{}{
		"notification_id": notification.ID,
		"user_id":         notification.UserID,
		"type":            notification.Type,
		"title":           notification.Title,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish notification event",
			"notification_id", notification.ID, "error", err)
	}
}

func eventTypeFor(t models.NotificationType) string {
	switch t {
	case models.NotificationInvitation:
		return events.TypeInvitationSent
	case models.NotificationAssignmentCreated:
		return events.TypeAssignmentCreated
	case models.NotificationAssignmentRemoved:
		return events.TypeAssignmentRemoved
	case models.NotificationDecisionRecorded:
		return events.TypeDecisionRecorded
	case models.NotificationConferenceApproved, models.NotificationConferenceRejected:
		return events.TypeConferenceReviewed
	default:
		return events.TypeNotificationCreated
	}
}

// sendEmail mirrors high-signal notifications to the recipient's inbox
func (s *notificationService) sendEmail(ctx context.Context, notification *models.Notification) {
	if s.mailer == nil {
		return
	}

	switch notification.Type {
	case models.NotificationInvitation,
		models.NotificationDecisionRecorded,
		models.NotificationConferenceApproved,
		models.NotificationConferenceRejected:
	default:
		return
	}

	user, err := s.repo.User().GetByID(ctx, notification.UserID)
	if err != nil {
		s.logger.Warn("Failed to resolve notification recipient",
			"user_id", notification.UserID, "error", err)
		return
	}

	body := fmt.Sprintf("<p>%s</p>", notification.Message)
	if err := s.mailer.Send([]string{user.Email}, notification.Title, body); err != nil {
		s.logger.Error("Failed to send notification email",
			"user_id", notification.UserID, "error", err)
	}
}
