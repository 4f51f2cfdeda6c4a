package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Kwanddwo/conflow-service/internal/config"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/services"
	"github.com/Kwanddwo/conflow-service/internal/utils"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type HandlerManager struct {
	conferenceHandler   *ConferenceHandler
	submissionHandler   *SubmissionHandler
	reviewHandler       *ReviewHandler
	decisionHandler     *DecisionHandler
	notificationHandler *NotificationHandler
	userHandler         *UserHandler
	authMiddleware      *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		conferenceHandler:   NewConferenceHandler(serviceManager.Conference(), serviceManager.Export(), validator, logger),
		submissionHandler:   NewSubmissionHandler(serviceManager.Submission(), validator, logger),
		reviewHandler:       NewReviewHandler(serviceManager.Review(), validator, logger),
		decisionHandler:     NewDecisionHandler(serviceManager.Decision(), validator, logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), serviceManager.Invitation(), validator, logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Conference routes
		conferences := v1.Group("/conferences")
		{
			conferences.POST("", hm.conferenceHandler.CreateConference)
			conferences.GET("", hm.conferenceHandler.ListConferences)
			conferences.GET("/mine", hm.conferenceHandler.ListMyConferences)
			conferences.GET("/pending", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.conferenceHandler.ListPendingConferences)
			conferences.GET("/:id", hm.conferenceHandler.GetConference)
			conferences.PUT("/:id", hm.conferenceHandler.UpdateConference)
			conferences.POST("/:id/moderate", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.conferenceHandler.ModerateConference)
			conferences.GET("/:id/stats", hm.conferenceHandler.GetConferenceStats)
			conferences.GET("/:id/participants", hm.conferenceHandler.GetConferenceParticipants)
			conferences.DELETE("/:id/roles/:roleEntryId", hm.conferenceHandler.RevokeConferenceRole)
			conferences.GET("/:id/export", hm.conferenceHandler.ExportSubmissions)

			// Submissions scoped to a conference
			conferences.POST("/:id/submissions", hm.submissionHandler.CreateSubmission)
			conferences.GET("/:id/submissions", hm.submissionHandler.ListConferenceSubmissions)

			// Assignment management scoped to a conference
			conferences.POST("/:id/review-assignments", hm.reviewHandler.CreateReviewAssignment)
			conferences.GET("/:id/review-assignments", hm.reviewHandler.ListConferenceReviewAssignments)
			conferences.GET("/:id/review-assignments/mine", hm.reviewHandler.ListMyReviewAssignments)
			conferences.POST("/:id/decision-assignments", hm.decisionHandler.CreateDecisionAssignment)
			conferences.GET("/:id/decision-assignments", hm.decisionHandler.ListConferenceDecisionAssignments)
			conferences.GET("/:id/decision-assignments/mine", hm.decisionHandler.ListMyDecisionAssignments)

			// Invitations
			conferences.POST("/:id/invitations", hm.notificationHandler.InviteParticipant)
		}

		// Submission routes
		submissions := v1.Group("/submissions")
		{
			submissions.GET("/mine", hm.submissionHandler.ListMySubmissions)
			submissions.GET("/:id", hm.submissionHandler.GetSubmission)
			submissions.PUT("/:id", hm.submissionHandler.UpdateSubmission)
			submissions.PUT("/:id/authors", hm.submissionHandler.UpdateSubmissionAuthors)
		}

		// Review assignment routes
		reviewAssignments := v1.Group("/review-assignments")
		{
			reviewAssignments.DELETE("/:id", hm.reviewHandler.RemoveReviewAssignment)
			reviewAssignments.PUT("/:id/due-date", hm.reviewHandler.UpdateReviewDueDate)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		{
			reviews.POST("", hm.reviewHandler.SubmitReview)
			reviews.GET("/:id", hm.reviewHandler.GetReview)
			reviews.PUT("/:id", hm.reviewHandler.UpdateReview)
		}

		// Decision assignment routes
		decisionAssignments := v1.Group("/decision-assignments")
		{
			decisionAssignments.DELETE("/:id", hm.decisionHandler.RemoveDecisionAssignment)
			decisionAssignments.PUT("/:id/due-date", hm.decisionHandler.UpdateDecisionDueDate)
		}

		// Decision routes
		decisions := v1.Group("/decisions")
		{
			decisions.POST("", hm.decisionHandler.SubmitDecision)
			decisions.GET("/:id", hm.decisionHandler.GetDecision)
			decisions.PUT("/:id", hm.decisionHandler.UpdateDecision)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListMyNotifications)
			notifications.PATCH("/:id", hm.notificationHandler.UpdateNotification)
		}

		// Invitation routes
		invitations := v1.Group("/invitations")
		{
			invitations.GET("/:id", hm.notificationHandler.GetInvitation)
			invitations.POST("/:id/respond", hm.notificationHandler.RespondToInvitation)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetCurrentUser)
			users.GET("/search", hm.userHandler.SearchUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}
	}
}
