package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/services"
	"github.com/Kwanddwo/conflow-service/internal/utils"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
	invitationService   services.InvitationService
	validator           *validator.Validator
}

func NewNotificationHandler(
	notificationService services.NotificationService,
	invitationService services.InvitationService,
	validator *validator.Validator,
	logger utils.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
		invitationService:   invitationService,
		validator:           validator,
	}
}

// ListMyNotifications lists the caller's notifications, newest first
// @Summary List my notifications
// @Tags notifications
// @Produce json
// @Param is_read query bool false "Filter by read flag"
// @Param is_archived query bool false "Filter by archived flag"
// @Param type query string false "Filter by notification type"
// @Success 200 {object} services.NotificationListResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parseNotificationFilters(c)

	notifications, err := h.notificationService.ListMine(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// UpdateNotification flips read/archived/deleted flags on a notification
// @Summary Update notification flags
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Param flags body services.UpdateNotificationRequest true "Flag updates"
// @Success 200 {object} models.Notification
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id} [patch]
func (h *NotificationHandler) UpdateNotification(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.UpdateFlags(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// InviteParticipant offers a conference role to a user
// @Summary Invite participant
// @Description Sends a one-shot role invitation; admin or main chair only
// @Tags invitations
// @Accept json
// @Produce json
// @Param id path string true "Conference ID"
// @Param invitation body services.InviteRequest true "Invitation data"
// @Success 201 {object} models.Invitation
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /conferences/{id}/invitations [post]
func (h *NotificationHandler) InviteParticipant(c *gin.Context) {
	conferenceID := c.Param("id")

	var req services.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Inviting participant",
		"conference_id", conferenceID,
		"invitee", req.UserID,
		"role", req.Role)

	invitation, err := h.invitationService.Invite(c.Request.Context(), conferenceID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation)
}

// RespondToInvitation accepts or refuses a pending invitation
// @Summary Respond to invitation
// @Description Accepts or refuses a PENDING invitation; accepting grants the role
// @Tags invitations
// @Accept json
// @Produce json
// @Param id path string true "Invitation ID"
// @Param response body services.RespondInvitationRequest true "ACCEPTED or REFUSED"
// @Success 200 {object} models.Invitation
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /invitations/{id}/respond [post]
func (h *NotificationHandler) RespondToInvitation(c *gin.Context) {
	id := c.Param("id")

	var req services.RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Responding to invitation", "invitation_id", id, "response", req.Response)

	invitation, err := h.invitationService.Respond(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation)
}

// GetInvitation retrieves an invitation visible to the invitee or organizers
// @Summary Get invitation
// @Tags invitations
// @Produce json
// @Param id path string true "Invitation ID"
// @Success 200 {object} models.Invitation
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /invitations/{id} [get]
func (h *NotificationHandler) GetInvitation(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	invitation, err := h.invitationService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation)
}

func (h *NotificationHandler) parseNotificationFilters(c *gin.Context) repositories.NotificationFilters {
	filters := repositories.NotificationFilters{Limit: 20}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filters.Offset = offset
	}
	if isRead := c.Query("is_read"); isRead != "" {
		val := isRead == "true"
		filters.IsRead = &val
	}
	if isArchived := c.Query("is_archived"); isArchived != "" {
		val := isArchived == "true"
		filters.IsArchived = &val
	}
	if notifType := c.Query("type"); notifType != "" {
		t := models.NotificationType(notifType)
		filters.Type = &t
	}

	return filters
}
