package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/services"
	"github.com/Kwanddwo/conflow-service/internal/utils"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type ConferenceHandler struct {
	BaseHandler
	conferenceService services.ConferenceService
	exportService     services.ExportService
	validator         *validator.Validator
}

func NewConferenceHandler(
	conferenceService services.ConferenceService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *ConferenceHandler {
	return &ConferenceHandler{
		BaseHandler:       NewBaseHandler(logger),
		conferenceService: conferenceService,
		exportService:     exportService,
		validator:         validator,
	}
}

// CreateConference creates a new conference pending moderation
// @Summary Create conference
// @Description Creates a new conference; it stays PENDING until an admin approves it
// @Tags conferences
// @Accept json
// @Produce json
// @Param conference body services.CreateConferenceRequest true "Conference data"
// @Success 201 {object} services.ConferenceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /conferences [post]
func (h *ConferenceHandler) CreateConference(c *gin.Context) {
	var req services.CreateConferenceRequest
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

	h.LogRequest(c, "Creating conference", "title", req.Title)

	conference, err := h.conferenceService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conference)
}

// GetConference retrieves a conference by ID
// @Summary Get conference
// @Description Retrieves a conference the caller is allowed to see
// @Tags conferences
// @Produce json
// @Param id path string true "Conference ID"
// @Success 200 {object} services.ConferenceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /conferences/{id} [get]
func (h *ConferenceHandler) GetConference(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	conference, err := h.conferenceService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conference)
}

// UpdateConference updates conference details
// @Summary Update conference
// @Description Updates a conference; requires admin or main chair
// @Tags conferences
// @Accept json
// @Produce json
// @Param id path string true "Conference ID"
// @Param conference body services.UpdateConferenceRequest true "Conference update data"
// @Success 200 {object} services.ConferenceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /conferences/{id} [put]
func (h *ConferenceHandler) UpdateConference(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateConferenceRequest
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

	h.LogRequest(c, "Updating conference", "conference_id", id)

	conference, err := h.conferenceService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conference)
}

// ModerateConference approves or rejects a pending conference
// @Summary Moderate conference
// @Description Approves or rejects a PENDING conference; admin only
// @Tags conferences
// @Accept json
// @Produce json
// @Param id path string true "Conference ID"
// @Param moderation body services.ModerateConferenceRequest true "Moderation verdict"
// @Success 200 {object} services.ConferenceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /conferences/{id}/moderate [post]
func (h *ConferenceHandler) ModerateConference(c *gin.Context) {
	id := c.Param("id")

	var req services.ModerateConferenceRequest
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

	h.LogRequest(c, "Moderating conference", "conference_id", id, "approve", req.Approve)

	conference, err := h.conferenceService.Moderate(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conference)
}

// ListConferences lists approved public conferences
// @Summary List conferences
// @Description Lists approved public conferences with optional filters
// @Tags conferences
// @Produce json
// @Param search query string false "Search in title or acronym"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} services.ConferenceListResponse
// @Router /conferences [get]
func (h *ConferenceHandler) ListConferences(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parseConferenceFilters(c)

	conferences, err := h.conferenceService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conferences)
}

// ListMyConferences lists conferences the caller organizes or created
// @Summary List my conferences
// @Tags conferences
// @Produce json
// @Success 200 {object} services.ConferenceListResponse
// @Router /conferences/mine [get]
func (h *ConferenceHandler) ListMyConferences(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parseConferenceFilters(c)

	conferences, err := h.conferenceService.ListMine(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conferences)
}

// ListPendingConferences lists conferences awaiting moderation
// @Summary List pending conferences
// @Description Lists PENDING conferences; admin only
// @Tags conferences
// @Produce json
// @Success 200 {object} services.ConferenceListResponse
// @Failure 403 {object} ErrorResponse
// @Router /conferences/pending [get]
func (h *ConferenceHandler) ListPendingConferences(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parseConferenceFilters(c)

	conferences, err := h.conferenceService.ListPending(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conferences)
}

// GetConferenceStats returns submission and review statistics
// @Summary Get conference stats
// @Tags conferences
// @Produce json
// @Param id path string true "Conference ID"
// @Success 200 {object} repositories.ConferenceStats
// @Failure 403 {object} ErrorResponse
// @Router /conferences/{id}/stats [get]
func (h *ConferenceHandler) GetConferenceStats(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.conferenceService.GetStats(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetConferenceParticipants lists role holders of a conference
// @Summary Get conference participants
// @Tags conferences
// @Produce json
// @Param id path string true "Conference ID"
// @Success 200 {object} SuccessResponse{data=[]services.ParticipantResponse}
// @Failure 403 {object} ErrorResponse
// @Router /conferences/{id}/participants [get]
func (h *ConferenceHandler) GetConferenceParticipants(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	participants, err := h.conferenceService.GetParticipants(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: participants})
}

// RevokeConferenceRole removes a role entry from a conference
// @Summary Revoke conference role
// @Description Removes a participant's role; the last main chair cannot be revoked
// @Tags conferences
// @Produce json
// @Param id path string true "Conference ID"
// @Param roleEntryId path string true "Role entry ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /conferences/{id}/roles/{roleEntryId} [delete]
func (h *ConferenceHandler) RevokeConferenceRole(c *gin.Context) {
	id := c.Param("id")
	roleEntryID := c.Param("roleEntryId")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Revoking conference role", "conference_id", id, "role_entry_id", roleEntryID)

	if err := h.conferenceService.RevokeRole(c.Request.Context(), id, roleEntryID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Role revoked successfully",
	})
}

// ExportSubmissions downloads the conference submissions as an xlsx file
// @Summary Export submissions
// @Description Exports all submissions of a conference to an Excel workbook
// @Tags conferences
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Conference ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /conferences/{id}/export [get]
func (h *ConferenceHandler) ExportSubmissions(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting submissions", "conference_id", id)

	content, filename, err := h.exportService.ExportSubmissions(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// parseConferenceFilters extracts query filters shared by the list endpoints
func (h *ConferenceHandler) parseConferenceFilters(c *gin.Context) repositories.ConferenceFilters {
	filters := repositories.ConferenceFilters{
		Limit:     20,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filters.Offset = offset
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	if isPublic := c.Query("is_public"); isPublic != "" {
		val := isPublic == "true"
		filters.IsPublic = &val
	}
	if status := c.Query("status"); status != "" {
		s := models.ConferenceStatus(status)
		filters.Status = &s
	}
	if startsAfter := c.Query("starts_after"); startsAfter != "" {
		if t, err := time.Parse(time.RFC3339, startsAfter); err == nil {
			filters.StartsAfter = &t
		}
	}
	if endsBefore := c.Query("ends_before"); endsBefore != "" {
		if t, err := time.Parse(time.RFC3339, endsBefore); err == nil {
			filters.EndsBefore = &t
		}
	}

	return filters
}
