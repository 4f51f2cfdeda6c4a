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

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	validator         *validator.Validator
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		validator:         validator,
	}
}

// SubmissionCreatePayload carries the paper fields plus its author list
type SubmissionCreatePayload struct {
	services.CreateSubmissionRequest
	Authors []services.SubmissionAuthorRequest `json:"authors"`
}

// UpdateAuthorsPayload replaces the full author list of a submission
type UpdateAuthorsPayload struct {
	Authors []services.SubmissionAuthorRequest `json:"authors"`
}

// CreateSubmission submits a paper to a conference
// @Summary Create submission
// @Description Submits a paper with its author list to an approved conference
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Conference ID"
// @Param submission body SubmissionCreatePayload true "Submission data"
// @Success 201 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /conferences/{id}/submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	conferenceID := c.Param("id")

	var payload SubmissionCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
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

	h.LogRequest(c, "Creating submission", "conference_id", conferenceID, "title", payload.Title)

	submission, err := h.submissionService.Create(c.Request.Context(), conferenceID, &payload.CreateSubmissionRequest, payload.Authors, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// GetSubmission retrieves a submission by ID
// @Summary Get submission
// @Description Retrieves a submission visible to the caller
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} services.SubmissionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// UpdateSubmission edits a submission's paper fields
// @Summary Update submission
// @Description Updates an editable submission; submitter only
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param submission body services.UpdateSubmissionRequest true "Submission update data"
// @Success 200 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{id} [put]
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateSubmissionRequest
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

	h.LogRequest(c, "Updating submission", "submission_id", id)

	submission, err := h.submissionService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// UpdateSubmissionAuthors replaces a submission's author list
// @Summary Update submission authors
// @Description Replaces the author list wholesale; submitter only
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param authors body UpdateAuthorsPayload true "Author list"
// @Success 200 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /submissions/{id}/authors [put]
func (h *SubmissionHandler) UpdateSubmissionAuthors(c *gin.Context) {
	id := c.Param("id")

	var payload UpdateAuthorsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
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

	h.LogRequest(c, "Updating submission authors", "submission_id", id)

	submission, err := h.submissionService.UpdateAuthors(c.Request.Context(), id, payload.Authors, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListConferenceSubmissions lists all submissions of a conference
// @Summary List conference submissions
// @Description Lists a conference's submissions; chairs and admins only
// @Tags submissions
// @Produce json
// @Param id path string true "Conference ID"
// @Success 200 {object} services.SubmissionListResponse
// @Failure 403 {object} ErrorResponse
// @Router /conferences/{id}/submissions [get]
func (h *SubmissionHandler) ListConferenceSubmissions(c *gin.Context) {
	conferenceID := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parseSubmissionFilters(c)

	submissions, err := h.submissionService.ListByConference(c.Request.Context(), conferenceID, filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// ListMySubmissions lists the caller's own submissions
// @Summary List my submissions
// @Tags submissions
// @Produce json
// @Success 200 {object} services.SubmissionListResponse
// @Router /submissions/mine [get]
func (h *SubmissionHandler) ListMySubmissions(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := h.parseSubmissionFilters(c)

	submissions, err := h.submissionService.ListMine(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

func (h *SubmissionHandler) parseSubmissionFilters(c *gin.Context) repositories.SubmissionFilters {
	filters := repositories.SubmissionFilters{
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
	if status := c.Query("status"); status != "" {
		s := models.SubmissionStatus(status)
		filters.Status = &s
	}
	if area := c.Query("primary_area"); area != "" {
		filters.PrimaryArea = &area
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	return filters
}
