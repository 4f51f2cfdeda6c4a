package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kwanddwo/conflow-service/internal/repositories"
	"github.com/Kwanddwo/conflow-service/internal/services"
	"github.com/Kwanddwo/conflow-service/internal/utils"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
	validator     *validator.Validator
}

func NewReviewHandler(
	reviewService services.ReviewService,
	validator *validator.Validator,
	logger utils.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewService: reviewService,
		validator:     validator,
	}
}

// CreateReviewAssignment assigns a reviewer to a submission
// @Summary Create review assignment
// @Description Assigns a reviewer to a submission; chairs only
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Conference ID"
// @Param assignment body services.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} models.ReviewAssignment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /conferences/{id}/review-assignments [post]
func (h *ReviewHandler) CreateReviewAssignment(c *gin.Context) {
	conferenceID := c.Param("id")

	var req services.CreateAssignmentRequest
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

	h.LogRequest(c, "Creating review assignment",
		"conference_id", conferenceID,
		"submission_id", req.SubmissionID,
		"assignee", req.AssigneeUserID)

	assignment, err := h.reviewService.CreateAssignment(c.Request.Context(), conferenceID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// RemoveReviewAssignment deletes a review assignment without a recorded review
// @Summary Remove review assignment
// @Tags reviews
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /review-assignments/{id} [delete]
func (h *ReviewHandler) RemoveReviewAssignment(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Removing review assignment", "assignment_id", id)

	if err := h.reviewService.RemoveAssignment(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Assignment removed successfully",
	})
}

// UpdateReviewDueDate changes an assignment's due date
// @Summary Update review due date
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param dueDate body services.UpdateDueDateRequest true "New due date"
// @Success 200 {object} models.ReviewAssignment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /review-assignments/{id}/due-date [put]
func (h *ReviewHandler) UpdateReviewDueDate(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateDueDateRequest
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

	assignment, err := h.reviewService.UpdateDueDate(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListConferenceReviewAssignments lists review assignments of a conference
// @Summary List conference review assignments
// @Tags reviews
// @Produce json
// @Param id path string true "Conference ID"
// @Param submission_id query string false "Filter by submission"
// @Success 200 {object} SuccessResponse{data=[]models.ReviewAssignment}
// @Failure 403 {object} ErrorResponse
// @Router /conferences/{id}/review-assignments [get]
func (h *ReviewHandler) ListConferenceReviewAssignments(c *gin.Context) {
	conferenceID := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := parseAssignmentFilters(c)

	assignments, err := h.reviewService.ListByConference(c.Request.Context(), conferenceID, filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: assignments})
}

// ListMyReviewAssignments lists the caller's review assignments in a conference
// @Summary List my review assignments
// @Tags reviews
// @Produce json
// @Param id path string true "Conference ID"
// @Success 200 {object} SuccessResponse{data=[]models.ReviewAssignment}
// @Router /conferences/{id}/review-assignments/mine [get]
func (h *ReviewHandler) ListMyReviewAssignments(c *gin.Context) {
	conferenceID := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	assignments, err := h.reviewService.ListMine(c.Request.Context(), conferenceID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: assignments})
}

// SubmitReview records a review for an assignment
// @Summary Submit review
// @Description Records the review against the caller's assignment; one per assignment
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body services.SubmitReviewRequest true "Review data"
// @Success 201 {object} models.Review
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req services.SubmitReviewRequest
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

	h.LogRequest(c, "Submitting review", "assignment_id", req.AssignmentID)

	review, err := h.reviewService.SubmitReview(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// UpdateReview edits an existing review
// @Summary Update review
// @Description Edits a review while the submission is still undecided
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param review body services.UpdateReviewRequest true "Review update data"
// @Success 200 {object} models.Review
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateReviewRequest
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

	review, err := h.reviewService.UpdateReview(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// GetReview retrieves a review by ID
// @Summary Get review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} models.Review
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// parseAssignmentFilters is shared by the review and decision handlers
func parseAssignmentFilters(c *gin.Context) repositories.AssignmentFilters {
	filters := repositories.AssignmentFilters{Limit: 50}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 200 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filters.Offset = offset
	}
	if submissionID := c.Query("submission_id"); submissionID != "" {
		filters.SubmissionID = &submissionID
	}

	return filters
}
