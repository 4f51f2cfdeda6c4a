package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kwanddwo/conflow-service/internal/services"
	"github.com/Kwanddwo/conflow-service/internal/utils"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

type DecisionHandler struct {
	BaseHandler
	decisionService services.DecisionService
	validator       *validator.Validator
}

func NewDecisionHandler(
	decisionService services.DecisionService,
	validator *validator.Validator,
	logger utils.Logger,
) *DecisionHandler {
	return &DecisionHandler{
		BaseHandler:     NewBaseHandler(logger),
		decisionService: decisionService,
		validator:       validator,
	}
}

// CreateDecisionAssignment assigns a chair to decide on a submission
// @Summary Create decision assignment
// @Description Assigns a chair to a submission's decision; main chair only
// @Tags decisions
// @Accept json
// @Produce json
// @Param id path string true "Conference ID"
// @Param assignment body services.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} models.DecisionAssignment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /conferences/{id}/decision-assignments [post]
func (h *DecisionHandler) CreateDecisionAssignment(c *gin.Context) {
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

	h.LogRequest(c, "Creating decision assignment",
		"conference_id", conferenceID,
		"submission_id", req.SubmissionID,
		"assignee", req.AssigneeUserID)

	assignment, err := h.decisionService.CreateAssignment(c.Request.Context(), conferenceID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// RemoveDecisionAssignment deletes a decision assignment without a recorded decision
// @Summary Remove decision assignment
// @Tags decisions
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /decision-assignments/{id} [delete]
func (h *DecisionHandler) RemoveDecisionAssignment(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Removing decision assignment", "assignment_id", id)

	if err := h.decisionService.RemoveAssignment(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Assignment removed successfully",
	})
}

// UpdateDecisionDueDate changes a decision assignment's due date
// @Summary Update decision due date
// @Tags decisions
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param dueDate body services.UpdateDueDateRequest true "New due date"
// @Success 200 {object} models.DecisionAssignment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /decision-assignments/{id}/due-date [put]
func (h *DecisionHandler) UpdateDecisionDueDate(c *gin.Context) {
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

	assignment, err := h.decisionService.UpdateDueDate(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListConferenceDecisionAssignments lists decision assignments of a conference
// @Summary List conference decision assignments
// @Tags decisions
// @Produce json
// @Param id path string true "Conference ID"
// @Param submission_id query string false "Filter by submission"
// @Success 200 {object} SuccessResponse{data=[]models.DecisionAssignment}
// @Failure 403 {object} ErrorResponse
// @Router /conferences/{id}/decision-assignments [get]
func (h *DecisionHandler) ListConferenceDecisionAssignments(c *gin.Context) {
	conferenceID := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := parseAssignmentFilters(c)

	assignments, err := h.decisionService.ListByConference(c.Request.Context(), conferenceID, filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: assignments})
}

// ListMyDecisionAssignments lists the caller's decision assignments in a conference
// @Summary List my decision assignments
// @Tags decisions
// @Produce json
// @Param id path string true "Conference ID"
// @Success 200 {object} SuccessResponse{data=[]models.DecisionAssignment}
// @Router /conferences/{id}/decision-assignments/mine [get]
func (h *DecisionHandler) ListMyDecisionAssignments(c *gin.Context) {
	conferenceID := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	assignments, err := h.decisionService.ListMine(c.Request.Context(), conferenceID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: assignments})
}

// SubmitDecision records a decision and moves the submission to its final status
// @Summary Submit decision
// @Description Records the decision for the caller's assignment and updates the submission status
// @Tags decisions
// @Accept json
// @Produce json
// @Param decision body services.SubmitDecisionRequest true "Decision data"
// @Success 201 {object} models.Decision
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /decisions [post]
func (h *DecisionHandler) SubmitDecision(c *gin.Context) {
	var req services.SubmitDecisionRequest
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

	h.LogRequest(c, "Submitting decision", "assignment_id", req.AssignmentID)

	decision, err := h.decisionService.SubmitDecision(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, decision)
}

// UpdateDecision edits an existing decision
// @Summary Update decision
// @Description Changes a recorded decision and re-derives the submission status
// @Tags decisions
// @Accept json
// @Produce json
// @Param id path string true "Decision ID"
// @Param decision body services.UpdateDecisionRequest true "Decision update data"
// @Success 200 {object} models.Decision
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /decisions/{id} [put]
func (h *DecisionHandler) UpdateDecision(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateDecisionRequest
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

	decision, err := h.decisionService.UpdateDecision(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// GetDecision retrieves a decision by ID
// @Summary Get decision
// @Tags decisions
// @Produce json
// @Param id path string true "Decision ID"
// @Success 200 {object} models.Decision
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /decisions/{id} [get]
func (h *DecisionHandler) GetDecision(c *gin.Context) {
	id := c.Param("id")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	decision, err := h.decisionService.GetDecision(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}
