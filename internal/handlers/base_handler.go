package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kwanddwo/conflow-service/internal/services"
	"github.com/Kwanddwo/conflow-service/internal/utils"
	"github.com/Kwanddwo/conflow-service/internal/validator"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps successful responses that carry metadata
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c).Info(msg, args...)
}

// requireUserID pulls the authenticated user ID set by the auth middleware
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return userID, true
}

// handleServiceError maps service errors onto HTTP statuses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	var serviceErr *services.ServiceError
	message := "Internal server error"
	if errors.As(err, &serviceErr) {
		message = serviceErr.Message
	}

	switch services.CodeOf(err) {
	case services.ErrCodeUnauthorized:
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: message})
	case services.ErrCodeForbidden:
		c.JSON(http.StatusForbidden, ErrorResponse{Message: message})
	case services.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Message: message})
	case services.ErrCodeBadRequest:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: message})
	case services.ErrCodeConflict:
		c.JSON(http.StatusConflict, ErrorResponse{Message: message})
	default:
		h.logger.Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
