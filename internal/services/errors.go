package services

import (
	"errors"
	"fmt"

	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

// ErrorCode classifies service failures so handlers can map them to HTTP
// statuses without string matching.
type ErrorCode string

const (
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeBadRequest   ErrorCode = "bad_request"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeInternal     ErrorCode = "internal"
)

// ServiceError is the typed error every service operation returns for
// expected failures
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func WrapServiceError(code ErrorCode, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Err: err}
}

// NewPermissionError builds a forbidden error describing who was denied
// what on which resource
func NewPermissionError(userID, resourceID, resource, action, reason string) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf("user %s cannot %s %s %s: %s", userID, action, resource, resourceID, reason),
	}
}

// Sentinel errors for the common not-found cases
var (
	ErrConferenceNotFound   = NewServiceError(ErrCodeNotFound, "conference not found")
	ErrSubmissionNotFound   = NewServiceError(ErrCodeNotFound, "submission not found")
	ErrAssignmentNotFound   = NewServiceError(ErrCodeNotFound, "assignment not found")
	ErrReviewNotFound       = NewServiceError(ErrCodeNotFound, "review not found")
	ErrDecisionNotFound     = NewServiceError(ErrCodeNotFound, "decision not found")
	ErrNotificationNotFound = NewServiceError(ErrCodeNotFound, "notification not found")
	ErrInvitationNotFound   = NewServiceError(ErrCodeNotFound, "invitation not found")
	ErrRoleEntryNotFound    = NewServiceError(ErrCodeNotFound, "role entry not found")
	ErrUserNotFound         = NewServiceError(ErrCodeNotFound, "user not found")
)

// CodeOf extracts the error code from a service error chain; unknown errors
// classify as internal
func CodeOf(err error) ErrorCode {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	if repositories.IsNotFoundError(err) {
		return ErrCodeNotFound
	}
	if repositories.IsDuplicateError(err) {
		return ErrCodeConflict
	}
	return ErrCodeInternal
}

// notFoundOr maps repository not-found results onto the given sentinel and
// wraps anything else as internal
func notFoundOr(err error, sentinel *ServiceError) error {
	if repositories.IsNotFoundError(err) {
		return sentinel
	}
	return WrapServiceError(ErrCodeInternal, "storage failure", err)
}
