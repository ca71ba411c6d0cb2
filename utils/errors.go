package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError represents a service-level error with context
type ServiceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Details    string `json:"details,omitempty"`
	Cause      error  `json:"-"` // Original error, not exposed in JSON
}

func (e ServiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e ServiceError) Unwrap() error {
	return e.Cause
}

// GetServiceError extracts a ServiceError from an error
func GetServiceError(err error) (ServiceError, bool) {
	var serviceErr ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return ServiceError{}, false
}

func hasCode(err error, code string) bool {
	serviceErr, ok := GetServiceError(err)
	return ok && serviceErr.Code == code
}

// Error code constants
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodePrecondition      = "PRECONDITION_FAILED"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeDelivery          = "DELIVERY_FAILED"
	ErrCodeDatabase          = "DATABASE_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

func NewBadRequestError(message string) error {
	return ServiceError{
		Code:       ErrCodeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(resource string) error {
	return ServiceError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func NewInternalError(message string) error {
	return ServiceError{
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func NewDatabaseError(operation string, cause error) error {
	return ServiceError{
		Code:       ErrCodeDatabase,
		Message:    fmt.Sprintf("Database operation failed: %s", operation),
		Cause:      cause,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewPreconditionError reports a missing hard precondition (no emergency
// contact phone configured). Nothing is attempted and no record is created.
func NewPreconditionError(message string) error {
	return ServiceError{
		Code:       ErrCodePrecondition,
		Message:    message,
		StatusCode: http.StatusPreconditionFailed,
	}
}

// NewInvalidTransitionError is returned by alert stores when a requested
// status transition violates the alert state machine. The record is left
// unchanged.
func NewInvalidTransitionError(id, from, to string) error {
	return ServiceError{
		Code:       ErrCodeInvalidTransition,
		Message:    fmt.Sprintf("alert %s cannot transition from %s to %s", id, from, to),
		StatusCode: http.StatusConflict,
	}
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsPreconditionError(err error) bool {
	return hasCode(err, ErrCodePrecondition)
}

func IsInvalidTransition(err error) bool {
	return hasCode(err, ErrCodeInvalidTransition)
}

// Business specific constructors
func NewAlertNotFoundError() error {
	return NewNotFoundError("Alert")
}

func NewSubjectNotFoundError() error {
	return NewNotFoundError("Subject")
}
