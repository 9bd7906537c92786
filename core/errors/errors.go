package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	// Request / business errors. Terminal: never retried by the pipeline.
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrValidationFailed   ErrorCode = "VALIDATION_FAILED"

	// Auth errors.
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Infrastructure errors. Retryable by the pipeline scheduler up to its budget.
	ErrDatabase              ErrorCode = "DATABASE_ERROR"
	ErrTimeout               ErrorCode = "TIMEOUT"
	ErrDependencyUnavailable ErrorCode = "DEPENDENCY_UNAVAILABLE"

	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is the error shape services return alongside DTOs.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string, details any) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// IsRetryable reports whether err is an infrastructure-level failure the
// pipeline scheduler may retry. Business rejections are never retryable.
func IsRetryable(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		switch ae.Code {
		case ErrDatabase, ErrTimeout, ErrDependencyUnavailable:
			return true
		}
		return false
	}
	// Unclassified plain errors come from drivers and I/O; treat as transient.
	return err != nil
}

// AsAppError unwraps err into an *AppError, or wraps it as an internal error.
func AsAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return NewAppError(ErrInternalServer, err.Error(), nil)
}
