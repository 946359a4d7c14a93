package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnconfirmedEmail   = errors.New("email not confirmed")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTokenInvalid       = errors.New("invalid token")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		Code:       "INVALID_CREDENTIALS",
		Message:    "invalid email or password",
		StatusCode: http.StatusUnauthorized,
	}
}

// UnconfirmedEmail signals a login rejected because the account's email
// address has not been verified yet.
func UnconfirmedEmail() *AppError {
	return &AppError{
		Err:        ErrUnconfirmedEmail,
		Code:       "EMAIL_NOT_CONFIRMED",
		Message:    "please confirm your email address before logging in",
		StatusCode: http.StatusUnauthorized,
	}
}

// BackendUnavailable signals that the document backend produced no response at all.
func BackendUnavailable(err error) *AppError {
	return &AppError{
		Err:        errors.Join(ErrBackendUnavailable, err),
		Code:       "BACKEND_UNAVAILABLE",
		Message:    "document service is unreachable",
		StatusCode: http.StatusBadGateway,
	}
}

func TokenInvalid() *AppError {
	return &AppError{
		Err:        ErrTokenInvalid,
		Code:       "TOKEN_INVALID",
		Message:    "invalid token",
		StatusCode: http.StatusUnauthorized,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
