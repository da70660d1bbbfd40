package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	NotFoundError    ErrorType = "NOT_FOUND"
	FetchError       ErrorType = "FETCH_FAILED"
	MalformedError   ErrorType = "MALFORMED_RESPONSE"
	ValidationError  ErrorType = "VALIDATION_ERROR"
	UnsupportedError ErrorType = "UNSUPPORTED"
	InternalError    ErrorType = "SERVER_ERROR"
)

// AppError is a classified error with the HTTP status it maps to.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates an AppError with the status derived from its type.
func New(errType ErrorType, message, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: statusFor(errType),
	}
}

// Wrap attaches classification to a raw error. Wrap(nil, ...) returns nil.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: statusFor(errType),
		Raw:        err,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func FetchFailed(message string, err error) *AppError {
	if err == nil {
		return New(FetchError, message, "")
	}
	return Wrap(err, FetchError, message)
}

func Malformed(message string, err error) *AppError {
	if err == nil {
		return New(MalformedError, message, "")
	}
	return Wrap(err, MalformedError, message)
}

func ValidationFailed(message, detail string) *AppError {
	return New(ValidationError, message, detail)
}

func Unsupported(message string) *AppError {
	return New(UnsupportedError, message, "")
}

// Is reports whether err, or anything it wraps, is an AppError of the given type.
func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// StatusOf returns the HTTP status for err; unclassified errors map to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func statusFor(errType ErrorType) int {
	switch errType {
	case NotFoundError:
		return http.StatusNotFound
	case FetchError, MalformedError:
		return http.StatusBadGateway
	case ValidationError:
		return http.StatusBadRequest
	case UnsupportedError:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
