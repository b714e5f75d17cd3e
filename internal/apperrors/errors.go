package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error kind to API clients.
type ErrorCode string

// AppError is the application error carried from services up to handlers.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets predefined errors match wrapped copies of themselves, so
// apperrors.Is(err, ErrUserBlocked) works after WithError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// WithDetails returns a copy carrying extra detail payload.
func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithError returns a copy carrying the underlying cause.
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors. The auth errors are intentionally distinguishable so
// the UI can explain the failure; a hardened deployment that must not leak
// account state to the network should collapse them at the handler layer.
var (
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	ErrUserNotFound     = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailExists      = New(CodeEmailExists, "Email already registered", http.StatusConflict)
	ErrUserNotVerified  = New(CodeUserNotVerified, "Email address not verified", http.StatusForbidden)
	ErrUserBlocked      = New(CodeUserBlocked, "Account is blocked", http.StatusForbidden)
	ErrWeakPassword     = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)
	ErrCannotModifySelf = New(CodeCannotModifySelf, "Cannot modify your own account", http.StatusBadRequest)

	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
	ErrFileTooLarge     = New(CodeFileTooLarge, "File too large", http.StatusBadRequest)
	ErrInvalidFileType  = New(CodeInvalidFileType, "Unsupported file type", http.StatusBadRequest)
	ErrFileNotFound     = New(CodeFileNotFound, "File not found", http.StatusNotFound)
	ErrEmailSendFailed  = New(CodeEmailSendFailed, "Failed to send email", http.StatusBadGateway)
	ErrAIUnavailable    = New(CodeAIUnavailable, "AI service unavailable", http.StatusBadGateway)
)

// ValidationError builds a validation failure carrying field details.
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

// InternalError wraps an unexpected fault (storage I/O and the like).
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// NewBadRequestError builds a bad-request error with a custom message.
func NewBadRequestError(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}
