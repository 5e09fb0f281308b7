package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = "E1001"
	ErrCodeInvalidToken ErrorCode = "E1004"
	ErrCodeAccessDenied ErrorCode = "E1005"

	// Validation errors (2xxx)
	ErrCodeValidation     ErrorCode = "E2001"
	ErrCodeInvalidInput   ErrorCode = "E2002"
	ErrCodeMissingField   ErrorCode = "E2003"
	ErrCodeWeakPassword   ErrorCode = "E2007"
	ErrCodeInvalidPayload ErrorCode = "E2009"

	// Resource errors (3xxx)
	ErrCodeNotFound        ErrorCode = "E3001"
	ErrCodeConflict        ErrorCode = "E3003"
	ErrCodeSessionNotFound ErrorCode = "E3005"

	// Business logic errors (4xxx)
	ErrCodeInvalidState      ErrorCode = "E4002"
	ErrCodeNoCredentials     ErrorCode = "E4010"
	ErrCodeResetNotConfirmed ErrorCode = "E4011"

	// External service errors (5xxx)
	ErrCodeEmailError ErrorCode = "E5003"

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = "E9001"
	ErrCodeDatabase ErrorCode = "E9002"
	ErrCodeTimeout  ErrorCode = "E9003"
)

// AppError represents an application error with context
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Stack      string                 `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by code, so errors.Is works against the
// predefined constructors.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithField adds a field to the error
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// ============================================================
// Error constructors
// ============================================================

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Stack:      captureStack(2),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Cause:      err,
		Stack:      captureStack(2),
	}
}

// ============================================================
// Predefined error constructors
// ============================================================

// Authentication errors
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid or expired token")
}

func AccessDenied() *AppError {
	return New(ErrCodeAccessDenied, "Your role cannot perform this operation")
}

// Validation errors

// FieldErrors builds a validation error carrying per-field message lists.
func FieldErrors(fields map[string][]string) *AppError {
	e := New(ErrCodeValidation, "Validation failed")
	for field, msgs := range fields {
		e.WithField(field, msgs)
	}
	return e
}

func InvalidInput(field, message string) *AppError {
	return New(ErrCodeInvalidInput, message).WithField("field", field)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("%s is required", field)).WithField("field", field)
}

func InvalidPayload(message string) *AppError {
	return New(ErrCodeInvalidPayload, message)
}

// WeakPassword carries the ordered list of failed password rules.
func WeakPassword(violations []string) *AppError {
	return New(ErrCodeWeakPassword, "Password does not meet strength requirements").
		WithField("violations", violations)
}

// Resource errors
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Conflict(err error, message string) *AppError {
	return Wrap(err, ErrCodeConflict, message)
}

func SessionNotFound() *AppError {
	return New(ErrCodeSessionNotFound, "Credential session not found or expired")
}

// Business logic errors
func InvalidState(message string) *AppError {
	return New(ErrCodeInvalidState, message)
}

func NoCredentials() *AppError {
	return New(ErrCodeNoCredentials, "No credentials available. Generate a new password first")
}

func ResetNotConfirmed() *AppError {
	return New(ErrCodeResetNotConfirmed, "Password reset must be explicitly confirmed")
}

// External service errors
func EmailError(err error) *AppError {
	return Wrap(err, ErrCodeEmailError, "Failed to send email")
}

// Internal errors
func DatabaseError(err error) *AppError {
	return Wrap(err, ErrCodeDatabase, "Database error")
}

func Timeout(err error) *AppError {
	return Wrap(err, ErrCodeTimeout, "Request timed out")
}

// ============================================================
// Helper functions
// ============================================================

func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case ErrCodeAccessDenied:
		return http.StatusForbidden
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeWeakPassword,
		ErrCodeInvalidPayload:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInvalidState, ErrCodeNoCredentials, ErrCodeResetNotConfirmed:
		return http.StatusUnprocessableEntity
	case ErrCodeEmailError:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func captureStack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip+1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return sb.String()
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// ToAppError converts any error to AppError
func ToAppError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(err)
	}
	return Wrap(err, ErrCodeInternal, err.Error())
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
