// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error independently of its HTTP rendering.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal"
)

const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeConflictError       = "CONFLICT_ERROR"
	CodeAuthenticationError = "AUTHENTICATION_ERROR"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAuthorizationError  = "AUTHORIZATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be reported to a client.
type AppError struct {
	Kind       Kind
	Code       string
	Message    string
	HTTPStatus int
	Missing    []string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause sets the underlying cause of the error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func newError(kind Kind, code, message string, status int) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Validation reports every missing or malformed field at once.
func Validation(missing ...string) *AppError {
	msg := "invalid request"
	if len(missing) > 0 {
		msg = strings.Join(missing, ", ") + " required"
	}
	e := newError(KindValidation, CodeValidationError, msg, http.StatusBadRequest)
	e.Missing = missing
	return e
}

// Invalid is a validation error that is not about a missing field.
func Invalid(message string) *AppError {
	return newError(KindValidation, CodeValidationError, message, http.StatusBadRequest)
}

// Conflict is answered with 403, not 409, to keep the existing client contract.
func Conflict(message string) *AppError {
	return newError(KindConflict, CodeConflictError, message, http.StatusForbidden)
}

// Authentication covers missing, malformed and expired bearer credentials.
// Clients have always received 400 for these.
func Authentication(message string) *AppError {
	return newError(KindAuthentication, CodeAuthenticationError, message, http.StatusBadRequest)
}

// InvalidCredentials is the password mismatch on manual login.
func InvalidCredentials() *AppError {
	return newError(KindAuthentication, CodeInvalidCredentials, "invalid user name or password", http.StatusUnauthorized)
}

func Authorization(message string) *AppError {
	return newError(KindAuthorization, CodeAuthorizationError, message, http.StatusForbidden)
}

func NotFound(resource string) *AppError {
	return newError(KindNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func Internal(message string) *AppError {
	return newError(KindInternal, CodeInternalError, message, http.StatusInternalServerError)
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
