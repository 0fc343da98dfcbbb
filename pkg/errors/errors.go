package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDenied             = errors.New("denied by plan policy")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource already exists")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation error")
	ErrSourceUnreadable   = errors.New("source image unreadable")
	ErrLinkInvalid        = errors.New("link invalid or expired")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

// Denied is a policy refusal. The message carries the specific rule that was
// violated (permitted heights, valid expiry range) so callers can surface it.
func Denied(msg string) *AppError {
	return &AppError{Code: "DENIED", Message: msg, Err: ErrDenied}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid username or password", Err: ErrInvalidCredentials}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_FAILED", Message: msg, Err: ErrValidation}
}

func SourceUnreadable(msg string, err error) *AppError {
	return &AppError{Code: "SOURCE_UNREADABLE", Message: msg, Err: errors.Join(ErrSourceUnreadable, err)}
}

func LinkInvalid() *AppError {
	return &AppError{Code: "LINK_INVALID", Message: "link is not valid or has expired", Err: ErrLinkInvalid}
}
