package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUpload indicates that a required media upload did not produce a usable URL.
var ErrUpload = errors.New("media upload failed")

// ErrUnauthorized indicates that the presented credentials were rejected.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected server-side failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidToken is the umbrella for every token verification failure.
var ErrInvalidToken = errors.New("invalid token")

var (
	// ErrTokenExpired indicates a well-formed token whose lifetime has passed.
	ErrTokenExpired = fmt.Errorf("%w: token has expired", ErrInvalidToken)
	// ErrTokenInvalid indicates a malformed or tampered token.
	ErrTokenInvalid = fmt.Errorf("%w: token is malformed or its signature is invalid", ErrInvalidToken)
	// ErrTokenWrongType indicates an access token presented as a refresh token or vice versa.
	ErrTokenWrongType = fmt.Errorf("%w: token is of the wrong type", ErrInvalidToken)
)

// AppError carries an HTTP-ish status code and a caller-facing message
// alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
