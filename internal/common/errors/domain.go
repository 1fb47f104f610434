package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

func (e *domainError) Is(target error) bool {
	other, ok := target.(*domainError)
	return ok && other.code == e.code
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	// ErrInvalidCredentials is deliberately a single error for both "user does
	// not exist" and "wrong password": callers must not be able to tell them apart.
	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryAuth,
		http.StatusUnauthorized,
		"Invalid username or password",
	)

	ErrUsernameTaken = NewDomainError(
		"USERNAME_TAKEN",
		CategoryConflict,
		http.StatusConflict,
		"Username already exists",
	)

	ErrUsernameTooShort = NewDomainError(
		"USERNAME_TOO_SHORT",
		CategoryValidation,
		http.StatusBadRequest,
		"Username must be at least 3 characters",
	)

	ErrPasswordTooShort = NewDomainError(
		"PASSWORD_TOO_SHORT",
		CategoryValidation,
		http.StatusBadRequest,
		"Password must be at least 4 characters",
	)

	ErrMissingFields = NewDomainError(
		"MISSING_FIELDS",
		CategoryValidation,
		http.StatusBadRequest,
		"Username and password are required",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"User not found",
	)

	// Last-user deletion maps to 400, not 409: the dashboard client treats it as
	// a rejected form submission rather than a retryable conflict.
	ErrLastUser = NewDomainError(
		"LAST_USER",
		CategoryConflict,
		http.StatusBadRequest,
		"Cannot delete the last user",
	)

	ErrUnauthorized = NewDomainError(
		"UNAUTHORIZED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"Unauthorized",
	)

	ErrInternal = NewDomainError(
		"INTERNAL",
		CategoryInternal,
		http.StatusInternalServerError,
		"Internal server error",
	)
)
