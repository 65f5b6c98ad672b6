package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates an icon, folder or resource id did not resolve
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the caller does not own the addressed icon
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is lets typed errors match their sentinels with errors.Is()
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidArchive    = errors.New("invalid archive")
	ErrMissingEntryPoint = errors.New("missing entry point")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (icon, folder, resource)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ArchiveError reports a problem with the content of an uploaded app archive.
// Reason is ErrInvalidArchive or ErrMissingEntryPoint.
type ArchiveError struct {
	Reason  error
	Message string
}

// NewInvalidArchive creates an ArchiveError for uploads that are not usable archives
func NewInvalidArchive(message string) *ArchiveError {
	return &ArchiveError{Reason: ErrInvalidArchive, Message: message}
}

// NewMissingEntryPoint creates an ArchiveError for archives without index.html
func NewMissingEntryPoint(message string) *ArchiveError {
	return &ArchiveError{Reason: ErrMissingEntryPoint, Message: message}
}

func (e *ArchiveError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ArchiveError) StatusCode() int {
	return http.StatusBadRequest
}

// Is matches the archive sentinel carried in Reason
func (e *ArchiveError) Is(target error) bool {
	return target == e.Reason
}
