package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrNotImplemented     = errors.New("not implemented")
)

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AccessDeniedError carries the reason a command was refused. It matches ErrAccessDenied.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return "access denied: " + e.Reason
}

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// ConflictError describes a state conflict. It matches ErrConflict.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError reports a malformed field value. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func notFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IssueNotFound, CommentNotFound and UserNotFound build typed not-found errors.
func IssueNotFound(id int64) error   { return notFound("issue", id) }
func CommentNotFound(id int64) error { return notFound("comment", id) }
func UserNotFound(id int64) error    { return notFound("user", id) }

func Denied(reason string) error {
	return &AccessDeniedError{Reason: reason}
}
