package domain

import "fmt"

// Domain failure kinds. Every message identifies the offending id or
// value so it can be surfaced verbatim to the caller.

// NotFoundError the addressed entity id does not resolve.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ReferenceNotFoundError a referenced foreign entity does not exist.
type ReferenceNotFoundError struct {
	Message string
}

func (e *ReferenceNotFoundError) Error() string { return e.Message }

// ConflictError uniqueness violation or a delete blocked by dependents.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError malformed input rejected before it reaches domain logic.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func ErrProfileNotFound(id int64) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("Radius profile with id %d not found", id)}
}

func ErrProfileRefNotFound(id int64) *ReferenceNotFoundError {
	return &ReferenceNotFoundError{Message: fmt.Sprintf("Radius profile with id %d not found", id)}
}

func ErrUserNotFound(id int64) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("Radius user with id %d not found", id)}
}

func ErrDeviceNotFound(id int64) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("Device with id %d not found", id)}
}

func ErrUsernameTaken(username string) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf("Username %s already exists", username)}
}

func ErrProfileInUse(count int64) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf("%d users are still using this profile", count)}
}
