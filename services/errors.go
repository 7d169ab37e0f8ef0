package services

import "fmt"

// ValidationError reports malformed or missing input. It carries the field
// it refers to so the boundary layer can surface field-level messages.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports that a requested time slot is already occupied.
// It is a validation failure, but clients distinguish it to offer a
// "pick another slot" flow.
type ConflictError struct {
	Date string
	Time string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot %s %s is already booked", e.Date, e.Time)
}

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// AuthorizationError reports that the caller may not act on a record they
// do not own.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}
