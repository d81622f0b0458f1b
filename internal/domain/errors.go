package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotAllowed         = errors.New("not allowed for this role")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCapacityReached    = errors.New("event capacity reached")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrClubNotFound         = fmt.Errorf("club %w", ErrNotFound)
	ErrEventNotFound        = fmt.Errorf("event %w", ErrNotFound)
	ErrJoinRequestNotFound  = fmt.Errorf("join request %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrApprovalNotFound     = fmt.Errorf("approval %w", ErrNotFound)
	ErrNotMember            = fmt.Errorf("membership %w", ErrNotFound)
	ErrNotRegistered        = fmt.Errorf("registration %w", ErrNotFound)

	ErrAlreadyMember     = fmt.Errorf("membership %w", ErrAlreadyExists)
	ErrAlreadyRequested  = fmt.Errorf("join request %w", ErrAlreadyExists)
	ErrAlreadyRegistered = fmt.Errorf("registration %w", ErrAlreadyExists)
	ErrEmailTaken        = fmt.Errorf("email %w", ErrAlreadyExists)
)

// ValidationError carries the field-level reasons behind ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msg := ErrValidation.Error() + ":"
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		msg += fmt.Sprintf(" %s %s;", k, e.Fields[k])
	}
	return msg[:len(msg)-1]
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, reason string) error {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
