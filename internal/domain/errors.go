package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrIdentityNotFound     = errors.New("auth identity not found")
	ErrSessionMissing       = errors.New("no authenticated session")
	ErrInvalidToken         = errors.New("invalid token")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrInvalidCode          = errors.New("invalid verification code")
	ErrCodeExpired          = errors.New("verification code expired")
	ErrTooManyAttempts      = errors.New("too many verification attempts")
	ErrUnknownStep          = errors.New("unknown onboarding step")
	ErrOnboardingNotStarted = errors.New("onboarding session not started")
	ErrOnboardingIncomplete = errors.New("onboarding is not complete")
	ErrAreaNotFound         = errors.New("area not found")
	ErrInvalidInput         = errors.New("invalid input")
)

// ValidationError is a local input failure. It never reaches the store.
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

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ProfileCreationError is returned when the users row cannot be created
// because a precondition (session, first name, birth date) is not met.
type ProfileCreationError struct {
	Reason string
	Err    error
}

func (e *ProfileCreationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("profile creation failed: %s: %v", e.Reason, e.Err)
	}
	return "profile creation failed: " + e.Reason
}

func (e *ProfileCreationError) Unwrap() error { return e.Err }

// RemoteWriteError wraps any failure coming back from the data or object store.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// PartialReconciliationError marks a write where the primary row was stored
// but a secondary, denormalized copy was not.
type PartialReconciliationError struct {
	Op  string
	Err error
}

func (e *PartialReconciliationError) Error() string {
	return fmt.Sprintf("partial reconciliation in %s: %v", e.Op, e.Err)
}

func (e *PartialReconciliationError) Unwrap() error { return e.Err }
