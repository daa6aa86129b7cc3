package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrAccountUnavailable = errors.New("account service unavailable")
	ErrMalformedResponse  = errors.New("malformed account service response")
	ErrSubmissionPending  = errors.New("a submission is already in progress")
	ErrSelfRoleChange     = errors.New("administrators cannot change their own role")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrSessionNotFound    = errors.New("browser session not found")
	ErrSessionConflict    = errors.New("browser session changed since it was loaded")
	ErrValidation         = errors.New("validation failed")
)

// RemoteError is a non-success answer from the Account Service.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("account service returned %d", e.Status)
	}
	return fmt.Sprintf("account service returned %d: %s", e.Status, e.Message)
}

// UserMessage picks the text shown to the visitor for err: the Account
// Service's own message when it sent one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
