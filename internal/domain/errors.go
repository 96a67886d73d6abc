// Package domain holds the quote board's business types and the errors
// board actions fail with. Adapters translate store and transport failures
// into these; nothing here knows about HTTP.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Every typed error below unwraps to one.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")

	// ErrRejected is a non-success store answer with no more specific meaning.
	ErrRejected = errors.New("rejected")
)

// NotFoundError names the quote (or like) that the store does not have.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError rejects a draft before it reaches the store. Field is
// the form field at fault, if any.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnavailableError means the store could not be reached or failed itself.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("service %q unavailable", e.Service)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// RejectedError records the status of a store answer that has no better
// classification.
type RejectedError struct {
	Operation  string
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected with status %d", e.Operation, e.StatusCode)
}

func (e *RejectedError) Unwrap() error { return ErrRejected }

func NewNotFoundError(entity, id string) error { return &NotFoundError{Entity: entity, ID: id} }

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func NewRejectedError(operation string, statusCode int) error {
	return &RejectedError{Operation: operation, StatusCode: statusCode}
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
func IsRejected(err error) bool    { return errors.Is(err, ErrRejected) }
