// internal/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"
)

// Typed errors returned by the service layer. The HTTP layer translates them
// to status codes; services never report a rejected operation as a bare
// string, so the caller always learns which guard failed.

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

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

type InvalidTransitionError struct {
	From   string // current status
	Event  string // attempted operation
	Reason string // the guard that failed
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s from status %q: %s", e.Event, e.From, e.Reason)
	}
	return fmt.Sprintf("cannot %s from status %q", e.Event, e.From)
}

func InvalidTransition(from, event, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Event: event, Reason: reason}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("field %q cannot be modified", e.Field)
}

func ImmutableField(field string) *ImmutableFieldError {
	return &ImmutableFieldError{Field: field}
}

// Convenience matchers for callers that only care about the category.

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsImmutableField(err error) bool {
	var e *ImmutableFieldError
	return errors.As(err, &e)
}
