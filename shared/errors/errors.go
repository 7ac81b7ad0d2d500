package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already taken")
)

// Is reports whether err is an instance of T, looking through wrapped errors.
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

type FieldError struct {
	Field    string
	Messages []string
}

// ValidationError carries field-level messages in the order fields were checked.
// Cause, when set, lets callers match the underlying condition with errors.Is.
type ValidationError struct {
	Fields []FieldError
	Cause  error
}

func NewValidationError(field string, messages ...string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Messages: messages}}}
}

// Add appends message to field, creating the field entry if needed.
func (e *ValidationError) Add(field, message string) {
	for i := range e.Fields {
		if e.Fields[i].Field == field {
			e.Fields[i].Messages = append(e.Fields[i].Messages, message)
			return
		}
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Messages: []string{message}})
}

// Has reports whether field has at least one message.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Messages renders one "field : msg1, msg2" line per field.
func (e *ValidationError) Messages() []string {
	lines := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		lines = append(lines, fmt.Sprintf("%s : %s", f.Field, strings.Join(f.Messages, ", ")))
	}
	return lines
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation error: %s", strings.Join(e.Messages(), "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// AuthenticationError means the credentials or token do not resolve to a live account.
// The message is safe to show to clients.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// OperationError reports a downstream failure. Message is shown to clients,
// Err is only logged.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
