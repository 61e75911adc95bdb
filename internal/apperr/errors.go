package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an application error for transport mapping
type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

// Error carries a kind and a client-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a missing or malformed field
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an unknown ID, e.g. NotFound("Task") => "Task not found"
func NotFound(entity string) error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Conflict reports a duplicate unique key
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Store wraps a persistence failure; the message is the driver's, verbatim.
func Store(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindStore, Err: err}
}

// FromLookup maps the result of a keyed lookup: a missing record becomes
// NotFound(entity), anything else a store error.
func FromLookup(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity)
	}
	return Store(err)
}

// KindOf returns the kind of err, KindStore for foreign errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// HTTPStatus maps err to a response status code
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
