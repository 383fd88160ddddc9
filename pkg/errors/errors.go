// Package errors provides the typed error kinds shared by the store, service and HTTP layers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error functions
var (
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Unwrap = errors.Unwrap
)

// Kind classifies an error independently of the store that produced it.
type Kind string

const (
	KindInvalidRequest   Kind = "invalid_request"
	KindPayloadTooLarge  Kind = "payload_too_large"
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindStoreFailure     Kind = "store_failure"
	KindStoreUnavailable Kind = "store_unavailable"
	KindStoreConstraint  Kind = "store_constraint"
	KindUnknown          Kind = "unknown"
)

var (
	Invalid          = NewWithKind(KindInvalidRequest)
	TooLarge         = NewWithKind(KindPayloadTooLarge)
	Unprocessable    = NewWithKind(KindValidation)
	NotFound         = NewWithKind(KindNotFound)
	StoreFailure     = NewWithKind(KindStoreFailure)
	StoreUnavailable = NewWithKind(KindStoreUnavailable)
	StoreConstraint  = NewWithKind(KindStoreConstraint)
)

// FieldError represents a validation error for a specific field
type FieldError struct {
	Kind    string `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message,omitempty"`
}

func (f *FieldError) Error() string {
	return fmt.Sprintf("%s (%s): %s", f.Field, f.Kind, f.Message)
}

func NewFieldError(kind, field, reason string) FieldError {
	return FieldError{Kind: kind, Field: field, Message: reason}
}

// Error is a custom error type for passing more information
type Error struct {
	// Kind is the returned error type
	Kind Kind `json:"kind"`
	// Message is the human readable string that is safe to show to clients
	Message string `json:"message"`
	// Fields used when there's validation error for a field.
	Fields []FieldError `json:"fields,omitempty"`

	cause error
}

var _ error = (*Error)(nil)

func New(message string) *Error {
	return &Error{Kind: KindUnknown, Message: message}
}

func NewWithKind(kind Kind) *Error {
	return &Error{Kind: kind}
}

func Wrap(err error) *Error {
	return &Error{Kind: KindUnknown, cause: err}
}

// Error implements error
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] ", e.Kind)
	if e.Message != "" {
		str += e.Message
	}
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	return str
}

// Reason returns a copy of the error with kind set to given value
func (e *Error) Reason(kind Kind) *Error {
	err := *e
	err.Kind = kind
	return &err
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Wrap returns a copy of the error with the cause set.
func (e *Error) Wrap(cause error) *Error {
	err := *e
	err.cause = cause
	return &err
}

// Explain makes a copy of the error with given message
func (e *Error) Explain(message string, args ...any) *Error {
	err := *e
	err.Message = fmt.Sprintf(message, args...)
	return &err
}

func (e *Error) WithFields(fields []FieldError) *Error {
	newError := *e
	newError.Fields = fields
	return &newError
}

// WithField returns a copy of error with the field appended.
func (e *Error) WithField(kind, field, message string) *Error {
	newError := *e
	newError.Fields = append(append([]FieldError(nil), e.Fields...), NewFieldError(kind, field, message))
	return &newError
}

// Is implements the needed interface for errors.Is.
// Two *Error values match when their kinds are equal.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsStoreKind reports whether k describes a failure of the backing store.
func IsStoreKind(k Kind) bool {
	switch k {
	case KindStoreFailure, KindStoreUnavailable, KindStoreConstraint:
		return true
	}
	return false
}

// HTTPStatus maps err to the response status code. Anything that is not a
// typed client error is a 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that may be sent to clients. Untyped
// errors never leak their text.
func PublicMessage(err error) string {
	var e *Error
	if As(err, &e) && e.Message != "" {
		return e.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}
