package prismarest

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for generated services.
var (
	// ErrNotFound is returned when an addressed record does not exist.
	ErrNotFound = errors.New("prismarest: record not found")

	// ErrConflict is returned when a write violates a database constraint.
	ErrConflict = errors.New("prismarest: constraint violation")
)

// NotFoundError reports that no record matched an address.
type NotFoundError struct {
	entity string
	key    any // Optional: the address that was looked up
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.key != nil {
		return fmt.Sprintf("prismarest: %s not found (key=%v)", e.entity, e.key)
	}
	return fmt.Sprintf("prismarest: %s not found", e.entity)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Entity returns the entity name.
func (e *NotFoundError) Entity() string {
	return e.entity
}

// Key returns the address that was looked up, if available.
func (e *NotFoundError) Key() any {
	return e.key
}

// NewNotFoundError returns a new NotFoundError for the given entity.
func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{entity: entity}
}

// NewNotFoundErrorWithKey returns a new NotFoundError carrying the address
// that was looked up.
func NewNotFoundErrorWithKey(entity string, key any) *NotFoundError {
	return &NotFoundError{entity: entity, key: key}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("prismarest: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying driver error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// Is reports whether the target error matches ConstraintError.
// This allows errors.Is(constraintErr, ErrConflict) to return true.
func (e ConstraintError) Is(err error) bool {
	return err == ErrConflict
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// ValidationError represents a validation error for field values.
type ValidationError struct {
	Name string // Field name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("prismarest: validation failed for field %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given field.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// SystemFieldError reports a system field whose value could not be
// resolved for an operation.
type SystemFieldError struct {
	Field string // System field name
	Err   error  // Underlying resolution error
}

// Error returns the error string.
func (e *SystemFieldError) Error() string {
	return fmt.Sprintf("prismarest: resolving system field %q: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *SystemFieldError) Unwrap() error {
	return e.Err
}

// NewSystemFieldError returns a new SystemFieldError for the given field.
func NewSystemFieldError(field string, err error) *SystemFieldError {
	return &SystemFieldError{Field: field, Err: err}
}
