// Package apperrors defines the error kinds returned by the catalog and
// reading-list repositories. The HTTP layer maps each kind to a status code.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// ConflictError reports a uniqueness violation or a delete blocked by
// dependent rows. Dependents is non-zero only for blocked deletes.
type ConflictError struct {
	Entity     string
	Field      string
	Value      any
	Dependents int64
	Reason     string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s with %s %v already exists", e.Entity, e.Field, e.Value)
}

// StoreError wraps an unexpected persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func Validation(field string, value any, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

func Duplicate(entity, field string, value any) error {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

// Blocked reports that entity cannot be deleted while dependents rows of
// the named kind still reference it.
func Blocked(entity string, dependents int64, kind string) error {
	return &ConflictError{
		Entity:     entity,
		Dependents: dependents,
		Reason: fmt.Sprintf("cannot delete %s with %d associated %s; remove them first",
			entity, dependents, kind),
	}
}

// Store wraps err as a StoreError. Errors that already carry one of the
// kinds in this package are returned unchanged.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsKnown(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}

// IsKnown reports whether err is one of the kinds defined in this package.
func IsKnown(err error) bool {
	return IsValidation(err) || IsNotFound(err) || IsConflict(err) || IsStore(err)
}
