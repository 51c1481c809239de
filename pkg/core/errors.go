package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the store error taxonomy. Every typed error below
// matches exactly one of them with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrCoercion         = errors.New("coercion failed")
	ErrDecode           = errors.New("decode failed")
	ErrValidation       = errors.New("validation failed")
	ErrUniqueConstraint = errors.New("unique constraint violated")
	ErrNotFound         = errors.New("not found")
	ErrStore            = errors.New("store error")
)

// InvalidInputError is returned when a document cannot be used to build a
// query: it is empty, not flat, or names a field the registry does not declare.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: field %q: %s", e.Field, e.Reason)
}

// Is makes InvalidInputError match ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// CoercionError is returned when a document value cannot be converted to the
// semantic kind its column declares.
type CoercionError struct {
	Field string
	Kind  string
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot coerce field %q value %v to %s", e.Field, e.Value, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes CoercionError match ErrCoercion.
func (e *CoercionError) Is(target error) bool { return target == ErrCoercion }

func (e *CoercionError) Unwrap() error { return e.Err }

// DecodeError is returned when a result column cannot be read as the kind its
// registry declares. It indicates a schema mismatch, not bad user input.
type DecodeError struct {
	Column string
	Kind   string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot decode row: %v", e.Err)
	}
	return fmt.Sprintf("cannot decode column %q as %s: %v", e.Column, e.Kind, e.Err)
}

// Is makes DecodeError match ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError is returned when an entity document is missing required
// fields or carries values the entity rejects.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s: %s", e.Entity, e.Field, e.Reason)
}

// Is makes ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UniqueConstraintError is returned when the backend rejects a write because
// it would duplicate a unique value.
type UniqueConstraintError struct {
	Table      string
	Constraint string
	Field      string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s with this %s already exists", e.Table, e.Field)
	}
	return fmt.Sprintf("%s violates unique constraint %q", e.Table, e.Constraint)
}

// Is makes UniqueConstraintError match ErrUniqueConstraint.
func (e *UniqueConstraintError) Is(target error) bool { return target == ErrUniqueConstraint }

func (e *UniqueConstraintError) Unwrap() error { return e.Err }

// NotFoundError is returned by single-row lookups that matched nothing.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// Is makes NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StoreError wraps any other backend failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Is makes StoreError match ErrStore.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

func (e *StoreError) Unwrap() error { return e.Err }
