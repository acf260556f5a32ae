// Package errors provides custom error types for the reclass system.
// These errors enable programmatic error checking across the stores,
// the reconciliation engine and the adapters that sit on top of them.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Unwrap is an alias for the standard library errors.Unwrap.
var Unwrap = errors.Unwrap

// Common sentinel errors for the reclass system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrLoad indicates that a required source is missing or malformed
	ErrLoad = errors.New("load failed")

	// ErrPersistence indicates that a durable write failed
	ErrPersistence = errors.New("persistence failed")

	// ErrAllComplete indicates that no unresolved record is left to act on
	ErrAllComplete = errors.New("all records complete")

	// ErrSessionEnded indicates use of a session after it was ended
	ErrSessionEnded = errors.New("session ended")
)

// LoadError represents a source that is missing or malformed.
// It is fatal to the operation that needed the source and is never retried.
type LoadError struct {
	Source  string // "master", "hierarchy", "ledger"
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to load %s from %s: %s", e.Source, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// NewLoadError creates a new LoadError
func NewLoadError(source, path, message string, err error) *LoadError {
	return &LoadError{
		Source:  source,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// PersistenceError represents a failed durable write
type PersistenceError struct {
	Operation string // "append", "create", "open", "export"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("persistence error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("persistence error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(operation, path string, err error) *PersistenceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &PersistenceError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsLoad checks if an error is a load error
func IsLoad(err error) bool {
	return errors.Is(err, ErrLoad)
}

// IsPersistence checks if an error is a persistence error
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsAllComplete checks if an error reports that nothing is left to review
func IsAllComplete(err error) bool {
	return errors.Is(err, ErrAllComplete)
}

// Helper wrapping functions for common patterns

// WrapLoad wraps an error as a LoadError
func WrapLoad(source, path string, err error) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return NewLoadError(source, path, err.Error(), err)
}

// WrapPersistence wraps an error as a PersistenceError
func WrapPersistence(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return NewPersistenceError(operation, path, err)
}
