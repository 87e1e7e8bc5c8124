package errors

import (
	"errors"
	"fmt"
)

// ValidationError is raised before any remote or storage call when input is
// malformed. Callers recover by correcting the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError means the targeted id is absent from the authoritative source
// for that fact.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ExternalServiceError wraps a failed remote call to the room directory:
// network error, timeout, or an explicit non-success result. The operation may
// be partially applied.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("external service: %s failed", e.Op)
	}
	return fmt.Sprintf("external service: %s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func NewExternalService(op string, err error) error {
	return &ExternalServiceError{Op: op, Err: err}
}

// ConsistencyError means a post-write verification read disagreed with the
// expected post-state: some write succeeded but the two stores diverged.
// Distinct from ExternalServiceError so callers can tell "the write plausibly
// failed" apart from "the stores disagree".
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string {
	return e.Message
}

func NewConsistency(format string, args ...any) error {
	return &ConsistencyError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsExternalService(err error) bool {
	var target *ExternalServiceError
	return errors.As(err, &target)
}

func IsConsistency(err error) bool {
	var target *ConsistencyError
	return errors.As(err, &target)
}

// Kind returns the wire-level error kind emitted to clients.
func Kind(err error) string {
	switch {
	case IsValidation(err):
		return "validation"
	case IsNotFound(err):
		return "not_found"
	case IsConsistency(err):
		return "consistency"
	case IsExternalService(err):
		return "external_service"
	default:
		return "internal"
	}
}
