package services

import (
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned when a document arrives without a booking key.
// It is raised before any persistence attempt.
var ErrEmptyPayload = errors.New("the request was empty")

// NotFoundError is returned when a must-exist lookup finds nothing. The
// normalizer never produces it (it always upserts); the administrative
// update/delete paths do.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("this instance of %s model does not exist", e.Entity)
}

// MissingFieldError is returned when a required key is absent partway through
// a normalization. The raw payload has typically been archived already, so
// only the normalized projection is deferred, never the data itself.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Path)
}

// InvariantViolationError is returned when an entity breaks one of the
// exactly-one-parent constraints. It aborts the whole document.
type InvariantViolationError struct {
	Entity string
	Err    error
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation on %s: %v", e.Entity, e.Err)
}

func (e *InvariantViolationError) Unwrap() error {
	return e.Err
}
