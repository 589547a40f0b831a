package common

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every engine package. Typed errors below wrap them so callers can
// match either the category with errors.Is or the detail with errors.As.
var (
	// ErrConfiguration reports that the requested surface mode, provider or device cannot be served.
	ErrConfiguration = errors.New("configuration error")

	// ErrCapacity reports that the scene geometry arena is full.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrValidation reports a malformed marker field, camera id or texture id.
	ErrValidation = errors.New("validation error")

	// ErrPrecondition reports a caller contract violation such as reading outside the allocated buffer.
	ErrPrecondition = errors.New("precondition violated")

	// ErrReleased reports a call on a resource that has already been torn down.
	ErrReleased = errors.New("resource released")
)

// ValidationError names the offending field of a rejected value.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Reason describes why the value was rejected.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// CapacityError reports an append into a full fixed-capacity arena.
type CapacityError struct {
	// Capacity is the fixed slot count that was exhausted.
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("ran out of geoms: scene capacity of %d reached", e.Capacity)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacity
}
