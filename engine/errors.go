// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"

	"github.com/gviegas/rcore/driver"
)

// ErrNotCreated means that an operation required an
// object that was never created (or was destroyed).
var ErrNotCreated = errors.New("engine: object not created")

// ErrAlreadyCreated means that Init was called on an
// object that was already created.
var ErrAlreadyCreated = errors.New("engine: object already created")

// ErrDestroyed means that Init was called on an object
// that was destroyed. Destroyed objects cannot be
// created again.
var ErrDestroyed = errors.New("engine: object destroyed")

// CreationError is the error returned when the creation
// of a native object fails.
// It is always fatal to the caller's setup.
type CreationError struct {
	// Op is the failed operation (e.g., "NewImage").
	Op string
	// Status is the native result code.
	Status driver.Status
	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *CreationError) Error() string {
	return fmt.Sprintf("engine: %s failed (%s): %v", e.Op, e.Status, e.Err)
}

// Unwrap returns e.Err.
func (e *CreationError) Unwrap() error { return e.Err }

// newCreationError wraps err in a *CreationError, unless
// it is one already.
func newCreationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CreationError
	if errors.As(err, &ce) {
		return err
	}
	return &CreationError{Op: op, Status: driver.StatusOf(err), Err: err}
}

// notCreated returns an error wrapping ErrNotCreated.
func notCreated(op, what string) error {
	return fmt.Errorf("engine: %s: nil %s: %w", op, what, ErrNotCreated)
}
