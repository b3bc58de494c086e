// Package store holds the error taxonomy shared by the profile and plant
// repositories and their backends.
package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyExists    = errors.New("record already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrOperationFailed  = errors.New("operation failed, check connectivity")
)

// Failed annotates err with the operation name. Backend failures that do not
// already carry one of the sentinels above are classified as ErrOperationFailed.
func Failed(op string, err error) error {
	if err == nil {
		return nil
	}

	if isClassified(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrOperationFailed, err)
}

// Invalid wraps a validation failure as ErrInvalidInput
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func isClassified(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrOperationFailed) ||
		errors.Is(err, context.Canceled)
}
