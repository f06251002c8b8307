package db

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDefaultNotebook = errors.New("the default notebook cannot be deleted")
)

// StoreError reports a failed store operation. It wraps the driver error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreFailure reports whether err came from the underlying store rather
// than from a missing row or a rejected request.
func IsStoreFailure(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
