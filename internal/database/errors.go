package database

import (
	"errors"
	"fmt"
)

var ErrReminderNotFound = errors.New("reminder not found")

// StorageError wraps a transport or availability failure from the persistence
// layer. Synchronous callers surface it as a 5xx-equivalent; the background
// sweep logs it and keeps going.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
