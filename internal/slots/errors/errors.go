package errors

import "errors"

var (
	ErrLockNotFound = errors.New("slot lock not found")

	// ErrLockExists means the conditional create failed because another
	// writer holds the slot.
	ErrLockExists = errors.New("slot lock already exists")
)
