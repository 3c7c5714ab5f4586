package storage

import "errors"

// Classified errors returned by stores and services. Callers branch with errors.Is.
var (
	// ErrNotFound means a lookup found nothing. It is ordinary control flow.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness rule would be violated.
	ErrConflict = errors.New("conflict")

	// ErrValidation means the input was rejected before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrTransactionFailed means a multi-row write was rolled back.
	// No partial effect remains.
	ErrTransactionFailed = errors.New("transaction failed")
)
