package repository

import "errors"

var (
	// ErrNotFound is returned when the task does not exist or belongs to another user.
	ErrNotFound = errors.New("record not found")

	ErrFailedToInsert = errors.New("failed to insert record")
	ErrFailedToGet    = errors.New("failed to get record")
	ErrFailedToList   = errors.New("failed to list records")
	ErrFailedToUpdate = errors.New("failed to update record")
	ErrFailedToDelete = errors.New("failed to delete record")
)
