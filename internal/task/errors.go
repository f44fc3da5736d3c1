package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrTargetNotFound = errors.New("task not found")
	ErrStoreFailure   = errors.New("task store failure")
	ErrEmptyTitle     = errors.New("task title is empty")
)
