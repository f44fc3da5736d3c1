package telegram

import (
	"errors"

	"taskmaster-bot/internal/task"
	"taskmaster-bot/pkg/ratelimit"
)

// errorMessage returns a user-facing error string for the given error.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, task.ErrTargetNotFound):
		return msgTaskNotFound
	case errors.Is(err, task.ErrEmptyTitle):
		return msgEmptyTitle
	case errors.Is(err, ratelimit.ErrLimitExceeded):
		return msgRateLimited
	case errors.Is(err, task.ErrStoreFailure):
		return msgStoreUnavailable
	}
	return msgGenericError
}
