package wizard

import "errors"

var (
	// ErrEmptyRequiredField is reported when a create session gets no title.
	ErrEmptyRequiredField = errors.New("required field is empty")
	// ErrNothingToReschedule is returned by StartReschedule for a task without a deadline.
	ErrNothingToReschedule = errors.New("task has no deadline")
	ErrUnknownStep         = errors.New("unknown wizard step")
)
