package task

import (
	"time"

	"taskmaster-bot/internal/filter"
	"taskmaster-bot/internal/model"
)

// CreateInput is the input for creating a task.
type CreateInput struct {
	Fields model.TaskFields
}

// UpdateInput replaces every editable field of TaskID.
type UpdateInput struct {
	TaskID int64
	Fields model.TaskFields
}

// UpdateDeadlineInput sets the deadline of TaskID. A nil Deadline clears it.
type UpdateDeadlineInput struct {
	TaskID   int64
	Deadline *time.Time
}

// ListInput selects tasks by a resolved filter.
type ListInput struct {
	Predicate filter.Predicate
	Sort      filter.SortKey
}
