package repository

import (
	"time"

	"taskmaster-bot/internal/filter"
	"taskmaster-bot/internal/model"
)

// UpsertUserOptions identifies a Telegram user.
type UpsertUserOptions struct {
	UserID   int64
	Username string
}

// InsertTaskOptions holds the parameters for inserting a task. Status is always active.
type InsertTaskOptions struct {
	UserID   int64
	Username string
	Fields   model.TaskFields
}

// UpdateTaskOptions overwrites all editable fields.
type UpdateTaskOptions struct {
	UserID int64
	TaskID int64
	Fields model.TaskFields
}

type UpdateDeadlineOptions struct {
	UserID   int64
	TaskID   int64
	Deadline *time.Time
}

type SetStatusOptions struct {
	UserID int64
	TaskID int64
	Status model.Status
}

// QueryTasksOptions filters the user's tasks. Rows come back in Sort order.
type QueryTasksOptions struct {
	UserID    int64
	Predicate filter.Predicate
	Sort      filter.SortKey
}
