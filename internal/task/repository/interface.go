package repository

import (
	"context"

	"taskmaster-bot/internal/model"
)

// Repository is the persistence contract for users and tasks.
// Row-level operations take the owning user id and report ErrNotFound when the
// task does not exist or belongs to someone else.
type Repository interface {
	UpsertUser(ctx context.Context, opt UpsertUserOptions) error

	// InsertTask upserts the owner and inserts the task in one transaction.
	InsertTask(ctx context.Context, opt InsertTaskOptions) (model.Task, error)
	UpdateTask(ctx context.Context, opt UpdateTaskOptions) (model.Task, error)
	UpdateDeadline(ctx context.Context, opt UpdateDeadlineOptions) (model.Task, error)
	SetStatus(ctx context.Context, opt SetStatusOptions) (model.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) (model.Task, error)
	GetTask(ctx context.Context, userID, taskID int64) (model.Task, error)

	QueryTasks(ctx context.Context, opt QueryTasksOptions) ([]model.Task, error)
	DistinctCategories(ctx context.Context, userID int64) ([]string, error)
	DistinctTags(ctx context.Context, userID int64) ([]string, error)
}
