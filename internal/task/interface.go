package task

import (
	"context"

	"taskmaster-bot/internal/model"
)

// UseCase defines the business logic interface for the task domain.
// Every operation is scoped to sc.UserID: tasks of other users are reported as ErrTargetNotFound.
type UseCase interface {
	// RegisterUser records the user on first contact. Repeated calls are no-ops.
	RegisterUser(ctx context.Context, sc model.Scope) error

	// Create inserts a new active task. Missing priority defaults to medium.
	Create(ctx context.Context, sc model.Scope, input CreateInput) (model.Task, error)

	// Update overwrites all six editable fields of an existing task.
	Update(ctx context.Context, sc model.Scope, input UpdateInput) (model.Task, error)

	// UpdateDeadline changes only the deadline of an existing task.
	UpdateDeadline(ctx context.Context, sc model.Scope, input UpdateDeadlineInput) (model.Task, error)

	Complete(ctx context.Context, sc model.Scope, taskID int64) (model.Task, error)

	// Delete removes the task and returns it as it was before removal.
	Delete(ctx context.Context, sc model.Scope, taskID int64) (model.Task, error)

	Detail(ctx context.Context, sc model.Scope, taskID int64) (model.Task, error)

	// List returns the user's tasks matching the resolved filter, in its sort order.
	List(ctx context.Context, sc model.Scope, input ListInput) ([]model.Task, error)

	// Categories and Tags list the distinct values the user has used, sorted.
	Categories(ctx context.Context, sc model.Scope) ([]string, error)
	Tags(ctx context.Context, sc model.Scope) ([]string, error)
}
