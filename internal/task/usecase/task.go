package usecase

import (
	"context"
	"time"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
	"taskmaster-bot/internal/task/repository"
)

func (uc *implUseCase) RegisterUser(ctx context.Context, sc model.Scope) error {
	err := uc.repo.UpsertUser(ctx, repository.UpsertUserOptions{UserID: sc.UserID, Username: sc.Username})
	if err != nil {
		uc.l.Errorf(ctx, "internal.task.usecase.RegisterUser: user=%d: %v", sc.UserID, err)
		return storeError(err)
	}
	return nil
}

// Create inserts a new active task and mirrors its deadline to the calendar.
func (uc *implUseCase) Create(ctx context.Context, sc model.Scope, input task.CreateInput) (model.Task, error) {
	fields, err := normalizeFields(input.Fields)
	if err != nil {
		return model.Task{}, err
	}

	t, err := uc.repo.InsertTask(ctx, repository.InsertTaskOptions{
		UserID:   sc.UserID,
		Username: sc.Username,
		Fields:   fields,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.task.usecase.Create: user=%d: %v", sc.UserID, err)
		return model.Task{}, storeError(err)
	}

	uc.l.Infof(ctx, "internal.task.usecase.Create: user=%d task=%d", sc.UserID, t.ID)
	if t.Deadline != nil {
		uc.mirrorDeadline(ctx, t)
	}
	return t, nil
}

// Update overwrites the editable fields. When the deadline moves, the calendar event follows it.
func (uc *implUseCase) Update(ctx context.Context, sc model.Scope, input task.UpdateInput) (model.Task, error) {
	fields, err := normalizeFields(input.Fields)
	if err != nil {
		return model.Task{}, err
	}

	previous, known := uc.previousDeadline(ctx, sc, input.TaskID)

	t, err := uc.repo.UpdateTask(ctx, repository.UpdateTaskOptions{
		UserID: sc.UserID,
		TaskID: input.TaskID,
		Fields: fields,
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.task.usecase.Update: user=%d task=%d: %v", sc.UserID, input.TaskID, err)
		return model.Task{}, storeError(err)
	}

	if !known || !sameDeadline(previous, t.Deadline) {
		uc.mirrorDeadline(ctx, t)
	}
	return t, nil
}

// previousDeadline reads the stored deadline before an edit. It is only needed for the
// calendar mirror; known is false when it could not be read.
func (uc *implUseCase) previousDeadline(ctx context.Context, sc model.Scope, taskID int64) (deadline *time.Time, known bool) {
	if uc.calendar == nil {
		return nil, true
	}
	t, err := uc.repo.GetTask(ctx, sc.UserID, taskID)
	if err != nil {
		uc.l.Debugf(ctx, "internal.task.usecase.previousDeadline: task=%d: %v", taskID, err)
		return nil, false
	}
	return t.Deadline, true
}

// UpdateDeadline changes only the deadline and mirrors the new one to the calendar.
func (uc *implUseCase) UpdateDeadline(ctx context.Context, sc model.Scope, input task.UpdateDeadlineInput) (model.Task, error) {
	t, err := uc.repo.UpdateDeadline(ctx, repository.UpdateDeadlineOptions{
		UserID:   sc.UserID,
		TaskID:   input.TaskID,
		Deadline: input.Deadline,
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.task.usecase.UpdateDeadline: user=%d task=%d: %v", sc.UserID, input.TaskID, err)
		return model.Task{}, storeError(err)
	}

	uc.mirrorDeadline(ctx, t)
	return t, nil
}

func (uc *implUseCase) Complete(ctx context.Context, sc model.Scope, taskID int64) (model.Task, error) {
	t, err := uc.repo.SetStatus(ctx, repository.SetStatusOptions{
		UserID: sc.UserID,
		TaskID: taskID,
		Status: model.StatusCompleted,
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.task.usecase.Complete: user=%d task=%d: %v", sc.UserID, taskID, err)
		return model.Task{}, storeError(err)
	}
	return t, nil
}

func (uc *implUseCase) Delete(ctx context.Context, sc model.Scope, taskID int64) (model.Task, error) {
	t, err := uc.repo.DeleteTask(ctx, sc.UserID, taskID)
	if err != nil {
		uc.l.Warnf(ctx, "internal.task.usecase.Delete: user=%d task=%d: %v", sc.UserID, taskID, err)
		return model.Task{}, storeError(err)
	}
	if t.Deadline != nil {
		uc.dropEvent(ctx, t.ID)
	}
	return t, nil
}

func (uc *implUseCase) Detail(ctx context.Context, sc model.Scope, taskID int64) (model.Task, error) {
	t, err := uc.repo.GetTask(ctx, sc.UserID, taskID)
	if err != nil {
		return model.Task{}, storeError(err)
	}
	return t, nil
}

func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input task.ListInput) ([]model.Task, error) {
	tasks, err := uc.repo.QueryTasks(ctx, repository.QueryTasksOptions{
		UserID:    sc.UserID,
		Predicate: input.Predicate,
		Sort:      input.Sort,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.task.usecase.List: user=%d: %v", sc.UserID, err)
		return nil, storeError(err)
	}
	return tasks, nil
}

func (uc *implUseCase) Categories(ctx context.Context, sc model.Scope) ([]string, error) {
	values, err := uc.repo.DistinctCategories(ctx, sc.UserID)
	if err != nil {
		return nil, storeError(err)
	}
	return values, nil
}

func (uc *implUseCase) Tags(ctx context.Context, sc model.Scope) ([]string, error) {
	values, err := uc.repo.DistinctTags(ctx, sc.UserID)
	if err != nil {
		return nil, storeError(err)
	}
	return values, nil
}
