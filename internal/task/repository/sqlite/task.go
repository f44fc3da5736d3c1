package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"taskmaster-bot/internal/model"
	repo "taskmaster-bot/internal/task/repository"
)

const taskColumns = `task_id, user_id, title, description, priority, category, tags, deadline, status, created_at, updated_at`

const upsertUserQuery = `
	INSERT INTO users (user_id, username, registered_at)
	VALUES (?, ?, ?)
	ON CONFLICT (user_id) DO NOTHING`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *implRepository) upsertUser(ctx context.Context, db execer, userID int64, username string) error {
	_, err := db.ExecContext(ctx, upsertUserQuery, userID, nullString(&username), formatTime(r.now()))
	return err
}

func (r *implRepository) UpsertUser(ctx context.Context, opt repo.UpsertUserOptions) error {
	if err := r.upsertUser(ctx, r.db, opt.UserID, opt.Username); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertUser"), err)
		return repo.ErrFailedToInsert
	}
	return nil
}

func (r *implRepository) InsertTask(ctx context.Context, opt repo.InsertTaskOptions) (model.Task, error) {
	const query = `
		INSERT INTO tasks (user_id, title, description, priority, category, tags, deadline, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)
		RETURNING ` + taskColumns

	f := opt.Fields
	tags, err := encodeTags(f.Tags)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("InsertTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("InsertTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	defer tx.Rollback() //nolint:errcheck

	if err := r.upsertUser(ctx, tx, opt.UserID, opt.Username); err != nil {
		r.l.Errorf(ctx, "%s user: %v", r.dsn("InsertTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}

	now := formatTime(r.now())
	t, err := scanTask(tx.QueryRowContext(ctx, query,
		opt.UserID, f.Title, nullString(f.Description), string(f.Priority),
		nullString(f.Category), tags, nullTime(f.Deadline), now, now,
	))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("InsertTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("InsertTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	return t, nil
}

func (r *implRepository) UpdateTask(ctx context.Context, opt repo.UpdateTaskOptions) (model.Task, error) {
	const query = `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, category = ?, tags = ?, deadline = ?, updated_at = ?
		WHERE task_id = ? AND user_id = ?
		RETURNING ` + taskColumns

	f := opt.Fields
	tags, err := encodeTags(f.Tags)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, repo.ErrFailedToUpdate
	}

	t, err := scanTask(r.db.QueryRowContext(ctx, query,
		f.Title, nullString(f.Description), string(f.Priority), nullString(f.Category),
		tags, nullTime(f.Deadline), formatTime(r.now()), opt.TaskID, opt.UserID,
	))
	return t, r.rowError(ctx, "UpdateTask", err, repo.ErrFailedToUpdate)
}

func (r *implRepository) UpdateDeadline(ctx context.Context, opt repo.UpdateDeadlineOptions) (model.Task, error) {
	const query = `
		UPDATE tasks SET deadline = ?, updated_at = ?
		WHERE task_id = ? AND user_id = ?
		RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query,
		nullTime(opt.Deadline), formatTime(r.now()), opt.TaskID, opt.UserID,
	))
	return t, r.rowError(ctx, "UpdateDeadline", err, repo.ErrFailedToUpdate)
}

func (r *implRepository) SetStatus(ctx context.Context, opt repo.SetStatusOptions) (model.Task, error) {
	const query = `
		UPDATE tasks SET status = ?, updated_at = ?
		WHERE task_id = ? AND user_id = ?
		RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query,
		string(opt.Status), formatTime(r.now()), opt.TaskID, opt.UserID,
	))
	return t, r.rowError(ctx, "SetStatus", err, repo.ErrFailedToUpdate)
}

func (r *implRepository) DeleteTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	const query = `DELETE FROM tasks WHERE task_id = ? AND user_id = ? RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
	return t, r.rowError(ctx, "DeleteTask", err, repo.ErrFailedToDelete)
}

func (r *implRepository) GetTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = ? AND user_id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
	return t, r.rowError(ctx, "GetTask", err, repo.ErrFailedToGet)
}

func (r *implRepository) QueryTasks(ctx context.Context, opt repo.QueryTasksOptions) ([]model.Task, error) {
	mods, args := r.buildQueryTasks(opt)
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks `+mods, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("QueryTasks"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("QueryTasks"), err)
			return nil, repo.ErrFailedToList
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("QueryTasks"), err)
		return nil, repo.ErrFailedToList
	}
	return tasks, nil
}

func (r *implRepository) DistinctCategories(ctx context.Context, userID int64) ([]string, error) {
	const query = `
		SELECT DISTINCT category FROM tasks
		WHERE user_id = ? AND category IS NOT NULL AND category <> ''
		ORDER BY category`
	return r.distinct(ctx, "DistinctCategories", query, userID)
}

func (r *implRepository) DistinctTags(ctx context.Context, userID int64) ([]string, error) {
	const query = `
		SELECT DISTINCT j.value FROM tasks, json_each(tasks.tags) AS j
		WHERE tasks.user_id = ? AND tasks.tags IS NOT NULL AND j.value <> ''
		ORDER BY j.value`
	return r.distinct(ctx, "DistinctTags", query, userID)
}

func (r *implRepository) distinct(ctx context.Context, method, query string, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn(method), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn(method), err)
			return nil, repo.ErrFailedToList
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn(method), err)
		return nil, repo.ErrFailedToList
	}
	return values, nil
}

func (r *implRepository) rowError(ctx context.Context, method string, err, failed error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return repo.ErrNotFound
	default:
		r.l.Errorf(ctx, "%s: %v", r.dsn(method), err)
		return failed
	}
}
