package postgre

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taskmaster-bot/internal/model"
	repo "taskmaster-bot/internal/task/repository"
)

const taskColumns = `task_id, user_id, title, description, priority, category, tags, deadline, status, created_at, updated_at`

const upsertUserQuery = `
	INSERT INTO users (user_id, username)
	VALUES ($1, $2)
	ON CONFLICT (user_id) DO NOTHING`

// UpsertUser registers the user once; later calls keep the stored row.
func (r *implRepository) UpsertUser(ctx context.Context, opt repo.UpsertUserOptions) error {
	if _, err := r.db.ExecContext(ctx, upsertUserQuery, opt.UserID, nullString(&opt.Username)); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertUser"), err)
		return repo.ErrFailedToInsert
	}
	return nil
}

// InsertTask upserts the owner and inserts an active task in one transaction.
func (r *implRepository) InsertTask(ctx context.Context, opt repo.InsertTaskOptions) (model.Task, error) {
	const query = `
		INSERT INTO tasks (user_id, title, description, priority, category, tags, deadline, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', NOW(), NOW())
		RETURNING ` + taskColumns

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("InsertTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, upsertUserQuery, opt.UserID, nullString(&opt.Username)); err != nil {
		r.l.Errorf(ctx, "%s user: %v", r.dsn("InsertTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}

	f := opt.Fields
	t, err := scanTask(tx.QueryRowContext(ctx, query,
		opt.UserID, f.Title, nullString(f.Description), string(f.Priority),
		nullString(f.Category), pq.Array(f.Tags), nullTime(f.Deadline),
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

// UpdateTask overwrites the six editable fields.
func (r *implRepository) UpdateTask(ctx context.Context, opt repo.UpdateTaskOptions) (model.Task, error) {
	const query = `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, category = $4, tags = $5, deadline = $6, updated_at = NOW()
		WHERE task_id = $7 AND user_id = $8
		RETURNING ` + taskColumns

	f := opt.Fields
	t, err := scanTask(r.db.QueryRowContext(ctx, query,
		f.Title, nullString(f.Description), string(f.Priority), nullString(f.Category),
		pq.Array(f.Tags), nullTime(f.Deadline), opt.TaskID, opt.UserID,
	))
	return t, r.rowError(ctx, "UpdateTask", err, repo.ErrFailedToUpdate)
}

func (r *implRepository) UpdateDeadline(ctx context.Context, opt repo.UpdateDeadlineOptions) (model.Task, error) {
	const query = `
		UPDATE tasks
		SET deadline = $1, updated_at = NOW()
		WHERE task_id = $2 AND user_id = $3
		RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, nullTime(opt.Deadline), opt.TaskID, opt.UserID))
	return t, r.rowError(ctx, "UpdateDeadline", err, repo.ErrFailedToUpdate)
}

func (r *implRepository) SetStatus(ctx context.Context, opt repo.SetStatusOptions) (model.Task, error) {
	const query = `
		UPDATE tasks
		SET status = $1, updated_at = NOW()
		WHERE task_id = $2 AND user_id = $3
		RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, string(opt.Status), opt.TaskID, opt.UserID))
	return t, r.rowError(ctx, "SetStatus", err, repo.ErrFailedToUpdate)
}

func (r *implRepository) DeleteTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	const query = `DELETE FROM tasks WHERE task_id = $1 AND user_id = $2 RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
	return t, r.rowError(ctx, "DeleteTask", err, repo.ErrFailedToDelete)
}

func (r *implRepository) GetTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1 AND user_id = $2`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
	return t, r.rowError(ctx, "GetTask", err, repo.ErrFailedToGet)
}

// QueryTasks returns the user's tasks matching the predicate, ordered by the sort key.
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
		WHERE user_id = $1 AND category IS NOT NULL AND category <> ''
		ORDER BY category`
	return r.distinct(ctx, "DistinctCategories", query, userID)
}

func (r *implRepository) DistinctTags(ctx context.Context, userID int64) ([]string, error) {
	const query = `
		SELECT DISTINCT tag FROM tasks, UNNEST(tags) AS tag
		WHERE user_id = $1 AND tag <> ''
		ORDER BY tag`
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

// rowError maps the outcome of a single-row statement. A missing row is ErrNotFound.
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
