package postgre

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"taskmaster-bot/internal/model"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t                  model.Task
		description, categ sql.NullString
		priority, status   string
		tags               pq.StringArray
		deadline           sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &description, &priority, &categ,
		&tags, &deadline, &status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	t.Priority = model.Priority(priority)
	t.Status = model.Status(status)
	t.Description = stringPtr(description)
	t.Category = stringPtr(categ)
	if len(tags) > 0 {
		t.Tags = []string(tags)
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		t.Deadline = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
