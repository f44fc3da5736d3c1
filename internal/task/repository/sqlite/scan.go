package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taskmaster-bot/internal/model"
)

// timeLayout is fixed width and always UTC so stored instants compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t                    model.Task
		description, categ   sql.NullString
		tags, deadline       sql.NullString
		priority, status     string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &description, &priority, &categ,
		&tags, &deadline, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	t.Priority = model.Priority(priority)
	t.Status = model.Status(status)
	t.Description = stringPtr(description)
	t.Category = stringPtr(categ)

	if t.Tags, err = decodeTags(tags); err != nil {
		return model.Task{}, err
	}
	if deadline.Valid {
		d, err := parseTime(deadline.String)
		if err != nil {
			return model.Task{}, err
		}
		t.Deadline = &d
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func encodeTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode tags: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeTags(ns sql.NullString) ([]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(ns.String), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
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

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
