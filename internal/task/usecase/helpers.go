package usecase

import (
	"errors"
	"fmt"
	"strings"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
	"taskmaster-bot/internal/task/repository"
)

// storeError translates repository errors into domain errors.
func storeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return task.ErrTargetNotFound
	}
	return fmt.Errorf("%w: %w", task.ErrStoreFailure, err)
}

// normalizeFields trims text fields, drops empty optionals and defaults the priority.
func normalizeFields(f model.TaskFields) (model.TaskFields, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return model.TaskFields{}, task.ErrEmptyTitle
	}
	if !f.Priority.Valid() {
		f.Priority = model.DefaultPriority
	}
	f.Description = trimOptional(f.Description)
	f.Category = trimOptional(f.Category)

	var tags []string
	for _, tag := range f.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	f.Tags = tags
	return f, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
