package usecase

import (
	"context"
	"sync"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task/repository"
	"taskmaster-bot/pkg/gcalendar"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// Mock repository recording the last call of each kind.
type mockRepo struct {
	mu sync.Mutex

	task  model.Task
	tasks []model.Task
	err   error

	inserted     []repository.InsertTaskOptions
	updated      []repository.UpdateTaskOptions
	deadlines    []repository.UpdateDeadlineOptions
	statuses     []repository.SetStatusOptions
	queried      []repository.QueryTasksOptions
	upsertedUser []repository.UpsertUserOptions
}

func (m *mockRepo) UpsertUser(ctx context.Context, opt repository.UpsertUserOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertedUser = append(m.upsertedUser, opt)
	return m.err
}

func (m *mockRepo) InsertTask(ctx context.Context, opt repository.InsertTaskOptions) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, opt)
	if m.err != nil {
		return model.Task{}, m.err
	}
	t := m.task
	t.UserID = opt.UserID
	t.Title = opt.Fields.Title
	t.Description = opt.Fields.Description
	t.Priority = opt.Fields.Priority
	t.Category = opt.Fields.Category
	t.Tags = opt.Fields.Tags
	t.Deadline = opt.Fields.Deadline
	t.Status = model.StatusActive
	return t, nil
}

func (m *mockRepo) UpdateTask(ctx context.Context, opt repository.UpdateTaskOptions) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, opt)
	if m.err != nil {
		return model.Task{}, m.err
	}
	t := m.task
	t.Title = opt.Fields.Title
	t.Description = opt.Fields.Description
	t.Priority = opt.Fields.Priority
	t.Category = opt.Fields.Category
	t.Tags = opt.Fields.Tags
	t.Deadline = opt.Fields.Deadline
	return t, nil
}

func (m *mockRepo) UpdateDeadline(ctx context.Context, opt repository.UpdateDeadlineOptions) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadlines = append(m.deadlines, opt)
	if m.err != nil {
		return model.Task{}, m.err
	}
	t := m.task
	t.Deadline = opt.Deadline
	return t, nil
}

func (m *mockRepo) SetStatus(ctx context.Context, opt repository.SetStatusOptions) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, opt)
	if m.err != nil {
		return model.Task{}, m.err
	}
	t := m.task
	t.Status = opt.Status
	return t, nil
}

func (m *mockRepo) DeleteTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	return m.task, m.err
}

func (m *mockRepo) GetTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	return m.task, m.err
}

func (m *mockRepo) QueryTasks(ctx context.Context, opt repository.QueryTasksOptions) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queried = append(m.queried, opt)
	return m.tasks, m.err
}

func (m *mockRepo) DistinctCategories(ctx context.Context, userID int64) ([]string, error) {
	return []string{"Дом", "Работа"}, m.err
}

func (m *mockRepo) DistinctTags(ctx context.Context, userID int64) ([]string, error) {
	return []string{"work"}, m.err
}

// Mock calendar client
type mockCalendar struct {
	requests []gcalendar.EventRequest
	deleted  []string
	err      error
}

func (m *mockCalendar) PutEvent(ctx context.Context, req gcalendar.EventRequest) (*gcalendar.Event, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &gcalendar.Event{ID: req.EventID, Summary: req.Summary, StartTime: req.StartTime, EndTime: req.EndTime}, nil
}

func (m *mockCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	m.deleted = append(m.deleted, eventID)
	return m.err
}
