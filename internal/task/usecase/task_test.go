package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"taskmaster-bot/internal/filter"
	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
	"taskmaster-bot/internal/task/repository"
)

func ptr[T any](v T) *T { return &v }

var testScope = model.Scope{UserID: 42, Username: "alice", ChatID: 42}

func TestCreate(t *testing.T) {
	deadline := time.Date(2025, 3, 11, 20, 59, 0, 0, time.UTC)

	tests := []struct {
		name       string
		input      model.TaskFields
		repoErr    error
		wantErr    error
		wantFields model.TaskFields
	}{
		{
			name:       "defaults priority and drops blank optionals",
			input:      model.TaskFields{Title: "  Buy milk ", Description: ptr("  "), Tags: []string{" a ", "", "b"}},
			wantFields: model.TaskFields{Title: "Buy milk", Priority: model.PriorityMedium, Tags: []string{"a", "b"}},
		},
		{
			name:       "keeps explicit fields",
			input:      model.TaskFields{Title: "Report", Priority: model.PriorityHigh, Category: ptr("Работа"), Deadline: &deadline},
			wantFields: model.TaskFields{Title: "Report", Priority: model.PriorityHigh, Category: ptr("Работа"), Deadline: &deadline},
		},
		{
			name:    "empty title",
			input:   model.TaskFields{Title: "   "},
			wantErr: task.ErrEmptyTitle,
		},
		{
			name:    "store failure",
			input:   model.TaskFields{Title: "x"},
			repoErr: repository.ErrFailedToInsert,
			wantErr: task.ErrStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{task: model.Task{ID: 1}, err: tt.repoErr}
			uc := New(&mockLogger{}, repo, nil, CalendarConfig{})

			got, err := uc.Create(context.Background(), testScope, task.CreateInput{Fields: tt.input})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(repo.inserted) != 1 {
				t.Fatalf("InsertTask calls = %d, want 1", len(repo.inserted))
			}
			if opt := repo.inserted[0]; opt.UserID != 42 || opt.Username != "alice" {
				t.Errorf("scope not forwarded: %+v", opt)
			}
			if !reflect.DeepEqual(got.Fields(), tt.wantFields) {
				t.Errorf("fields = %+v\nwant %+v", got.Fields(), tt.wantFields)
			}
			if got.Status != model.StatusActive {
				t.Errorf("Status = %s", got.Status)
			}
		})
	}
}

func TestStoreErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{"not found", repository.ErrNotFound, task.ErrTargetNotFound},
		{"update failure", repository.ErrFailedToUpdate, task.ErrStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := New(&mockLogger{}, &mockRepo{err: tt.repoErr}, nil, CalendarConfig{})
			ctx := context.Background()

			calls := map[string]func() error{
				"Update": func() error {
					_, err := uc.Update(ctx, testScope, task.UpdateInput{TaskID: 1, Fields: model.TaskFields{Title: "x"}})
					return err
				},
				"UpdateDeadline": func() error {
					_, err := uc.UpdateDeadline(ctx, testScope, task.UpdateDeadlineInput{TaskID: 1})
					return err
				},
				"Complete": func() error { _, err := uc.Complete(ctx, testScope, 1); return err },
				"Delete":   func() error { _, err := uc.Delete(ctx, testScope, 1); return err },
				"Detail":   func() error { _, err := uc.Detail(ctx, testScope, 1); return err },
			}
			for name, call := range calls {
				if err := call(); !errors.Is(err, tt.wantErr) {
					t.Errorf("%s: expected %v, got %v", name, tt.wantErr, err)
				}
			}
		})
	}

	if err := storeError(repository.ErrFailedToList); !errors.Is(err, repository.ErrFailedToList) {
		t.Errorf("store failure must keep the cause, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	repo := &mockRepo{task: model.Task{ID: 9, Title: "t", Status: model.StatusActive}}
	uc := New(&mockLogger{}, repo, nil, CalendarConfig{})

	got, err := uc.Complete(context.Background(), testScope, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Errorf("Status = %s, want completed", got.Status)
	}
	want := repository.SetStatusOptions{UserID: 42, TaskID: 9, Status: model.StatusCompleted}
	if !reflect.DeepEqual(repo.statuses, []repository.SetStatusOptions{want}) {
		t.Errorf("SetStatus calls = %+v", repo.statuses)
	}
}

func TestList(t *testing.T) {
	repo := &mockRepo{tasks: []model.Task{{ID: 1}, {ID: 2}}}
	uc := New(&mockLogger{}, repo, nil, CalendarConfig{})
	res := filter.Resolve(filter.TokenHigh, time.Now())

	got, err := uc.List(context.Background(), testScope, task.ListInput{Predicate: res.Predicate, Sort: res.Sort})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if len(repo.queried) != 1 || repo.queried[0].UserID != 42 || !reflect.DeepEqual(repo.queried[0].Predicate, res.Predicate) {
		t.Errorf("QueryTasks calls = %+v", repo.queried)
	}
}

func TestCalendarMirror(t *testing.T) {
	deadline := time.Date(2025, 3, 11, 20, 59, 0, 0, time.UTC)
	cfg := CalendarConfig{CalendarID: "primary", Timezone: "Europe/Moscow"}

	t.Run("create with deadline", func(t *testing.T) {
		cal := &mockCalendar{}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 1}}, cal, cfg)

		_, err := uc.Create(context.Background(), testScope, task.CreateInput{Fields: model.TaskFields{Title: "Report", Deadline: &deadline, Tags: []string{"work"}}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cal.requests) != 1 {
			t.Fatalf("PutEvent calls = %d, want 1", len(cal.requests))
		}
		req := cal.requests[0]
		if !req.EndTime.Equal(deadline) || !req.StartTime.Equal(deadline.Add(-30*time.Minute)) {
			t.Errorf("event window = %v..%v", req.StartTime, req.EndTime)
		}
		if req.Summary != "Report" || req.CalendarID != "primary" || req.Timezone != "Europe/Moscow" || req.EventID != "taskmaster1" {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("no deadline no event", func(t *testing.T) {
		cal := &mockCalendar{}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 1}}, cal, cfg)

		if _, err := uc.Create(context.Background(), testScope, task.CreateInput{Fields: model.TaskFields{Title: "x"}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cal.requests) != 0 {
			t.Errorf("PutEvent calls = %d, want 0", len(cal.requests))
		}
	})

	t.Run("edit that moves deadline", func(t *testing.T) {
		old := deadline.Add(-24 * time.Hour)
		cal := &mockCalendar{}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 7, Title: "Report", Deadline: &old}}, cal, cfg)

		moved := deadline
		_, err := uc.Update(context.Background(), testScope, task.UpdateInput{TaskID: 7, Fields: model.TaskFields{Title: "Report", Deadline: &moved}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cal.requests) != 1 {
			t.Fatalf("PutEvent calls = %d, want 1", len(cal.requests))
		}
		if req := cal.requests[0]; req.EventID != "taskmaster7" || !req.EndTime.Equal(moved) {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("edit that keeps deadline", func(t *testing.T) {
		same := deadline
		cal := &mockCalendar{}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 7, Title: "Report", Deadline: &same}}, cal, cfg)

		kept := deadline
		_, err := uc.Update(context.Background(), testScope, task.UpdateInput{TaskID: 7, Fields: model.TaskFields{Title: "Renamed", Deadline: &kept}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cal.requests) != 0 || len(cal.deleted) != 0 {
			t.Errorf("calendar calls = %d put, %d delete, want none", len(cal.requests), len(cal.deleted))
		}
	})

	t.Run("edit that clears deadline", func(t *testing.T) {
		old := deadline
		cal := &mockCalendar{}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 7, Title: "Report", Deadline: &old}}, cal, cfg)

		_, err := uc.Update(context.Background(), testScope, task.UpdateInput{TaskID: 7, Fields: model.TaskFields{Title: "Report"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cal.requests) != 0 || len(cal.deleted) != 1 || cal.deleted[0] != "taskmaster7" {
			t.Errorf("put = %d, deleted = %v", len(cal.requests), cal.deleted)
		}
	})

	t.Run("repeated reschedule addresses one event", func(t *testing.T) {
		cal := &mockCalendar{}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 3, Title: "x"}}, cal, cfg)

		for i := 0; i < 2; i++ {
			d := deadline.Add(time.Duration(i) * time.Hour)
			if _, err := uc.UpdateDeadline(context.Background(), testScope, task.UpdateDeadlineInput{TaskID: 3, Deadline: &d}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if len(cal.requests) != 2 || cal.requests[0].EventID != cal.requests[1].EventID {
			t.Errorf("requests = %+v, want two writes to the same event", cal.requests)
		}
	})

	t.Run("delete removes event", func(t *testing.T) {
		d := deadline
		cal := &mockCalendar{}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 5, Deadline: &d}}, cal, cfg)

		if _, err := uc.Delete(context.Background(), testScope, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cal.deleted) != 1 || cal.deleted[0] != "taskmaster5" {
			t.Errorf("deleted = %v, want [taskmaster5]", cal.deleted)
		}
	})

	t.Run("calendar failure is not fatal", func(t *testing.T) {
		cal := &mockCalendar{err: errors.New("quota")}
		uc := New(&mockLogger{}, &mockRepo{task: model.Task{ID: 1, Title: "x"}}, cal, cfg)

		got, err := uc.UpdateDeadline(context.Background(), testScope, task.UpdateDeadlineInput{TaskID: 1, Deadline: &deadline})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Deadline == nil || !got.Deadline.Equal(deadline) {
			t.Errorf("Deadline = %v", got.Deadline)
		}
		if len(cal.requests) != 1 {
			t.Errorf("PutEvent calls = %d, want 1", len(cal.requests))
		}
	})
}

func TestEventDescription(t *testing.T) {
	got := eventDescription(model.Task{
		Description: ptr("details"),
		Priority:    model.PriorityHigh,
		Category:    ptr("Работа"),
		Tags:        []string{"a", "b"},
	})
	want := "details\n\nPriority: high\nCategory: Работа\nTags: #a #b"
	if got != want {
		t.Errorf("eventDescription = %q, want %q", got, want)
	}
}
