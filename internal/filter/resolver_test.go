package filter_test

import (
	"errors"
	"testing"
	"time"

	"taskmaster-bot/internal/filter"
	"taskmaster-bot/internal/model"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestResolve_Overdue(t *testing.T) {
	res := filter.Resolve(filter.TokenOverdue, now)

	if res.NeedsChoice() {
		t.Fatal("overdue must resolve directly")
	}
	p := res.Predicate
	if p.Status == nil || *p.Status != model.StatusActive {
		t.Errorf("Status = %v, want active", p.Status)
	}
	if p.DeadlineBefore == nil || !p.DeadlineBefore.Equal(now) {
		t.Errorf("DeadlineBefore = %v, want %v", p.DeadlineBefore, now)
	}
	if p.DeadlineAfter != nil || p.Priority != nil || p.Category != nil || p.Tag != nil {
		t.Errorf("unexpected extra conditions: %+v", p)
	}
	if got := res.Sort.String(); got != "priority_rank ASC, deadline ASC NULLS LAST" {
		t.Errorf("Sort = %q", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		token     filter.Token
		wantToken filter.Token
		match     model.Task
		noMatch   model.Task
	}{
		{
			token:   filter.TokenHigh,
			match:   model.Task{Priority: model.PriorityHigh, Status: model.StatusActive},
			noMatch: model.Task{Priority: model.PriorityHigh, Status: model.StatusCompleted},
		},
		{
			token:   filter.TokenMedium,
			match:   model.Task{Priority: model.PriorityMedium, Status: model.StatusActive},
			noMatch: model.Task{Priority: model.PriorityLow, Status: model.StatusActive},
		},
		{
			token:   filter.TokenLow,
			match:   model.Task{Priority: model.PriorityLow, Status: model.StatusActive},
			noMatch: model.Task{Priority: model.PriorityMedium, Status: model.StatusActive},
		},
		{
			token:   filter.TokenUpcoming,
			match:   model.Task{Status: model.StatusActive, Deadline: ptr(now.Add(time.Hour))},
			noMatch: model.Task{Status: model.StatusActive},
		},
		{
			token:   filter.TokenOverdue,
			match:   model.Task{Status: model.StatusActive, Deadline: ptr(now.Add(-time.Hour))},
			noMatch: model.Task{Status: model.StatusActive, Deadline: ptr(now.Add(time.Hour))},
		},
		{
			token:   filter.TokenCompleted,
			match:   model.Task{Status: model.StatusCompleted},
			noMatch: model.Task{Status: model.StatusActive},
		},
		{
			token:   filter.TokenAll,
			match:   model.Task{Status: model.StatusActive},
			noMatch: model.Task{Status: model.StatusCompleted},
		},
		{
			token:     filter.Token("bogus"),
			wantToken: filter.TokenAll,
			match:     model.Task{Status: model.StatusActive},
			noMatch:   model.Task{Status: model.StatusCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			res := filter.Resolve(tt.token, now)
			want := tt.wantToken
			if want == "" {
				want = tt.token
			}
			if res.Token != want {
				t.Errorf("Token = %q, want %q", res.Token, want)
			}
			if !res.Predicate.Matches(tt.match) {
				t.Errorf("predicate should match %+v", tt.match)
			}
			if res.Predicate.Matches(tt.noMatch) {
				t.Errorf("predicate should not match %+v", tt.noMatch)
			}
		})
	}
}

func TestResolve_DrillDown(t *testing.T) {
	if got := filter.Resolve(filter.TokenCategory, now).DrillDown; got != filter.FieldCategory {
		t.Errorf("category DrillDown = %q", got)
	}
	if got := filter.Resolve(filter.TokenTag, now).DrillDown; got != filter.FieldTag {
		t.Errorf("tag DrillDown = %q", got)
	}
}

func TestResolveChoice(t *testing.T) {
	res, err := filter.ResolveChoice(filter.FieldCategory, " Работа ")
	if err != nil {
		t.Fatalf("ResolveChoice() error = %v", err)
	}
	if !res.Predicate.Matches(model.Task{Category: ptr("Работа"), Status: model.StatusCompleted}) {
		t.Error("category predicate should match regardless of status")
	}
	if res.Predicate.Matches(model.Task{Category: ptr("Дом")}) {
		t.Error("category predicate matched another category")
	}

	res, err = filter.ResolveChoice(filter.FieldTag, "#важное")
	if err != nil {
		t.Fatalf("ResolveChoice() error = %v", err)
	}
	if res.Predicate.Tag == nil || *res.Predicate.Tag != "важное" {
		t.Fatalf("Tag = %v, want важное", res.Predicate.Tag)
	}
	if !res.Predicate.Matches(model.Task{Tags: []string{"проект1", "важное"}}) {
		t.Error("tag predicate should match membership")
	}

	if _, err := filter.ResolveChoice(filter.FieldTag, " # "); !errors.Is(err, filter.ErrEmptyChoice) {
		t.Errorf("empty tag error = %v", err)
	}
	if _, err := filter.ResolveChoice(filter.Field("status"), "x"); !errors.Is(err, filter.ErrUnknownField) {
		t.Errorf("unknown field error = %v", err)
	}
}

func TestSortKey(t *testing.T) {
	d1 := now.Add(time.Hour)
	d2 := now.Add(2 * time.Hour)
	tasks := []model.Task{
		{ID: 1, Priority: model.PriorityLow, Deadline: &d1},
		{ID: 2, Priority: model.PriorityHigh},
		{ID: 3, Priority: model.PriorityMedium, Deadline: &d2},
		{ID: 4, Priority: model.PriorityHigh, Deadline: &d2},
		{ID: 5, Priority: model.PriorityMedium, Deadline: &d1},
		{ID: 6, Priority: model.PriorityHigh, Deadline: &d1},
	}

	filter.SortKey{}.Sort(tasks)

	want := []int64{6, 4, 2, 5, 3, 1}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(tasks), want)
		}
	}
}

func TestTokenFromLabel(t *testing.T) {
	labels := filter.Labels()
	if len(labels) != 9 {
		t.Fatalf("Labels() len = %d, want 9", len(labels))
	}
	if got := filter.TokenFromLabel("❗️ Просроченные"); got != filter.TokenOverdue {
		t.Errorf("TokenFromLabel(overdue) = %q", got)
	}
	if got := filter.TokenFromLabel("что-то ещё"); got != filter.TokenAll {
		t.Errorf("TokenFromLabel(unknown) = %q, want all", got)
	}
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
