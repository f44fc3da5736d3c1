package model

import "time"

// Priority is the task importance level.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority is used when the user gives no usable priority.
const DefaultPriority = PriorityMedium

// Rank is the primary sort key: high=1, medium=2, low=3.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Status is the task lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Task is a persisted task row.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Priority    Priority
	Category    *string
	Tags        []string
	Deadline    *time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFields is the user-editable part of a task: the six fields collected by the wizard.
type TaskFields struct {
	Title       string
	Description *string
	Priority    Priority
	Category    *string
	Tags        []string
	Deadline    *time.Time
}

// Fields returns the editable part of t.
func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Tags:        t.Tags,
		Deadline:    t.Deadline,
	}
}
