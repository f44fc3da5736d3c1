package wizard

import (
	"context"
	"time"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
)

// Step is the position of a session in the dialog.
type Step int

const (
	StepAwaitTitle Step = iota + 1
	StepAwaitDescription
	StepAwaitPriority
	StepAwaitCategory
	StepAwaitTags
	StepAwaitDeadline
	StepPersist
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepAwaitTitle:
		return "await_title"
	case StepAwaitDescription:
		return "await_description"
	case StepAwaitPriority:
		return "await_priority"
	case StepAwaitCategory:
		return "await_category"
	case StepAwaitTags:
		return "await_tags"
	case StepAwaitDeadline:
		return "await_deadline"
	case StepPersist:
		return "persist"
	case StepDone:
		return "done"
	}
	return "unknown"
}

// Mode selects what the session builds and how it is persisted.
type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeEdit
	ModeReschedule
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeReschedule:
		return "reschedule"
	}
	return "unknown"
}

// TaskSnapshot is a complete set of the six editable fields.
type TaskSnapshot struct {
	Title       string
	Description *string
	Priority    model.Priority
	Category    *string
	Tags        []string
	Deadline    *time.Time
}

// SnapshotOf captures the editable fields of t.
func SnapshotOf(t model.Task) TaskSnapshot {
	return TaskSnapshot{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Tags:        t.Tags,
		Deadline:    t.Deadline,
	}
}

// Fields converts the snapshot to the persisted field set.
func (s TaskSnapshot) Fields() model.TaskFields {
	return model.TaskFields{
		Title:       s.Title,
		Description: s.Description,
		Priority:    s.Priority,
		Category:    s.Category,
		Tags:        s.Tags,
		Deadline:    s.Deadline,
	}
}

// Field is a value the user may or may not have answered yet.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns an answered field.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Get returns the value and whether it was answered.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// Or returns the answer, or fallback when unanswered.
func (f Field[T]) Or(fallback T) T {
	if f.set {
		return f.value
	}
	return fallback
}

// PartialTaskSnapshot accumulates answers. Unanswered fields fall back to a base snapshot.
type PartialTaskSnapshot struct {
	Title       Field[string]
	Description Field[*string]
	Priority    Field[model.Priority]
	Category    Field[*string]
	Tags        Field[[]string]
	Deadline    Field[*time.Time]
}

// Over fills every unanswered field from base.
func (p PartialTaskSnapshot) Over(base TaskSnapshot) TaskSnapshot {
	return TaskSnapshot{
		Title:       p.Title.Or(base.Title),
		Description: p.Description.Or(base.Description),
		Priority:    p.Priority.Or(base.Priority),
		Category:    p.Category.Or(base.Category),
		Tags:        p.Tags.Or(base.Tags),
		Deadline:    p.Deadline.Or(base.Deadline),
	}
}

// Session is one in-progress dialog. Sessions are values: transitions return a new one.
type Session struct {
	ID             string
	ConversationID int64
	UserID         int64
	Username       string
	TaskID         int64
	Mode           Mode
	Step           Step
	Old            TaskSnapshot
	New            PartialTaskSnapshot
	StartedAt      time.Time
}

// Result is the merged field set the session would persist right now.
// A create session falls back to empty optionals and the default priority.
func (s Session) Result() TaskSnapshot {
	if s.Mode == ModeCreate {
		return s.New.Over(TaskSnapshot{Priority: model.DefaultPriority})
	}
	return s.New.Over(s.Old)
}

func (s Session) scope() model.Scope {
	return model.Scope{UserID: s.UserID, Username: s.Username, ChatID: s.ConversationID}
}

// Prompt is a message the machine asks the transport to deliver.
type Prompt struct {
	Text string
	// QuickReplies are offered as a one-time reply keyboard.
	QuickReplies []string
	// ClearKeyboard removes any reply keyboard left from an earlier prompt.
	ClearKeyboard bool
	Markdown      bool
}

// Transition is the outcome of feeding one message to a step.
type Transition struct {
	Session Session
	// Notice is shown before the re-prompt when the input was rejected.
	Notice string
	Err    error
}

// Env is what a step may consult besides the session and the input.
type Env struct {
	Grammar DeadlineGrammar
	// Now is the reference instant for deadline parsing. Only set at StepAwaitDeadline.
	Now time.Time
}

// Outcome tells the caller what Handle did with a message.
type Outcome int

const (
	// OutcomeIgnored means no session was active; the message is not the wizard's.
	OutcomeIgnored Outcome = iota
	OutcomeAdvanced
	OutcomeRetry
	OutcomeSaved
	OutcomeNotFound
	OutcomeFailed
	OutcomeCancelled
)

// Terminal reports whether the session ended with this outcome.
func (o Outcome) Terminal() bool {
	switch o {
	case OutcomeSaved, OutcomeNotFound, OutcomeFailed, OutcomeCancelled:
		return true
	}
	return false
}

// DeadlineGrammar parses and renders deadlines. *datemath.Parser satisfies it.
type DeadlineGrammar interface {
	Parse(text string, reference time.Time) (time.Time, error)
	FormatLocal(t time.Time) string
}

// Prompter delivers the machine's messages to a conversation.
type Prompter interface {
	Prompt(ctx context.Context, conversationID int64, p Prompt) error
	// TaskSaved announces a successful commit together with the stored task.
	TaskSaved(ctx context.Context, conversationID int64, mode Mode, t model.Task) error
}

// Persister commits finished sessions. task.UseCase satisfies it.
type Persister interface {
	Create(ctx context.Context, sc model.Scope, input task.CreateInput) (model.Task, error)
	Update(ctx context.Context, sc model.Scope, input task.UpdateInput) (model.Task, error)
	UpdateDeadline(ctx context.Context, sc model.Scope, input task.UpdateDeadlineInput) (model.Task, error)
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Store keeps sessions by conversation. *sessionstore.Store[int64, Session] satisfies it.
type Store interface {
	Get(conversationID int64) (Session, bool)
	Put(conversationID int64, s Session)
	Delete(conversationID int64) bool
	Lock(conversationID int64) (unlock func())
}
