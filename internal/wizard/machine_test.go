package wizard

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
	"taskmaster-bot/pkg/log"
	"taskmaster-bot/pkg/sessionstore"
)

type sentPrompt struct {
	conversationID int64
	prompt         Prompt
}

type savedTask struct {
	conversationID int64
	mode           Mode
	task           model.Task
}

type mockPrompter struct {
	mu      sync.Mutex
	prompts []sentPrompt
	saved   []savedTask
	err     error
}

func (m *mockPrompter) Prompt(ctx context.Context, conversationID int64, p Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, sentPrompt{conversationID, p})
	return m.err
}

func (m *mockPrompter) TaskSaved(ctx context.Context, conversationID int64, mode Mode, t model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, savedTask{conversationID, mode, t})
	return m.err
}

func (m *mockPrompter) last() Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return Prompt{}
	}
	return m.prompts[len(m.prompts)-1].prompt
}

type persistCall struct {
	mode   Mode
	scope  model.Scope
	taskID int64
	fields model.TaskFields
}

type mockPersister struct {
	mu    sync.Mutex
	calls []persistCall
	err   error
}

func (m *mockPersister) record(c persistCall) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if m.err != nil {
		return model.Task{}, m.err
	}
	f := c.fields
	id := c.taskID
	if id == 0 {
		id = int64(len(m.calls))
	}
	return model.Task{
		ID: id, UserID: c.scope.UserID, Title: f.Title, Description: f.Description, Priority: f.Priority,
		Category: f.Category, Tags: f.Tags, Deadline: f.Deadline, Status: model.StatusActive,
	}, nil
}

func (m *mockPersister) Create(ctx context.Context, sc model.Scope, input task.CreateInput) (model.Task, error) {
	return m.record(persistCall{mode: ModeCreate, scope: sc, fields: input.Fields})
}

func (m *mockPersister) Update(ctx context.Context, sc model.Scope, input task.UpdateInput) (model.Task, error) {
	return m.record(persistCall{mode: ModeEdit, scope: sc, taskID: input.TaskID, fields: input.Fields})
}

func (m *mockPersister) UpdateDeadline(ctx context.Context, sc model.Scope, input task.UpdateDeadlineInput) (model.Task, error) {
	return m.record(persistCall{mode: ModeReschedule, scope: sc, taskID: input.TaskID, fields: model.TaskFields{Deadline: input.Deadline}})
}

type countingClock struct {
	mu    sync.Mutex
	now   time.Time
	reads int
}

func (c *countingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.now
}

type fixture struct {
	machine   *Machine
	prompter  *mockPrompter
	persister *mockPersister
	clock     *countingClock
	sessions  *sessionstore.Store[int64, Session]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		prompter:  &mockPrompter{},
		persister: &mockPersister{},
		clock:     &countingClock{now: refTime},
		sessions:  sessionstore.New[int64, Session](100, time.Hour),
	}
	f.machine = New(log.NewNop(), newGrammar(t), f.persister, f.prompter, f.sessions, f.clock)
	return f
}

func scopeFor(id int64) model.Scope {
	return model.Scope{UserID: id, Username: fmt.Sprintf("user%d", id), ChatID: id}
}

func feed(t *testing.T, m *Machine, conversationID int64, inputs ...string) Outcome {
	t.Helper()
	var out Outcome
	for _, in := range inputs {
		var err error
		out, err = m.Handle(context.Background(), conversationID, in)
		if err != nil {
			t.Fatalf("Handle(%q): %v", in, err)
		}
	}
	return out
}

func TestMachine_CreateBuyMilk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.machine.StartCreate(ctx, scopeFor(1)); err != nil {
		t.Fatalf("StartCreate: %v", err)
	}
	if got := f.prompter.last().Text; got != msgCreateTitle {
		t.Errorf("first prompt = %q", got)
	}

	out := feed(t, f.machine, 1, "Buy milk", SkipToken, SkipToken, SkipToken, SkipToken, SkipToken)
	if out != OutcomeSaved {
		t.Fatalf("outcome = %v, want saved", out)
	}

	if len(f.persister.calls) != 1 {
		t.Fatalf("persist calls = %d, want 1", len(f.persister.calls))
	}
	call := f.persister.calls[0]
	want := model.TaskFields{Title: "Buy milk", Priority: model.PriorityMedium}
	if call.mode != ModeCreate || call.scope.UserID != 1 || !reflect.DeepEqual(call.fields, want) {
		t.Errorf("persisted %+v, want create of %+v", call, want)
	}
	if len(f.prompter.saved) != 1 || f.prompter.saved[0].task.Status != model.StatusActive {
		t.Errorf("saved notifications = %+v", f.prompter.saved)
	}
	if f.machine.Active(1) {
		t.Error("session must end after persist")
	}
}

func TestMachine_EditAllSkipsPersistsOld(t *testing.T) {
	f := newFixture(t)
	old := oldSnapshot()
	existing := model.Task{ID: 5, Title: old.Title, Description: old.Description, Priority: old.Priority,
		Category: old.Category, Tags: old.Tags, Deadline: old.Deadline}

	if err := f.machine.StartEdit(context.Background(), scopeFor(2), existing); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if out := feed(t, f.machine, 2, SkipToken, SkipToken, SkipToken, SkipToken, SkipToken, SkipToken); out != OutcomeSaved {
		t.Fatalf("outcome = %v, want saved", out)
	}

	call := f.persister.calls[0]
	if call.mode != ModeEdit || call.taskID != 5 {
		t.Fatalf("persisted %+v, want edit of task 5", call)
	}
	if call.fields.Title != old.Title || call.fields.Description != old.Description ||
		call.fields.Priority != old.Priority || call.fields.Category != old.Category ||
		call.fields.Deadline != old.Deadline || strings.Join(call.fields.Tags, ",") != "q1,finance" {
		t.Errorf("fields = %+v, want the old ones", call.fields)
	}
}

func TestMachine_DeadlineRetryThenSave(t *testing.T) {
	f := newFixture(t)
	if err := f.machine.StartCreate(context.Background(), scopeFor(3)); err != nil {
		t.Fatalf("StartCreate: %v", err)
	}
	feed(t, f.machine, 3, "Report", SkipToken, LabelHigh, SkipToken, SkipToken)

	before := len(f.prompter.prompts)
	out, err := f.machine.Handle(context.Background(), 3, "когда-нибудь")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out != OutcomeRetry {
		t.Fatalf("outcome = %v, want retry", out)
	}
	sent := f.prompter.prompts[before:]
	if len(sent) != 2 || !strings.HasPrefix(sent[0].prompt.Text, "❌") || sent[1].prompt.Text != msgCreateDeadline {
		t.Errorf("retry prompts = %+v", sent)
	}
	if len(f.persister.calls) != 0 {
		t.Fatal("nothing may be persisted on a rejected deadline")
	}

	if out := feed(t, f.machine, 3, "завтра в 10:00"); out != OutcomeSaved {
		t.Fatalf("outcome = %v, want saved", out)
	}
	want := time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)
	if d := f.persister.calls[0].fields.Deadline; d == nil || !d.Equal(want) {
		t.Errorf("Deadline = %v, want %v", d, want)
	}
}

func TestMachine_ClockReads(t *testing.T) {
	f := newFixture(t)
	if err := f.machine.StartCreate(context.Background(), scopeFor(4)); err != nil {
		t.Fatalf("StartCreate: %v", err)
	}
	feed(t, f.machine, 4, "t", SkipToken, SkipToken, SkipToken, SkipToken)
	if f.clock.reads != 1 {
		t.Fatalf("clock reads before deadline = %d, want 1", f.clock.reads)
	}
	feed(t, f.machine, 4, "не дата", "через 5 минут")
	if f.clock.reads != 3 {
		t.Errorf("clock reads = %d, want 3", f.clock.reads)
	}
}

func TestMachine_PersistFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantOutcome Outcome
		wantText    string
	}{
		{"target not found", task.ErrTargetNotFound, OutcomeNotFound, msgTaskNotFound},
		{"store failure", fmt.Errorf("%w: connection refused", task.ErrStoreFailure), OutcomeFailed, "Название: Rewrite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.persister.err = tt.err
			existing := model.Task{ID: 8, Title: "Old", Priority: model.PriorityLow}

			if err := f.machine.StartEdit(context.Background(), scopeFor(5), existing); err != nil {
				t.Fatalf("StartEdit: %v", err)
			}
			out := feed(t, f.machine, 5, "Rewrite", SkipToken, SkipToken, SkipToken, SkipToken, SkipToken)
			if out != tt.wantOutcome {
				t.Fatalf("outcome = %v, want %v", out, tt.wantOutcome)
			}
			if !out.Terminal() {
				t.Error("persist outcomes are terminal")
			}
			if got := f.prompter.last().Text; !strings.Contains(got, tt.wantText) {
				t.Errorf("last prompt = %q, want it to contain %q", got, tt.wantText)
			}
			if len(f.persister.calls) != 1 {
				t.Errorf("persist calls = %d, want exactly 1", len(f.persister.calls))
			}
			if f.machine.Active(5) {
				t.Error("session must end after a failed persist")
			}
			if len(f.prompter.saved) != 0 {
				t.Error("no confirmation on failure")
			}
		})
	}
}

func TestMachine_Reschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.machine.StartReschedule(ctx, scopeFor(6), model.Task{ID: 11}); !errors.Is(err, ErrNothingToReschedule) {
		t.Fatalf("expected ErrNothingToReschedule, got %v", err)
	}
	if f.machine.Active(6) {
		t.Fatal("no session for a task without deadline")
	}

	old := oldSnapshot()
	if err := f.machine.StartReschedule(ctx, scopeFor(6), model.Task{ID: 11, Title: "x", Deadline: old.Deadline}); err != nil {
		t.Fatalf("StartReschedule: %v", err)
	}
	if out := feed(t, f.machine, 6, "через 1 час"); out != OutcomeSaved {
		t.Fatalf("outcome = %v, want saved", out)
	}

	call := f.persister.calls[0]
	if call.mode != ModeReschedule || call.taskID != 11 {
		t.Fatalf("persisted %+v", call)
	}
	if d := call.fields.Deadline; d == nil || !d.Equal(refTime.Add(time.Hour)) {
		t.Errorf("Deadline = %v", d)
	}
}

func TestMachine_CancelAndIgnore(t *testing.T) {
	f := newFixture(t)

	if out := feed(t, f.machine, 7, "hello"); out != OutcomeIgnored {
		t.Fatalf("outcome without session = %v, want ignored", out)
	}

	if err := f.machine.StartCreate(context.Background(), scopeFor(7)); err != nil {
		t.Fatalf("StartCreate: %v", err)
	}
	feed(t, f.machine, 7, "Draft")
	if out := feed(t, f.machine, 7, " /cancel "); out != OutcomeCancelled {
		t.Fatalf("outcome = %v, want cancelled", out)
	}
	if f.machine.Active(7) || len(f.persister.calls) != 0 {
		t.Error("cancel must drop the session without persisting")
	}

	if err := f.machine.StartCreate(context.Background(), scopeFor(7)); err != nil {
		t.Fatalf("StartCreate: %v", err)
	}
	if !f.machine.Abandon(context.Background(), 7) {
		t.Error("Abandon = false for a live session")
	}
	if f.machine.Abandon(context.Background(), 7) {
		t.Error("Abandon = true without a session")
	}
}

func TestMachine_ConcurrentConversationsAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const conversations = 20
	var wg sync.WaitGroup
	errs := make(chan error, conversations)

	for i := int64(1); i <= conversations; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := f.machine.StartCreate(ctx, scopeFor(id)); err != nil {
				errs <- err
				return
			}
			inputs := []string{fmt.Sprintf("task %d", id), fmt.Sprintf("desc %d", id), LabelLow, SkipToken, fmt.Sprintf("t%d", id), fmt.Sprintf("через %d минут", id)}
			for _, in := range inputs {
				if _, err := f.machine.Handle(ctx, id, in); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("conversation failed: %v", err)
	}

	if len(f.persister.calls) != conversations {
		t.Fatalf("persist calls = %d, want %d", len(f.persister.calls), conversations)
	}
	for _, c := range f.persister.calls {
		id := c.scope.UserID
		if c.fields.Title != fmt.Sprintf("task %d", id) ||
			c.fields.Description == nil || *c.fields.Description != fmt.Sprintf("desc %d", id) ||
			len(c.fields.Tags) != 1 || c.fields.Tags[0] != fmt.Sprintf("t%d", id) {
			t.Errorf("conversation %d persisted foreign data: %+v", id, c.fields)
		}
		want := refTime.Add(time.Duration(id) * time.Minute)
		if c.fields.Deadline == nil || !c.fields.Deadline.Equal(want) {
			t.Errorf("conversation %d deadline = %v, want %v", id, c.fields.Deadline, want)
		}
	}
}

func TestMachine_SessionIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_ = f.machine.StartCreate(ctx, scopeFor(1))
	_ = f.machine.StartCreate(ctx, scopeFor(2))
	a, _ := f.sessions.Get(1)
	b, _ := f.sessions.Get(2)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("session ids = %q, %q", a.ID, b.ID)
	}
	if !a.StartedAt.Equal(refTime) {
		t.Errorf("StartedAt = %v, want %v", a.StartedAt, refTime)
	}
}
