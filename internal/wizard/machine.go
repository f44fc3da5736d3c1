package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
	pkgLog "taskmaster-bot/pkg/log"
)

// Machine drives wizard sessions, one per conversation.
// Messages of one conversation are handled one at a time; different conversations never share state.
type Machine struct {
	l         pkgLog.Logger
	grammar   DeadlineGrammar
	persister Persister
	prompter  Prompter
	sessions  Store
	clock     Clock
}

// New creates a Machine.
func New(l pkgLog.Logger, grammar DeadlineGrammar, persister Persister, prompter Prompter, sessions Store, clock Clock) *Machine {
	return &Machine{
		l:         l,
		grammar:   grammar,
		persister: persister,
		prompter:  prompter,
		sessions:  sessions,
		clock:     clock,
	}
}

// StartCreate opens a create session, replacing any session of the conversation.
func (m *Machine) StartCreate(ctx context.Context, sc model.Scope) error {
	return m.start(ctx, m.newSession(sc, ModeCreate, StepAwaitTitle, 0, TaskSnapshot{}))
}

// StartEdit opens an edit session for t prefilled with its current fields.
func (m *Machine) StartEdit(ctx context.Context, sc model.Scope, t model.Task) error {
	return m.start(ctx, m.newSession(sc, ModeEdit, StepAwaitTitle, t.ID, SnapshotOf(t)))
}

// StartReschedule opens a deadline-only session. Tasks without a deadline are refused
// with ErrNothingToReschedule after the user has been told.
func (m *Machine) StartReschedule(ctx context.Context, sc model.Scope, t model.Task) error {
	if t.Deadline == nil {
		if err := m.prompter.Prompt(ctx, sc.ChatID, Prompt{Text: msgNoDeadline}); err != nil {
			return err
		}
		return ErrNothingToReschedule
	}
	return m.start(ctx, m.newSession(sc, ModeReschedule, StepAwaitDeadline, t.ID, SnapshotOf(t)))
}

func (m *Machine) newSession(sc model.Scope, mode Mode, step Step, taskID int64, old TaskSnapshot) Session {
	return Session{
		ID:             uuid.NewString(),
		ConversationID: sc.ChatID,
		UserID:         sc.UserID,
		Username:       sc.Username,
		TaskID:         taskID,
		Mode:           mode,
		Step:           step,
		Old:            old,
		StartedAt:      m.clock.Now(),
	}
}

func (m *Machine) start(ctx context.Context, s Session) error {
	unlock := m.sessions.Lock(s.ConversationID)
	defer unlock()

	m.sessions.Put(s.ConversationID, s)
	m.l.Infof(ctx, "internal.wizard.start: session=%s mode=%s task=%d", s.ID, s.Mode, s.TaskID)
	return m.prompter.Prompt(ctx, s.ConversationID, PromptFor(s, m.grammar))
}

// Active reports whether the conversation has a live session.
func (m *Machine) Active(conversationID int64) bool {
	_, ok := m.sessions.Get(conversationID)
	return ok
}

// Abandon drops the conversation's session without telling the user.
func (m *Machine) Abandon(ctx context.Context, conversationID int64) bool {
	unlock := m.sessions.Lock(conversationID)
	defer unlock()

	if !m.sessions.Delete(conversationID) {
		return false
	}
	m.l.Infof(ctx, "internal.wizard.Abandon: conversation=%d", conversationID)
	return true
}

// Handle advances the conversation's session by one message.
// The returned error is a delivery failure only; rejected answers and failed
// commits are reported to the user and through the Outcome.
func (m *Machine) Handle(ctx context.Context, conversationID int64, text string) (Outcome, error) {
	unlock := m.sessions.Lock(conversationID)
	defer unlock()

	s, ok := m.sessions.Get(conversationID)
	if !ok {
		return OutcomeIgnored, nil
	}

	if strings.TrimSpace(text) == CancelToken {
		m.sessions.Delete(conversationID)
		m.l.Infof(ctx, "internal.wizard.Handle: session=%s cancelled at %s", s.ID, s.Step)
		return OutcomeCancelled, m.prompter.Prompt(ctx, conversationID, Prompt{Text: msgCancelled, ClearKeyboard: true})
	}

	env := Env{Grammar: m.grammar}
	if s.Step == StepAwaitDeadline {
		env.Now = m.clock.Now()
	}

	tr := Advance(s, text, env)
	if errors.Is(tr.Err, ErrUnknownStep) {
		m.sessions.Delete(conversationID)
		m.l.Errorf(ctx, "internal.wizard.Handle: session=%s: %v", s.ID, tr.Err)
		return OutcomeFailed, tr.Err
	}

	if tr.Session.Step == StepPersist {
		return m.persist(ctx, tr.Session)
	}

	m.sessions.Put(conversationID, tr.Session)

	if tr.Err != nil {
		m.l.Debugf(ctx, "internal.wizard.Handle: session=%s rejected at %s: %v", s.ID, s.Step, tr.Err)
		if err := m.prompter.Prompt(ctx, conversationID, Prompt{Text: tr.Notice}); err != nil {
			return OutcomeRetry, err
		}
		return OutcomeRetry, m.prompter.Prompt(ctx, conversationID, PromptFor(tr.Session, m.grammar))
	}
	return OutcomeAdvanced, m.prompter.Prompt(ctx, conversationID, PromptFor(tr.Session, m.grammar))
}

// persist commits the session exactly once and ends it whatever the result.
func (m *Machine) persist(ctx context.Context, s Session) (Outcome, error) {
	m.sessions.Delete(s.ConversationID)

	result := s.Result()
	sc := s.scope()

	var (
		saved model.Task
		err   error
	)
	switch s.Mode {
	case ModeCreate:
		saved, err = m.persister.Create(ctx, sc, task.CreateInput{Fields: result.Fields()})
	case ModeEdit:
		saved, err = m.persister.Update(ctx, sc, task.UpdateInput{TaskID: s.TaskID, Fields: result.Fields()})
	case ModeReschedule:
		saved, err = m.persister.UpdateDeadline(ctx, sc, task.UpdateDeadlineInput{TaskID: s.TaskID, Deadline: result.Deadline})
	default:
		err = fmt.Errorf("unknown wizard mode %d", s.Mode)
	}

	s.Step = StepDone
	switch {
	case err == nil:
		m.l.Infof(ctx, "internal.wizard.persist: session=%s mode=%s task=%d saved", s.ID, s.Mode, saved.ID)
		return OutcomeSaved, m.prompter.TaskSaved(ctx, s.ConversationID, s.Mode, saved)
	case errors.Is(err, task.ErrTargetNotFound):
		m.l.Warnf(ctx, "internal.wizard.persist: session=%s task=%d not found", s.ID, s.TaskID)
		return OutcomeNotFound, m.prompter.Prompt(ctx, s.ConversationID, Prompt{Text: msgTaskNotFound, ClearKeyboard: true})
	default:
		m.l.Errorf(ctx, "internal.wizard.persist: session=%s mode=%s: %v", s.ID, s.Mode, err)
		return OutcomeFailed, m.prompter.Prompt(ctx, s.ConversationID, Prompt{
			Text:          failureHeadline(s.Mode) + msgEnteredData + summary(result, m.grammar),
			ClearKeyboard: true,
		})
	}
}

func failureHeadline(mode Mode) string {
	switch mode {
	case ModeEdit:
		return msgEditFailed
	case ModeReschedule:
		return msgRescheduleFailed
	}
	return msgCreateFailed
}
