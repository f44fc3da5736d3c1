package wizard

import (
	"fmt"
	"strings"

	"taskmaster-bot/internal/model"
)

// stepFunc is a pure transition: the same session, input and env always give the same result.
type stepFunc func(s Session, input string, env Env) Transition

var steps = map[Step]stepFunc{
	StepAwaitTitle:       onTitle,
	StepAwaitDescription: onDescription,
	StepAwaitPriority:    onPriority,
	StepAwaitCategory:    onCategory,
	StepAwaitTags:        onTags,
	StepAwaitDeadline:    onDeadline,
}

// Advance feeds one message to the session's current step.
func Advance(s Session, input string, env Env) Transition {
	fn, ok := steps[s.Step]
	if !ok {
		return Transition{Session: s, Err: fmt.Errorf("%w: %s", ErrUnknownStep, s.Step)}
	}
	return fn(s, strings.TrimSpace(input), env)
}

// nextStep is the step after s in the session's mode.
func nextStep(m Mode, s Step) Step {
	if m == ModeReschedule || s == StepAwaitDeadline {
		return StepPersist
	}
	return s + 1
}

func advance(s Session) Transition {
	s.Step = nextStep(s.Mode, s.Step)
	return Transition{Session: s}
}

func retry(s Session, err error) Transition {
	return Transition{Session: s, Notice: fmt.Sprintf(msgRetry, rejectionReason(err)), Err: err}
}

func onTitle(s Session, input string, _ Env) Transition {
	if input == "" || input == SkipToken {
		if s.Mode == ModeCreate {
			return retry(s, ErrEmptyRequiredField)
		}
		s.New.Title = Set(s.Old.Title)
		return advance(s)
	}
	s.New.Title = Set(input)
	return advance(s)
}

func onDescription(s Session, input string, _ Env) Transition {
	if input == SkipToken {
		s.New.Description = skipped(s, s.Old.Description)
		return advance(s)
	}
	s.New.Description = Set(optional(input))
	return advance(s)
}

// onPriority accepts only the keyboard labels. Anything else keeps the fallback
// priority: the old one when editing, the default when creating.
func onPriority(s Session, input string, _ Env) Transition {
	if p, ok := PriorityFromLabel(input); ok {
		s.New.Priority = Set(p)
		return advance(s)
	}
	if s.Mode == ModeCreate {
		s.New.Priority = Set(model.DefaultPriority)
	} else {
		s.New.Priority = Set(s.Old.Priority)
	}
	return advance(s)
}

func onCategory(s Session, input string, _ Env) Transition {
	if input == SkipToken {
		s.New.Category = skipped(s, s.Old.Category)
		return advance(s)
	}
	s.New.Category = Set(optional(input))
	return advance(s)
}

func onTags(s Session, input string, _ Env) Transition {
	if input == SkipToken {
		s.New.Tags = skipped(s, s.Old.Tags)
		return advance(s)
	}
	s.New.Tags = Set(splitTags(input))
	return advance(s)
}

func onDeadline(s Session, input string, env Env) Transition {
	if input == SkipToken {
		s.New.Deadline = skipped(s, s.Old.Deadline)
		return advance(s)
	}
	deadline, err := env.Grammar.Parse(input, env.Now)
	if err != nil {
		return retry(s, err)
	}
	s.New.Deadline = Set(&deadline)
	return advance(s)
}

// skipped is the answer recorded for /skip: the old value when editing, nothing when creating.
func skipped[T any](s Session, old T) Field[T] {
	if s.Mode == ModeCreate {
		return Field[T]{}
	}
	return Set(old)
}

func optional(input string) *string {
	if input == "" {
		return nil
	}
	return &input
}

// splitTags splits on commas and drops empty items. Order and duplicates are kept.
func splitTags(input string) []string {
	var tags []string
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
