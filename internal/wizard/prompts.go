package wizard

import (
	"fmt"
	"strings"
	"time"
)

// PromptFor renders the question for the session's current step.
func PromptFor(s Session, grammar DeadlineGrammar) Prompt {
	switch s.Mode {
	case ModeEdit:
		return editPrompt(s, grammar)
	case ModeReschedule:
		return Prompt{
			Text:          fmt.Sprintf(msgReschedule, s.TaskID, code(formatDeadline(grammar, s.Old.Deadline))),
			ClearKeyboard: true,
			Markdown:      true,
		}
	}
	return createPrompt(s)
}

func createPrompt(s Session) Prompt {
	switch s.Step {
	case StepAwaitTitle:
		return Prompt{Text: msgCreateTitle, ClearKeyboard: true}
	case StepAwaitDescription:
		return Prompt{Text: msgCreateDescription}
	case StepAwaitPriority:
		return Prompt{Text: msgCreatePriority, QuickReplies: PriorityLabels()}
	case StepAwaitCategory:
		return Prompt{Text: msgCreateCategory, ClearKeyboard: true}
	case StepAwaitTags:
		return Prompt{Text: msgCreateTags}
	case StepAwaitDeadline:
		return Prompt{Text: msgCreateDeadline}
	}
	return Prompt{}
}

func editPrompt(s Session, grammar DeadlineGrammar) Prompt {
	old := s.Old
	switch s.Step {
	case StepAwaitTitle:
		return Prompt{Text: fmt.Sprintf(msgEditTitle, s.TaskID, code(old.Title)), ClearKeyboard: true, Markdown: true}
	case StepAwaitDescription:
		return Prompt{Text: fmt.Sprintf(msgEditDescription, code(deref(old.Description))), Markdown: true}
	case StepAwaitPriority:
		return Prompt{Text: fmt.Sprintf(msgEditPriority, PriorityEmoji(old.Priority)), QuickReplies: PriorityLabels()}
	case StepAwaitCategory:
		return Prompt{Text: fmt.Sprintf(msgEditCategory, code(deref(old.Category))), ClearKeyboard: true, Markdown: true}
	case StepAwaitTags:
		return Prompt{Text: fmt.Sprintf(msgEditTags, code(strings.Join(old.Tags, ", "))), Markdown: true}
	case StepAwaitDeadline:
		return Prompt{Text: fmt.Sprintf(msgEditDeadline, code(formatDeadline(grammar, old.Deadline))), Markdown: true}
	}
	return Prompt{}
}

// summary lists the collected fields for a failure message.
func summary(r TaskSnapshot, grammar DeadlineGrammar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Название: %s\n", orDash(r.Title))
	fmt.Fprintf(&b, "Описание: %s\n", orDash(deref(r.Description)))
	fmt.Fprintf(&b, "Приоритет: %s\n", PriorityEmoji(r.Priority))
	fmt.Fprintf(&b, "Категория: %s\n", orDash(deref(r.Category)))
	fmt.Fprintf(&b, "Теги: %s\n", orDash(strings.Join(r.Tags, ", ")))
	fmt.Fprintf(&b, "Дедлайн: %s", orDash(formatDeadline(grammar, r.Deadline)))
	return b.String()
}

func formatDeadline(grammar DeadlineGrammar, t *time.Time) string {
	if t == nil {
		return ""
	}
	return grammar.FormatLocal(*t)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return emptyValue
	}
	return s
}

// code renders s for a Markdown code span. Backticks would end the span early.
func code(s string) string {
	return strings.ReplaceAll(orDash(s), "`", "'")
}
