package telegram

import (
	"context"
	"time"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/wizard"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

// Prompter delivers wizard prompts and save confirmations through the bot.
type Prompter struct {
	bot  *pkgTelegram.Bot
	view presenter
}

// NewPrompter creates a Prompter rendering deadlines in loc.
func NewPrompter(bot *pkgTelegram.Bot, loc *time.Location, clock wizard.Clock) *Prompter {
	return &Prompter{bot: bot, view: presenter{loc: loc, clock: clock}}
}

// Prompt sends p with its quick replies as a one-time keyboard.
func (p *Prompter) Prompt(ctx context.Context, conversationID int64, pr wizard.Prompt) error {
	req := pkgTelegram.SendMessageRequest{ChatID: conversationID}
	if pr.Markdown {
		req.Text, req.ParseMode = fitMarkdown(pr.Text)
	} else {
		req.Text = trimMessage(pr.Text)
	}
	switch {
	case len(pr.QuickReplies) > 0:
		req.ReplyMarkup = replyKeyboard(pr.QuickReplies)
	case pr.ClearKeyboard:
		req.ReplyMarkup = pkgTelegram.ReplyKeyboardRemove{RemoveKeyboard: true}
	}

	_, err := p.bot.Send(ctx, req)
	return err
}

// TaskSaved shows the stored task with its inline actions.
func (p *Prompter) TaskSaved(ctx context.Context, conversationID int64, mode wizard.Mode, t model.Task) error {
	_, err := p.bot.Send(ctx, pkgTelegram.SendMessageRequest{
		ChatID:      conversationID,
		Text:        p.view.taskMessage(savedHeadline(mode)+"\n\n", t),
		ParseMode:   pkgTelegram.ParseModeMarkdown,
		ReplyMarkup: taskActions(t.ID),
	})
	return err
}

func savedHeadline(mode wizard.Mode) string {
	switch mode {
	case wizard.ModeEdit:
		return msgTaskUpdated
	case wizard.ModeReschedule:
		return msgDeadlineUpdated
	}
	return msgTaskCreated
}
