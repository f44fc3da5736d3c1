package telegram

import (
	"context"
	"strconv"
	"strings"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/wizard"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

func (h *handler) processUpdate(ctx context.Context, update pkgTelegram.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return h.processCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return h.processMessage(ctx, update.Message)
	}
	return nil
}

// processMessage routes a text message: commands first, then an active wizard
// session, then a pending /mytasks choice. Anything else gets the help text.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	if msg.Chat == nil || msg.From == nil || msg.Text == "" {
		return nil
	}

	chatID := msg.Chat.ID
	if err := h.limiter.Allow(strconv.FormatInt(chatID, 10)); err != nil {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.processMessage: chat=%d: %v", chatID, err)
		return h.bot.SendMessage(ctx, chatID, errorMessage(err))
	}

	sc := scopeOf(msg.From, chatID)
	text := strings.TrimSpace(msg.Text)

	switch command(text) {
	case cmdStart:
		h.browse.Delete(chatID)
		h.wizard.Abandon(ctx, chatID)
		return h.handleStart(ctx, sc)
	case cmdHelp:
		return h.bot.SendMessageWithMode(ctx, chatID, msgHelp, pkgTelegram.ParseModeMarkdown)
	case cmdNewTask:
		h.browse.Delete(chatID)
		h.wizard.Abandon(ctx, chatID)
		return h.wizard.StartCreate(ctx, sc)
	case cmdMyTasks:
		h.wizard.Abandon(ctx, chatID)
		return h.startBrowse(ctx, sc)
	case cmdCancel:
		if !h.wizard.Active(chatID) {
			return h.handleCancel(ctx, chatID)
		}
		text = wizard.CancelToken
	}

	outcome, err := h.wizard.Handle(ctx, chatID, text)
	if err != nil {
		return err
	}
	if outcome != wizard.OutcomeIgnored {
		if outcome.Terminal() {
			return h.showMainMenu(ctx, chatID)
		}
		return nil
	}

	handled, err := h.continueBrowse(ctx, sc, text)
	if handled {
		return err
	}

	return h.bot.SendMessageWithMode(ctx, chatID, msgHelp, pkgTelegram.ParseModeMarkdown)
}

func (h *handler) handleStart(ctx context.Context, sc model.Scope) error {
	if err := h.uc.RegisterUser(ctx, sc); err != nil {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.handleStart: register user=%d: %v", sc.UserID, err)
	}
	if err := h.showMainMenu(ctx, sc.ChatID); err != nil {
		return err
	}
	return h.bot.SendMessage(ctx, sc.ChatID, msgWelcome)
}

func (h *handler) handleCancel(ctx context.Context, chatID int64) error {
	text := msgNothingCancel
	if h.browse.Delete(chatID) {
		text = msgCancelled
	}
	if err := h.bot.SendMessage(ctx, chatID, text); err != nil {
		return err
	}
	return h.showMainMenu(ctx, chatID)
}

func (h *handler) showMainMenu(ctx context.Context, chatID int64) error {
	_, err := h.bot.Send(ctx, pkgTelegram.SendMessageRequest{
		ChatID:      chatID,
		Text:        msgMainMenu,
		ReplyMarkup: mainMenu(),
	})
	return err
}

func scopeOf(u *pkgTelegram.User, chatID int64) model.Scope {
	return model.Scope{UserID: u.ID, Username: u.Username, ChatID: chatID}
}

// command returns the bot command at the start of text without a "@botname" suffix,
// or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}
