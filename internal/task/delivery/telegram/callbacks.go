package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
	"taskmaster-bot/internal/wizard"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

const (
	actionComplete   = "complete"
	actionDelete     = "delete"
	actionReschedule = "reschedule"
	actionEdit       = "edit"
)

var callbackPattern = regexp.MustCompile(`^(complete|delete|reschedule|edit)_(\d+)$`)

// parseCallback splits inline button data of the form "<action>_<taskID>".
func parseCallback(data string) (action string, taskID int64, ok bool) {
	m := callbackPattern.FindStringSubmatch(data)
	if m == nil {
		return "", 0, false
	}
	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return m[1], id, true
}

func callbackData(action string, taskID int64) string {
	return fmt.Sprintf("%s_%d", action, taskID)
}

// processCallback handles an inline button press. Every press is answered so the
// client stops its spinner; failures are answered with a short toast.
func (h *handler) processCallback(ctx context.Context, cq *pkgTelegram.CallbackQuery) error {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return h.bot.AnswerCallbackQuery(ctx, cq.ID, "")
	}

	action, taskID, ok := parseCallback(cq.Data)
	if !ok {
		return h.bot.AnswerCallbackQuery(ctx, cq.ID, msgBadCallback)
	}

	chatID := cq.Message.Chat.ID
	if err := h.limiter.Allow(strconv.FormatInt(chatID, 10)); err != nil {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.processCallback: chat=%d: %v", chatID, err)
		return h.bot.AnswerCallbackQuery(ctx, cq.ID, errorMessage(err))
	}

	sc := scopeOf(cq.From, chatID)
	h.l.Debugf(ctx, "internal.task.delivery.telegram.processCallback: user=%d action=%s task=%d", sc.UserID, action, taskID)

	switch action {
	case actionComplete:
		return h.completeTask(ctx, cq, sc, taskID)
	case actionDelete:
		return h.deleteTask(ctx, cq, sc, taskID)
	case actionReschedule, actionEdit:
		return h.startTaskWizard(ctx, cq, sc, action, taskID)
	}
	return nil
}

func (h *handler) completeTask(ctx context.Context, cq *pkgTelegram.CallbackQuery, sc model.Scope, taskID int64) error {
	t, err := h.uc.Complete(ctx, sc, taskID)
	if err != nil {
		return h.answerError(ctx, cq, err)
	}
	if err := h.bot.AnswerCallbackQuery(ctx, cq.ID, ""); err != nil {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.completeTask: answer callback: %v", err)
	}
	return h.replaceMessage(ctx, cq.Message, h.view.taskMessage(msgTaskCompleted, t), pkgTelegram.ParseModeMarkdown)
}

func (h *handler) deleteTask(ctx context.Context, cq *pkgTelegram.CallbackQuery, sc model.Scope, taskID int64) error {
	t, err := h.uc.Delete(ctx, sc, taskID)
	if err != nil {
		return h.answerError(ctx, cq, err)
	}
	if err := h.bot.AnswerCallbackQuery(ctx, cq.ID, ""); err != nil {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.deleteTask: answer callback: %v", err)
	}
	return h.replaceMessage(ctx, cq.Message, fmt.Sprintf(msgTaskDeleted, t.Title), "")
}

// startTaskWizard opens an edit or reschedule session prefilled from the stored task.
func (h *handler) startTaskWizard(ctx context.Context, cq *pkgTelegram.CallbackQuery, sc model.Scope, action string, taskID int64) error {
	t, err := h.uc.Detail(ctx, sc, taskID)
	if err != nil {
		return h.answerError(ctx, cq, err)
	}
	if err := h.bot.AnswerCallbackQuery(ctx, cq.ID, ""); err != nil {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.startTaskWizard: answer callback: %v", err)
	}

	h.browse.Delete(sc.ChatID)
	if action == actionReschedule {
		err = h.wizard.StartReschedule(ctx, sc, t)
	} else {
		err = h.wizard.StartEdit(ctx, sc, t)
	}
	if errors.Is(err, wizard.ErrNothingToReschedule) {
		return h.showMainMenu(ctx, sc.ChatID)
	}
	return err
}

// replaceMessage edits the pressed message in place, dropping its inline keyboard.
// When the edit is refused for any reason other than an unchanged text, the text is sent anew.
func (h *handler) replaceMessage(ctx context.Context, msg *pkgTelegram.Message, text, parseMode string) error {
	if parseMode == pkgTelegram.ParseModeMarkdown {
		text, parseMode = fitMarkdown(text)
	} else {
		text = trimMessage(text)
	}
	err := h.bot.EditMessageText(ctx, pkgTelegram.EditMessageTextRequest{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      text,
		ParseMode: parseMode,
	})
	if err == nil || pkgTelegram.IsMessageNotModified(err) {
		return nil
	}

	h.l.Warnf(ctx, "internal.task.delivery.telegram.replaceMessage: edit message=%d: %v", msg.MessageID, err)
	return h.bot.SendMessageWithMode(ctx, msg.Chat.ID, text, parseMode)
}

func (h *handler) answerError(ctx context.Context, cq *pkgTelegram.CallbackQuery, err error) error {
	if errors.Is(err, task.ErrTargetNotFound) {
		h.l.Debugf(ctx, "internal.task.delivery.telegram.answerError: callback=%s: %v", cq.Data, err)
	} else {
		h.l.Errorf(ctx, "internal.task.delivery.telegram.answerError: callback=%s: %v", cq.Data, err)
	}
	return h.bot.AnswerCallbackQuery(ctx, cq.ID, errorMessage(err))
}
