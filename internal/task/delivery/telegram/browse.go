package telegram

import (
	"context"
	"errors"
	"strings"

	"taskmaster-bot/internal/filter"
	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/task"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

type browsePhase int

const (
	phaseAwaitFilter browsePhase = iota + 1
	phaseAwaitChoice
)

// browseState is where a chat is in the /mytasks flow.
type browseState struct {
	phase browsePhase
	field filter.Field
}

func (h *handler) startBrowse(ctx context.Context, sc model.Scope) error {
	if err := h.uc.RegisterUser(ctx, sc); err != nil {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.startBrowse: register user=%d: %v", sc.UserID, err)
	}

	unlock := h.browse.Lock(sc.ChatID)
	h.browse.Put(sc.ChatID, browseState{phase: phaseAwaitFilter})
	unlock()

	_, err := h.bot.Send(ctx, pkgTelegram.SendMessageRequest{
		ChatID:      sc.ChatID,
		Text:        msgChooseFilter,
		ReplyMarkup: filterKeyboard(),
	})
	return err
}

// continueBrowse consumes text when the chat is in the /mytasks flow.
func (h *handler) continueBrowse(ctx context.Context, sc model.Scope, text string) (bool, error) {
	unlock := h.browse.Lock(sc.ChatID)
	st, ok := h.browse.Get(sc.ChatID)
	if ok {
		h.browse.Delete(sc.ChatID)
	}
	unlock()

	if !ok {
		return false, nil
	}

	switch st.phase {
	case phaseAwaitFilter:
		return true, h.applyFilter(ctx, sc, text)
	case phaseAwaitChoice:
		res, err := filter.ResolveChoice(st.field, text)
		if err != nil {
			h.l.Debugf(ctx, "internal.task.delivery.telegram.continueBrowse: chat=%d: %v", sc.ChatID, err)
			if err := h.bot.SendMessage(ctx, sc.ChatID, msgEmptyChoice); err != nil {
				return true, err
			}
			return true, h.showMainMenu(ctx, sc.ChatID)
		}
		return true, h.listTasks(ctx, sc, res)
	}
	return true, nil
}

// applyFilter resolves a filter label. Drill-down filters first list the distinct values
// and wait for the next message.
func (h *handler) applyFilter(ctx context.Context, sc model.Scope, label string) error {
	res := filter.Resolve(filter.TokenFromLabel(label), h.clock.Now())
	if !res.NeedsChoice() {
		return h.listTasks(ctx, sc, res)
	}

	var (
		values []string
		err    error
		header = msgChooseCategory
		none   = msgNoCategories
	)
	switch res.DrillDown {
	case filter.FieldTag:
		header, none = msgChooseTag, msgNoTags
		values, err = h.uc.Tags(ctx, sc)
	default:
		values, err = h.uc.Categories(ctx, sc)
	}
	if err != nil {
		return err
	}

	if len(values) == 0 {
		if err := h.bot.SendMessage(ctx, sc.ChatID, none); err != nil {
			return err
		}
		return h.showMainMenu(ctx, sc.ChatID)
	}

	unlock := h.browse.Lock(sc.ChatID)
	h.browse.Put(sc.ChatID, browseState{phase: phaseAwaitChoice, field: res.DrillDown})
	unlock()

	_, err = h.bot.Send(ctx, pkgTelegram.SendMessageRequest{
		ChatID:      sc.ChatID,
		Text:        trimMessage(header + strings.Join(values, "\n")),
		ReplyMarkup: replyKeyboard(values),
	})
	return err
}

// listTasks sends every matching task as its own message with inline actions, then the main menu.
func (h *handler) listTasks(ctx context.Context, sc model.Scope, res filter.Resolution) error {
	tasks, err := h.uc.List(ctx, sc, task.ListInput{Predicate: res.Predicate, Sort: res.Sort})
	if err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.telegram.listTasks: user=%d token=%s: %v", sc.UserID, res.Token, err)
		text := msgListFailed
		if !errors.Is(err, task.ErrStoreFailure) {
			text = errorMessage(err)
		}
		if err := h.bot.SendMessage(ctx, sc.ChatID, text); err != nil {
			return err
		}
		return h.showMainMenu(ctx, sc.ChatID)
	}

	if len(tasks) == 0 {
		if err := h.bot.SendMessage(ctx, sc.ChatID, emptyListMessage(res)); err != nil {
			return err
		}
		return h.showMainMenu(ctx, sc.ChatID)
	}

	for _, t := range tasks {
		_, err := h.bot.Send(ctx, pkgTelegram.SendMessageRequest{
			ChatID:      sc.ChatID,
			Text:        h.view.taskMessage("", t),
			ParseMode:   pkgTelegram.ParseModeMarkdown,
			ReplyMarkup: taskActions(t.ID),
		})
		if err != nil {
			return err
		}
	}
	return h.showMainMenu(ctx, sc.ChatID)
}

func emptyListMessage(res filter.Resolution) string {
	switch {
	case res.Predicate.Category != nil:
		return msgNoTasksInCat
	case res.Predicate.Tag != nil:
		return msgNoTasksWithTag
	}
	return msgNoTasks
}
