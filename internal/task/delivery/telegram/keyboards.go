package telegram

import (
	"taskmaster-bot/internal/filter"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

const keyboardRowWidth = 3

func mainMenu() pkgTelegram.ReplyKeyboardMarkup {
	return pkgTelegram.ReplyKeyboardMarkup{
		Keyboard:       [][]pkgTelegram.KeyboardButton{{{Text: cmdNewTask}, {Text: cmdMyTasks}}},
		ResizeKeyboard: true,
	}
}

func filterKeyboard() pkgTelegram.ReplyKeyboardMarkup {
	return pkgTelegram.ReplyKeyboardMarkup{
		Keyboard:       buttonRows(filter.Labels()),
		ResizeKeyboard: true,
	}
}

// replyKeyboard offers labels as a keyboard that hides after one press.
func replyKeyboard(labels []string) pkgTelegram.ReplyKeyboardMarkup {
	return pkgTelegram.ReplyKeyboardMarkup{
		Keyboard:        buttonRows(labels),
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

func buttonRows(labels []string) [][]pkgTelegram.KeyboardButton {
	rows := make([][]pkgTelegram.KeyboardButton, 0, (len(labels)+keyboardRowWidth-1)/keyboardRowWidth)
	for i := 0; i < len(labels); i += keyboardRowWidth {
		end := min(i+keyboardRowWidth, len(labels))
		row := make([]pkgTelegram.KeyboardButton, 0, end-i)
		for _, l := range labels[i:end] {
			row = append(row, pkgTelegram.KeyboardButton{Text: l})
		}
		rows = append(rows, row)
	}
	return rows
}

// taskActions is the inline keyboard attached to every listed task.
func taskActions(taskID int64) *pkgTelegram.InlineKeyboardMarkup {
	return &pkgTelegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]pkgTelegram.InlineKeyboardButton{
			{
				{Text: "✅ Завершить", CallbackData: callbackData(actionComplete, taskID)},
				{Text: "🗑 Удалить", CallbackData: callbackData(actionDelete, taskID)},
			},
			{
				{Text: "🔄 Перенести", CallbackData: callbackData(actionReschedule, taskID)},
				{Text: "✏️ Редактировать", CallbackData: callbackData(actionEdit, taskID)},
			},
		},
	}
}
