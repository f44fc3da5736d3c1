package wizard

import (
	"errors"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/pkg/datemath"
)

const (
	// SkipToken answers a step without changing the field.
	SkipToken = "/skip"
	// CancelToken abandons the session.
	CancelToken = "/cancel"
)

const (
	deadlineExamples = "'сегодня в 9:00', 'через 2 дня', 'завтра 18:00', '31.12.2025 23:59'"
	emptyValue       = "—"

	msgCreateTitle       = "📝 Введите название задачи:"
	msgCreateDescription = "ℹ️ Введите описание задачи (или нажмите /skip, чтобы пропустить):"
	msgCreatePriority    = "🚀 Выберите приоритет задачи:"
	msgCreateCategory    = "📂 Введите категорию задачи (например: Работа, Учеба, Дом) или /skip:"
	msgCreateTags        = "🏷 Введите теги через запятую (например: важное, проект1) или /skip:"
	msgCreateDeadline    = "⏰ Введите дедлайн задачи (например: " + deadlineExamples + ") или /skip:"

	msgEditTitle       = "✏️ *Редактирование задачи %d*\n\n1️⃣ Текущий заголовок:\n`%s`\n\nВведите новый заголовок или /skip, чтобы оставить старый:"
	msgEditDescription = "2️⃣ Текущее описание:\n`%s`\n\nВведите новое описание или /skip:"
	msgEditPriority    = "3️⃣ Текущий приоритет: %s\nВыберите новый или /skip:"
	msgEditCategory    = "4️⃣ Текущая категория: `%s`\nВведите новую или /skip:"
	msgEditTags        = "5️⃣ Текущие теги:\n`%s`\n\nВведите новые через запятую или /skip:"
	msgEditDeadline    = "6️⃣ Текущий дедлайн:\n`%s`\n\nВведите новый дедлайн или /skip:"

	msgReschedule = "🔄 *Перенос задачи %d*\nТекущий дедлайн: `%s`\n\nВведите новый дедлайн (например: " + deadlineExamples + ") или /skip:"

	msgRetry        = "❌ Ошибка: %s\nПопробуйте ещё раз."
	msgCancelled    = "❎ Действие отменено."
	msgTaskNotFound = "❌ Задача не найдена."
	msgNoDeadline   = "❌ Нельзя перенести: дедлайн не задан."

	msgCreateFailed     = "❌ Ошибка при создании задачи."
	msgEditFailed       = "❌ Ошибка при обновлении задачи."
	msgRescheduleFailed = "❌ Не удалось обновить дедлайн."
	msgEnteredData      = "\n\nВведённые данные:\n"
)

// Priority reply labels in keyboard order.
const (
	LabelHigh   = "🔴 Высокий"
	LabelMedium = "🟡 Средний"
	LabelLow    = "🟢 Низкий"
)

var priorityLabels = []string{LabelHigh, LabelMedium, LabelLow}

// PriorityLabels returns the reply keyboard shown at the priority step.
func PriorityLabels() []string {
	return append([]string(nil), priorityLabels...)
}

// PriorityFromLabel maps a keyboard label to a priority.
func PriorityFromLabel(label string) (model.Priority, bool) {
	switch label {
	case LabelHigh:
		return model.PriorityHigh, true
	case LabelMedium:
		return model.PriorityMedium, true
	case LabelLow:
		return model.PriorityLow, true
	}
	return "", false
}

// PriorityEmoji is the single-glyph marker of a priority.
func PriorityEmoji(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityLow:
		return "🟢"
	case model.PriorityMedium:
		return "🟡"
	}
	return "⚪"
}

// rejectionReason is the user-facing reason for a rejected answer.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyRequiredField):
		return "название не может быть пустым"
	case errors.Is(err, datemath.ErrUnknownMonth):
		return "неизвестное название месяца"
	case errors.Is(err, datemath.ErrInvalidCalendarValue):
		return "такой даты или времени не существует"
	case errors.Is(err, datemath.ErrUnrecognizedFormat):
		return "неверный формат даты"
	}
	return "некорректное значение"
}
