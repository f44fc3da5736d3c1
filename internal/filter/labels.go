package filter

import "strings"

type labelToken struct {
	label string
	token Token
}

// keyboard is the filter menu in display order.
var keyboard = []labelToken{
	{label: "🔴 Высокий приоритет", token: TokenHigh},
	{label: "🟡 Средний приоритет", token: TokenMedium},
	{label: "🟢 Низкий приоритет", token: TokenLow},
	{label: "📅 Ближайшие дедлайны", token: TokenUpcoming},
	{label: "❗️ Просроченные", token: TokenOverdue},
	{label: "✅ Завершенные", token: TokenCompleted},
	{label: "📂 Категории", token: TokenCategory},
	{label: "🏷 Теги", token: TokenTag},
	{label: "📋 Все задачи", token: TokenAll},
}

// Labels returns the filter menu labels in display order.
func Labels() []string {
	out := make([]string, len(keyboard))
	for i, lt := range keyboard {
		out[i] = lt.label
	}
	return out
}

// TokenFromLabel maps a menu label to its token. Anything unrecognized selects all active tasks.
func TokenFromLabel(label string) Token {
	label = strings.TrimSpace(label)
	for _, lt := range keyboard {
		if lt.label == label {
			return lt.token
		}
	}
	return TokenAll
}
