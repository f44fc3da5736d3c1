package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/internal/wizard"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

const (
	dateTimeLayout = "02.01.2006 15:04"
	taskSeparator  = "──────────────────"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// presenter renders tasks for chat messages in the configured zone.
type presenter struct {
	loc   *time.Location
	clock wizard.Clock
}

// formatTask renders t as a Markdown message body.
func (p presenter) formatTask(t model.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*", wizard.PriorityEmoji(t.Priority), escapeMarkdown(t.Title))
	if t.Description != nil && *t.Description != "" {
		b.WriteString("\n📝 " + escapeMarkdown(*t.Description))
	}
	if t.Category != nil && *t.Category != "" {
		b.WriteString("\n📂 " + escapeMarkdown(*t.Category))
	}
	if t.Deadline != nil {
		b.WriteString("\n" + p.formatDeadline(*t.Deadline))
	}
	if len(t.Tags) > 0 {
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = "#" + escapeMarkdown(tag)
		}
		b.WriteString("\n🏷 " + strings.Join(tags, " "))
	}
	b.WriteString("\n" + taskSeparator)
	return b.String()
}

// taskMessage renders headline followed by t as one Markdown message. Cutting rendered
// Markdown can split an escape or an entity, so oversized tasks lose text from their raw
// fields, longest first, until the message fits.
func (p presenter) taskMessage(headline string, t model.Task) string {
	for {
		text := headline + p.formatTask(t)
		over := utf16Len(text) - pkgTelegram.MaxMessageLength
		if over <= 0 {
			return text
		}
		var ok bool
		if t, ok = shrinkTask(t, over); !ok {
			return trimMessage(text)
		}
	}
}

// shrinkTask removes at least units UTF-16 units from the longest free-text field of t,
// or drops the last tag. It reports false when nothing is left to remove.
func shrinkTask(t model.Task, units int) (model.Task, bool) {
	fields := []*string{&t.Title}
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
		fields = append(fields, t.Description)
	}
	if t.Category != nil {
		c := *t.Category
		t.Category = &c
		fields = append(fields, t.Category)
	}

	longest := fields[0]
	for _, f := range fields[1:] {
		if utf16Len(*f) > utf16Len(*longest) {
			longest = f
		}
	}
	if utf16Len(*longest) > 1 {
		*longest = cutTail(*longest, units)
		return t, true
	}
	if len(t.Tags) > 0 {
		t.Tags = t.Tags[:len(t.Tags)-1]
		return t, true
	}
	return t, false
}

// cutTail drops at least units UTF-16 units from the end of s and marks the cut with an ellipsis.
func cutTail(s string, units int) string {
	keep := utf16Len(s) - units - 1
	if keep <= 0 {
		return "…"
	}
	n := 0
	for i, r := range s {
		n += runeUnits(r)
		if n > keep {
			return s[:i] + "…"
		}
	}
	return s
}

// fitMarkdown returns text with Markdown parse mode when it fits one message.
// Longer text is trimmed and sent plain.
func fitMarkdown(text string) (string, string) {
	if utf16Len(text) <= pkgTelegram.MaxMessageLength {
		return text, pkgTelegram.ParseModeMarkdown
	}
	return trimMessage(text), ""
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// formatDeadline renders the deadline in local time together with how far it is from now:
// hours and minutes when it falls on today's local date, whole local days otherwise.
func (p presenter) formatDeadline(deadline time.Time) string {
	local := deadline.In(p.loc)
	now := p.clock.Now().In(p.loc)
	date := local.Format(dateTimeLayout)

	delta := local.Sub(now)
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	hours := int(abs / time.Hour)
	minutes := int(abs % time.Hour / time.Minute)

	switch days := daysBetween(now, local); {
	case days == 0 && delta >= 0:
		return fmt.Sprintf("⏰ %s, сегодня через %02d:%02d", date, hours, minutes)
	case days == 0:
		return fmt.Sprintf("❗️ %s, сегодня %02d:%02d назад", date, hours, minutes)
	case days == 1:
		return fmt.Sprintf("⏰ %s, завтра", date)
	case days > 1:
		return fmt.Sprintf("⏰ %s, через %d дн.", date, days)
	default:
		return fmt.Sprintf("❗️ %s, %d дн. назад", date, -days)
	}
}

// daysBetween counts calendar days from a's date to b's date, both read in their own location.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// trimMessage cuts text to what Telegram accepts in one message.
func trimMessage(text string) string {
	const ellipsis = '…'

	units := 0
	for i, r := range text {
		n := runeUnits(r)
		if units+n > pkgTelegram.MaxMessageLength-1 {
			return text[:i] + string(ellipsis)
		}
		units += n
	}
	return text
}
