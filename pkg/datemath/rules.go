package datemath

import (
	"math"
	"regexp"
	"strconv"
)

const (
	unitHour   = `(?:часов|часа|час)`
	unitMinute = `(?:минуты|минуту|минута|минут)`
	unitDay    = `(?:дней|день|дня)`
	clockPart  = `(?:\s*(?:в)?\s*(\d{1,2}):(\d{2}))?`
)

var (
	reHours    = regexp.MustCompile(`^через\s+(\d+)\s*` + unitHour + `(?:\s+(\d+)\s*` + unitMinute + `)?$`)
	reMinutes  = regexp.MustCompile(`^через\s+(\d+)\s*` + unitMinute + `$`)
	reDays     = regexp.MustCompile(`^через\s+(\d+)\s*` + unitDay + clockPart + `$`)
	reToday    = regexp.MustCompile(`^сегодня` + clockPart + `$`)
	reTomorrow = regexp.MustCompile(`^завтра` + clockPart + `$`)
	reDate     = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})` + clockPart + `$`)
	reDayMonth = regexp.MustCompile(`^(\d{1,2})\s+([а-яё]+)` + clockPart + `$`)
)

// genitiveMonths is the month lookup table of the supported locale, January first.
var genitiveMonths = [12]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Matcher extracts Fields from normalized text, reporting whether the rule applies.
type Matcher func(text string) (Fields, bool)

type rule struct {
	name  string
	match Matcher
}

// rules is tried strictly in order; the first match wins.
var rules = []rule{
	{name: "hours", match: matchHours},
	{name: "minutes", match: matchMinutes},
	{name: "days", match: matchDays},
	{name: "today", match: matchToday},
	{name: "tomorrow", match: matchTomorrow},
	{name: "date", match: matchDate},
	{name: "day_month", match: matchDayMonth},
}

// RuleNames lists the grammar rules in evaluation order.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

func matchHours(text string) (Fields, bool) {
	m := reHours.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	f := Fields{Kind: KindDuration, Hours: atoi(m[1])}
	if m[2] != "" {
		f.Minutes = atoi(m[2])
	}
	return f, true
}

func matchMinutes(text string) (Fields, bool) {
	m := reMinutes.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	return Fields{Kind: KindDuration, Minutes: atoi(m[1])}, true
}

func matchDays(text string) (Fields, bool) {
	m := reDays.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	return Fields{Kind: KindDayOffset, Days: atoi(m[1]), Clock: clock(m[2], m[3])}, true
}

func matchToday(text string) (Fields, bool) {
	m := reToday.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	return Fields{Kind: KindToday, Clock: clock(m[1], m[2])}, true
}

func matchTomorrow(text string) (Fields, bool) {
	m := reTomorrow.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	return Fields{Kind: KindTomorrow, Clock: clock(m[1], m[2])}, true
}

func matchDate(text string) (Fields, bool) {
	m := reDate.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		Kind:  KindDate,
		Day:   atoi(m[1]),
		Month: atoi(m[2]),
		Year:  atoi(m[3]),
		Clock: clock(m[4], m[5]),
	}, true
}

func matchDayMonth(text string) (Fields, bool) {
	m := reDayMonth.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		Kind:      KindDayMonth,
		Day:       atoi(m[1]),
		MonthName: m[2],
		Clock:     clock(m[3], m[4]),
	}, true
}

func clock(hour, minute string) *Clock {
	if hour == "" {
		return nil
	}
	return &Clock{Hour: atoi(hour), Minute: atoi(minute)}
}

// atoi is only applied to digit runs, so the sole failure is overflow, which saturates
// and is later rejected as an out-of-range value.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return n
}
