package datemath

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnrecognizedFormat is returned when no grammar rule matches the input.
	ErrUnrecognizedFormat = errors.New("unrecognized deadline format")
	// ErrInvalidCalendarValue is returned when a rule matched but the date or time it names does not exist.
	ErrInvalidCalendarValue = errors.New("invalid calendar value")
	// ErrUnknownMonth is the ErrInvalidCalendarValue case of a month name missing from the locale table.
	ErrUnknownMonth = fmt.Errorf("%w: unknown month name", ErrInvalidCalendarValue)
)

// Kind identifies which family of rule produced a set of Fields.
type Kind int

const (
	KindDuration Kind = iota + 1
	KindDayOffset
	KindToday
	KindTomorrow
	KindDate
	KindDayMonth
)

// Clock is an explicit wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Fields is what a rule extracts from normalized input, before any calendar arithmetic.
type Fields struct {
	Kind Kind

	// KindDuration
	Hours   int
	Minutes int

	// KindDayOffset
	Days int

	// KindDate, KindDayMonth
	Day       int
	Month     int
	Year      int
	MonthName string

	// Clock is nil when the phrase carries no time of day.
	Clock *Clock
}

// Result is a successful parse.
type Result struct {
	Instant     time.Time // always UTC
	Rule        string    // name of the rule that matched
	DefaultTime bool      // true when the default time of day was applied
}
