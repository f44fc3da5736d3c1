package datemath

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"
)

const (
	DefaultTimezone = "Europe/Moscow"

	defaultHour   = 23
	defaultMinute = 59

	maxHours   = 1_000_000
	maxMinutes = 60_000_000
	maxDays    = 100_000

	localLayout = "02.01.2006 15:04"
)

// Parser converts deadline phrases into absolute UTC instants using one fixed reference zone.
type Parser struct {
	location *time.Location
	months   map[string]int
}

// NewParser creates a parser for the given IANA timezone, e.g. "Europe/Moscow".
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	months := make(map[string]int, len(genitiveMonths))
	for i, name := range genitiveMonths {
		months[name] = i + 1
	}
	return &Parser{location: loc, months: months}, nil
}

// Location returns the reference timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// FormatLocal renders t as "DD.MM.YYYY HH:MM" in the reference timezone.
func (p *Parser) FormatLocal(t time.Time) string {
	return t.In(p.location).Format(localLayout)
}

// Parse converts text to an absolute UTC instant relative to reference.
func (p *Parser) Parse(text string, reference time.Time) (time.Time, error) {
	res, err := p.ParseDetailed(text, reference)
	if err != nil {
		return time.Time{}, err
	}
	return res.Instant, nil
}

// ParseDetailed is Parse that also reports which rule matched.
func (p *Parser) ParseDetailed(text string, reference time.Time) (Result, error) {
	normalized := normalize(text)

	for _, r := range rules {
		fields, ok := r.match(normalized)
		if !ok {
			continue
		}
		instant, err := p.resolve(fields, reference)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Instant:     instant,
			Rule:        r.name,
			DefaultTime: fields.Kind != KindDuration && fields.Clock == nil,
		}, nil
	}

	return Result{}, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, normalized)
}

// resolve turns matched fields into an instant. Duration rules move the absolute reference;
// every other rule builds a local wall-clock date and converts it to UTC.
func (p *Parser) resolve(f Fields, reference time.Time) (time.Time, error) {
	switch f.Kind {
	case KindDuration:
		if f.Hours > maxHours || f.Minutes > maxMinutes {
			return time.Time{}, fmt.Errorf("%w: offset too large", ErrInvalidCalendarValue)
		}
		offset := time.Duration(f.Hours)*time.Hour + time.Duration(f.Minutes)*time.Minute
		return reference.Add(offset).UTC(), nil

	case KindDayOffset:
		if f.Days > maxDays {
			return time.Time{}, fmt.Errorf("%w: offset too large", ErrInvalidCalendarValue)
		}
		y, m, d := p.localDate(reference, f.Days)
		return p.localInstant(y, m, d, f.Clock)

	case KindToday:
		y, m, d := p.localDate(reference, 0)
		return p.localInstant(y, m, d, f.Clock)

	case KindTomorrow:
		y, m, d := p.localDate(reference, 1)
		return p.localInstant(y, m, d, f.Clock)

	case KindDate:
		year := f.Year
		if year < 100 {
			year += 2000
		}
		return p.localInstant(year, f.Month, f.Day, f.Clock)

	case KindDayMonth:
		month, ok := p.months[f.MonthName]
		if !ok {
			return time.Time{}, fmt.Errorf("%w %q", ErrUnknownMonth, f.MonthName)
		}
		return p.localInstant(reference.In(p.location).Year(), month, f.Day, f.Clock)
	}

	return time.Time{}, fmt.Errorf("%w: unsupported rule kind %d", ErrUnrecognizedFormat, f.Kind)
}

// localDate returns the reference's local calendar date shifted by days.
func (p *Parser) localDate(reference time.Time, days int) (int, int, int) {
	local := reference.In(p.location)
	shifted := time.Date(local.Year(), local.Month(), local.Day()+days, 0, 0, 0, 0, time.UTC)
	return shifted.Year(), int(shifted.Month()), shifted.Day()
}

// localInstant localizes a naive date and time in the reference zone and converts to UTC.
// Values are validated first: time.Date would silently roll 31.04 over to 01.05.
func (p *Parser) localInstant(year, month, day int, c *Clock) (time.Time, error) {
	clk := Clock{Hour: defaultHour, Minute: defaultMinute}
	if c != nil {
		clk = *c
	}
	if err := validate(year, month, day, clk); err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, clk.Hour, clk.Minute, 0, 0, p.location).UTC(), nil
}

func validate(year, month, day int, c Clock) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidCalendarValue, year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidCalendarValue, month)
	}
	if day < 1 || day > daysIn(year, month) {
		return fmt.Errorf("%w: day %d of month %d", ErrInvalidCalendarValue, day, month)
	}
	if c.Hour > 23 || c.Minute > 59 {
		return fmt.Errorf("%w: time %s", ErrInvalidCalendarValue, c)
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// normalize lower-cases text and turns every Unicode space, such as the no-break space some
// clients insert, into an ASCII space the rules can match.
func normalize(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
	return strings.ToLower(strings.TrimSpace(text))
}
