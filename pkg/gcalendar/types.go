package gcalendar

import (
	"errors"
	"time"
)

// DefaultCalendarID is used when a request names no calendar.
const DefaultCalendarID = "primary"

// ErrNoToken means OAuth desktop credentials were given but no saved token exists yet.
var ErrNoToken = errors.New("gcalendar: oauth token not found, run gcal-auth first")

// EventRequest describes an event to write. With EventID set the event is
// addressed by that ID, which must be 5-1024 characters of base32hex (a-v, 0-9).
type EventRequest struct {
	CalendarID  string
	EventID     string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string // IANA name, e.g. "Europe/Moscow"
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID        string
	Summary   string
	HTMLLink  string
	StartTime time.Time
	EndTime   time.Time
}
