package meetings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Meeting is a single scheduled meeting as shown on the dashboard.
// Attendees are free text (emails or names); uniqueness is not enforced.
type Meeting struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            Type      `json:"type"`
	Status          Status    `json:"status"`
	StartsAt        time.Time `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Attendees       []string  `json:"attendees,omitempty"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description,omitempty"`
	MeetingURL      string    `json:"meetingUrl,omitempty"`
}

func (m Meeting) EndsAt() time.Time {
	return m.StartsAt.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

// Date is the calendar-date component of StartsAt in the reader's local zone.
func (m Meeting) Date() Date {
	return NewDateFromTime(m.StartsAt.In(time.Local))
}

// Clock is the clock-time component of StartsAt in the reader's local zone.
func (m Meeting) Clock() string {
	return m.StartsAt.In(time.Local).Format(ClockFormat)
}

type Type string

func (t Type) String() string {
	return string(t)
}

var (
	TypeVideo    Type = "video"
	TypePhone    Type = "phone"
	TypeInPerson Type = "in-person"
)

type Status string

func (s Status) String() string {
	return string(s)
}

var (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is defined out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// MeetingInput is what the dashboard submits to create a meeting. The id and
// status are never part of the input: the owning backend assigns the id and
// every new meeting starts as upcoming.
type MeetingInput struct {
	Title           string
	Type            Type
	Date            Date
	Time            string
	DurationMinutes int
	Attendees       []string
	Location        string
	Description     string
	MeetingURL      string
}

func (in MeetingInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("meetings: title is required")
	}
	switch in.Type {
	case TypeVideo, TypePhone, TypeInPerson:
	default:
		return fmt.Errorf("meetings: unknown meeting type %q", in.Type)
	}
	if _, err := time.Parse(ClockFormat, in.Time); err != nil {
		return fmt.Errorf("meetings: invalid time %q: %w", in.Time, err)
	}
	return nil
}

// StartsAt combines the date and clock-time inputs into a single instant in
// the date's location. An unparseable clock time falls back to midnight.
func (in MeetingInput) StartsAt() time.Time {
	return in.Date.At(in.Time)
}

func (in MeetingInput) EndsAt() time.Time {
	return in.StartsAt().Add(time.Duration(in.DurationMinutes) * time.Minute)
}

// Backend is one of the three storage systems that can own the meeting
// collection for a session. Exactly one backend is authoritative at a time.
type Backend interface {
	Name() string
	List(ctx context.Context) ([]*Meeting, error)
	Create(ctx context.Context, in *MeetingInput) (*Meeting, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// ErrStatusNotSupported is returned by backends that have no status-update
// path of their own (the external calendar). The store treats it as a no-op
// against the backend while still updating its in-memory view.
var ErrStatusNotSupported = errors.New("meetings: backend does not support status updates")

// Session carries the credential state the backend resolution depends on.
// CalendarAuth is a serialized OAuth token for the external calendar; UserID
// identifies an authenticated dashboard user.
type Session struct {
	UserID       string
	CalendarAuth string
}

func (s Session) Anonymous() bool {
	return s.UserID == ""
}

// MinDurationMinutes is the floor applied to durations derived from
// start/end instants by the local-cache and remote-table backends. The
// external calendar intentionally uses a different rule, see calendar/google.
const MinDurationMinutes = 15

// DurationBetween converts a start/end window into whole minutes, clamped to
// MinDurationMinutes to guard against degenerate zero or negative windows.
func DurationBetween(startsAt, endsAt time.Time) int {
	mins := int(math.Round(float64(endsAt.Sub(startsAt)) / float64(time.Minute)))
	if mins < MinDurationMinutes {
		return MinDurationMinutes
	}
	return mins
}

const videoRoomBaseURL = "https://meet.tripdesk.io/room"

// VideoRoomURL synthesizes a booking-room URL for video meetings created
// without an explicit one. The creation instant keeps rooms distinct enough
// for a placeholder scheme; collisions are acceptable.
func VideoRoomURL(now time.Time) string {
	return fmt.Sprintf("%s-%d", videoRoomBaseURL, now.UnixMilli())
}

// ResolveMeetingURL picks the explicit URL when given, synthesizes one for
// video meetings, and leaves every other type without a URL.
func ResolveMeetingURL(typ Type, explicit string, now time.Time) string {
	if explicit != "" {
		return explicit
	}
	if typ == TypeVideo {
		return VideoRoomURL(now)
	}
	return ""
}

// SplitAttendees turns the comma-separated attendee field of the create form
// into the ordered attendee list. Empty entries are dropped, order is kept.
func SplitAttendees(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
