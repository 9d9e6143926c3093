package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/tripdesk/meetings"
)

type Meeting struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	Title           string         `db:"title"`
	Type            string         `db:"type"`
	Status          string         `db:"status"`
	StartsAt        time.Time      `db:"starts_at"`
	EndsAt          time.Time      `db:"ends_at"`
	DurationMinutes sql.NullInt64  `db:"duration_minutes"`
	Attendees       string         `db:"attendees"`
	Location        sql.NullString `db:"location"`
	Description     sql.NullString `db:"description"`
	MeetingURL      sql.NullString `db:"meeting_url"`
}

// Convert maps a row onto the meeting shape. The duration comes from the
// stored column when present, otherwise it is derived from the start/end
// window with the usual floor. Attendees are stored as a JSON array.
func (m Meeting) Convert() *meetings.Meeting {
	duration := int(m.DurationMinutes.Int64)
	if !m.DurationMinutes.Valid || duration <= 0 {
		duration = meetings.DurationBetween(m.StartsAt, m.EndsAt)
	}

	var attendees []string
	if m.Attendees != "" {
		_ = json.Unmarshal([]byte(m.Attendees), &attendees)
	}

	return &meetings.Meeting{
		ID:              m.ID,
		Title:           m.Title,
		Type:            meetings.Type(m.Type),
		Status:          meetings.Status(m.Status),
		StartsAt:        m.StartsAt,
		DurationMinutes: duration,
		Attendees:       attendees,
		Location:        m.Location.String,
		Description:     m.Description.String,
		MeetingURL:      m.MeetingURL.String,
	}
}
