package google

import (
	"math"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/tripdesk/meetings"
)

// fallbackDurationMinutes replaces a zero computed duration for imported
// events. This backend never clamps to the 15-minute floor the other
// backends use: a genuine 5-minute event stays 5 minutes here.
const fallbackDurationMinutes = 30

// newMeeting maps a calendar event onto the meeting shape. The meeting type
// is derived, not stored: video when the event carries a conferencing link,
// in-person when it carries a physical location, phone otherwise. Imported
// events are always upcoming; the list query is forward-looking only.
func newMeeting(event *calendar.Event) *meetings.Meeting {
	startsAt, _ := time.Parse(time.RFC3339, event.Start.DateTime)
	endsAt, _ := time.Parse(time.RFC3339, event.End.DateTime)

	videoLink := event.HangoutLink
	if videoLink == "" && event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				videoLink = ep.Uri
				break
			}
		}
	}

	typ := meetings.TypePhone
	switch {
	case videoLink != "":
		typ = meetings.TypeVideo
	case event.Location != "":
		typ = meetings.TypeInPerson
	}

	duration := int(math.Round(endsAt.Sub(startsAt).Minutes()))
	if duration < 0 {
		duration = 0
	}
	if duration == 0 {
		duration = fallbackDurationMinutes
	}

	attendees := make([]string, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		attendees = append(attendees, a.Email)
	}

	return &meetings.Meeting{
		ID:              event.Id,
		Title:           event.Summary,
		Type:            typ,
		Status:          meetings.StatusUpcoming,
		StartsAt:        startsAt,
		DurationMinutes: duration,
		Attendees:       attendees,
		Location:        event.Location,
		Description:     event.Description,
		MeetingURL:      videoLink,
	}
}

func newGoogleEvent(in *meetings.MeetingInput) *calendar.Event {
	attendees := make([]*calendar.EventAttendee, 0, len(in.Attendees))
	for _, a := range in.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: a})
	}

	return &calendar.Event{
		Summary:     in.Title,
		Description: in.Description,
		Location:    in.Location,
		Attendees:   attendees,
		Start: &calendar.EventDateTime{
			DateTime: in.StartsAt().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: in.EndsAt().Format(time.RFC3339),
		},
		Reminders: &calendar.EventReminders{
			UseDefault: true,
		},
	}
}
