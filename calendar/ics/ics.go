// Package ics encodes the compact agenda as an iCalendar feed so meetings
// can be pulled into a desktop calendar.
package ics

import (
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/tripdesk/meetings"
)

const productID = "-//tripdesk//meetings//EN"

// EncodeAgenda writes one VEVENT per meeting in the agenda window.
func EncodeAgenda(w io.Writer, days []meetings.AgendaDay) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	now := time.Now().UTC()
	for _, day := range days {
		for _, m := range day.Meetings {
			cal.Children = append(cal.Children, newEvent(m, now).Component)
		}
	}
	return ical.NewEncoder(w).Encode(cal)
}

func newEvent(m *meetings.Meeting, now time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, m.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now)
	event.Props.SetText(ical.PropSummary, m.Title)
	event.Props.SetDateTime(ical.PropDateTimeStart, m.StartsAt)
	event.Props.SetDateTime(ical.PropDateTimeEnd, m.EndsAt())
	event.Props.SetText(ical.PropStatus, icalStatus(m.Status))
	if m.Location != "" {
		event.Props.SetText(ical.PropLocation, m.Location)
	}
	if m.Description != "" {
		event.Props.SetText(ical.PropDescription, m.Description)
	}
	if m.MeetingURL != "" {
		event.Props.SetText(ical.PropURL, m.MeetingURL)
	}
	return event
}

func icalStatus(s meetings.Status) string {
	if s == meetings.StatusCancelled {
		return "CANCELLED"
	}
	return "CONFIRMED"
}
