package meetings

// AgendaDays is the width of the compact agenda window, today inclusive.
const AgendaDays = 7

// AgendaDay is one date bucket of the compact agenda. Days without meetings
// keep an empty bucket so the view always renders seven columns.
type AgendaDay struct {
	Date     Date
	Meetings []*Meeting
}

// Agenda groups meetings by calendar date into a 7-day window starting at
// today. Meetings dated outside the window are omitted from the agenda but
// remain in the full list. Grouping is deterministic: buckets are in date
// order and meetings keep their input order within a bucket.
func Agenda(today Date, list []*Meeting) []AgendaDay {
	days := make([]AgendaDay, AgendaDays)
	index := make(map[string]int, AgendaDays)
	for i := range days {
		d := today.AddDate(0, 0, i)
		days[i] = AgendaDay{Date: d}
		index[d.String()] = i
	}
	for _, m := range list {
		if i, ok := index[m.Date().String()]; ok {
			days[i].Meetings = append(days[i].Meetings, m)
		}
	}
	return days
}
