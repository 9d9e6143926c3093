package meetings

import "strings"

// FilterAll is the sentinel the dashboard filter dropdowns use for
// "no restriction" on status or type.
const FilterAll = "all"

// Filter is the dashboard's free-text + dropdown filter. Text matches are
// case-insensitive substring matches against title, description, or any
// attendee; status and type are exact matches unless set to FilterAll.
type Filter struct {
	Query  string
	Status string
	Type   string
}

func (f Filter) Match(m *Meeting) bool {
	if !f.matchText(m) {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && m.Status.String() != f.Status {
		return false
	}
	if f.Type != "" && f.Type != FilterAll && m.Type.String() != f.Type {
		return false
	}
	return true
}

func (f Filter) matchText(m *Meeting) bool {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(m.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Description), query) {
		return true
	}
	for _, attendee := range m.Attendees {
		if strings.Contains(strings.ToLower(attendee), query) {
			return true
		}
	}
	return false
}

// FilterMeetings returns the subsequence of list matching f, in input order.
func FilterMeetings(list []*Meeting, f Filter) []*Meeting {
	out := make([]*Meeting, 0, len(list))
	for _, m := range list {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}
