// Package server is the HTTP surface the dashboard UI talks to. It is a
// thin translation layer: every behavioral decision (backend choice,
// fail-soft reads, optimistic writes) stays in the store.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripdesk/meetings"
	"github.com/tripdesk/meetings/calendar/ics"
	"github.com/tripdesk/meetings/internal/store"
)

type Server struct {
	store  *store.Store
	router chi.Router

	// today is a hook for deterministic agenda tests.
	today func() meetings.Date
}

func New(st *store.Store) *Server {
	s := &Server{
		store: st,
		today: meetings.Today,
	}

	r := chi.NewRouter()
	r.Use(countRequests)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/meetings", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Patch("/{id}/status", s.handleUpdateStatus)
	})
	r.Get("/agenda", s.handleAgenda)
	r.Get("/agenda.ics", s.handleAgendaICS)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": s.store.BackendName(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	list := s.store.Filter(req.Context(), meetings.Filter{
		Query:  query.Get("q"),
		Status: query.Get("status"),
		Type:   query.Get("type"),
	})
	writeJSON(w, http.StatusOK, newMeetingResponses(list))
}

func (s *Server) handleCreate(w http.ResponseWriter, req *http.Request) {
	var body createRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := body.input()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.Create(req.Context(), in)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	meetingsCreated.Inc()
	writeJSON(w, http.StatusCreated, newMeetingResponse(created))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := meetings.Status(body.Status)
	if !status.Terminal() {
		writeError(w, http.StatusBadRequest, "status must be completed or cancelled")
		return
	}

	s.store.UpdateStatus(req.Context(), chi.URLParam(req, "id"), status)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAgenda(w http.ResponseWriter, req *http.Request) {
	days := s.agenda(req)

	out := make([]agendaDayResponse, len(days))
	for i, day := range days {
		out[i] = agendaDayResponse{
			Date:     day.Date.String(),
			Meetings: newMeetingResponses(day.Meetings),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAgendaICS(w http.ResponseWriter, req *http.Request) {
	days := s.agenda(req)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if err := ics.EncodeAgenda(w, days); err != nil {
		writeError(w, http.StatusInternalServerError, "unable to encode agenda")
	}
}

func (s *Server) agenda(req *http.Request) []meetings.AgendaDay {
	today := s.today()
	if v := req.URL.Query().Get("date"); v != "" {
		if parsed, err := meetings.ParseDate(v); err == nil {
			today = parsed
		}
	}
	return s.store.AgendaView(req.Context(), today)
}

type createRequest struct {
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	DurationMinutes int      `json:"durationMinutes"`
	Attendees       []string `json:"attendees"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	MeetingURL      string   `json:"meetingUrl"`
}

func (r createRequest) input() (*meetings.MeetingInput, error) {
	date, err := meetings.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &meetings.MeetingInput{
		Title:           r.Title,
		Type:            meetings.Type(r.Type),
		Date:            date,
		Time:            r.Time,
		DurationMinutes: r.DurationMinutes,
		Attendees:       r.Attendees,
		Location:        r.Location,
		Description:     r.Description,
		MeetingURL:      r.MeetingURL,
	}, nil
}

type meetingResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	StartsAt        time.Time `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Attendees       []string  `json:"attendees,omitempty"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description,omitempty"`
	MeetingURL      string    `json:"meetingUrl,omitempty"`
}

type agendaDayResponse struct {
	Date     string            `json:"date"`
	Meetings []meetingResponse `json:"meetings"`
}

func newMeetingResponse(m *meetings.Meeting) meetingResponse {
	return meetingResponse{
		ID:              m.ID,
		Title:           m.Title,
		Type:            m.Type.String(),
		Status:          m.Status.String(),
		Date:            m.Date().String(),
		Time:            m.Clock(),
		StartsAt:        m.StartsAt,
		DurationMinutes: m.DurationMinutes,
		Attendees:       m.Attendees,
		Location:        m.Location,
		Description:     m.Description,
		MeetingURL:      m.MeetingURL,
	}
}

func newMeetingResponses(list []*meetings.Meeting) []meetingResponse {
	out := make([]meetingResponse, len(list))
	for i, m := range list {
		out[i] = newMeetingResponse(m)
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
