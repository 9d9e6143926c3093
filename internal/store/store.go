// Package store resolves which backend owns meeting data for a session and
// exposes a uniform list/create/update-status surface to the dashboard.
// Adapters report errors honestly; this layer is where the deliberate
// fail-soft policy lives: read errors become an empty list and write errors
// are logged while the in-memory view optimistically reflects the change.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/tripdesk/meetings"
)

// Resolver builds the backend for each credential tier. Constructors may
// fail (unreadable credentials, unreachable database); resolution treats a
// failed tier as unavailable and falls through to the next one. Local is the
// ultimate fallback and cannot fail.
type Resolver struct {
	Calendar func(auth string) (meetings.Backend, error)
	Remote   func(userID string) (meetings.Backend, error)
	Local    func(userID string) meetings.Backend
}

// Store owns the resolved backend and the in-memory meeting list for one
// session. Resolution happens once at construction and again only when the
// session changes.
type Store struct {
	output   io.Writer
	resolver Resolver

	mu      sync.Mutex
	sess    meetings.Session
	backend meetings.Backend
	cached  []*meetings.Meeting
	loaded  bool
}

func New(output io.Writer, resolver Resolver, sess meetings.Session) *Store {
	if output == nil {
		output = os.Stdout
	}
	s := &Store{
		output:   output,
		resolver: resolver,
	}
	s.mu.Lock()
	s.resolve(sess)
	s.mu.Unlock()
	return s
}

// resolve picks the backend by priority: calendar credential, then
// authenticated user, then local cache. Callers hold s.mu.
func (s *Store) resolve(sess meetings.Session) {
	s.sess = sess
	s.cached = nil
	s.loaded = false

	if sess.CalendarAuth != "" && s.resolver.Calendar != nil {
		backend, err := s.resolver.Calendar(sess.CalendarAuth)
		if err == nil {
			s.backend = backend
			return
		}
		s.logf("calendar backend unavailable: %v", err)
	}
	if sess.UserID != "" && s.resolver.Remote != nil {
		backend, err := s.resolver.Remote(sess.UserID)
		if err == nil {
			s.backend = backend
			return
		}
		s.logf("remote backend unavailable: %v", err)
	}
	s.backend = s.resolver.Local(sess.UserID)
}

// SetSession re-runs backend resolution and reloads data. This is the only
// trigger for re-resolution; nothing polls credential state.
func (s *Store) SetSession(ctx context.Context, sess meetings.Session) {
	s.mu.Lock()
	s.resolve(sess)
	s.mu.Unlock()
	s.Refresh(ctx)
}

func (s *Store) BackendName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Name()
}

// List returns the current in-memory view, loading it from the backend on
// first use. A failed read degrades to an empty list.
func (s *Store) List(ctx context.Context) []*meetings.Meeting {
	s.mu.Lock()
	if s.loaded {
		defer s.mu.Unlock()
		return s.snapshot()
	}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh re-reads the backend's collection. The backend stays the source
// of truth: the previous in-memory view is replaced wholesale.
func (s *Store) Refresh(ctx context.Context) []*meetings.Meeting {
	s.mu.Lock()
	backend := s.backend
	s.mu.Unlock()

	list, err := backend.List(ctx)
	if err != nil {
		s.logf("%s: unable to list meetings: %v", backend.Name(), err)
		list = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = list
	s.loaded = true
	return s.snapshot()
}

// Create validates the input and hands it to the backend. On success the
// collection is re-read rather than merged; on failure the view still
// optimistically gains the attempted record until the next reload.
func (s *Store) Create(ctx context.Context, in *meetings.MeetingInput) (*meetings.Meeting, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	backend := s.backend
	s.mu.Unlock()

	created, err := backend.Create(ctx, in)
	if err == nil {
		s.Refresh(ctx)
		return created, nil
	}
	s.logf("%s: unable to create meeting: %v", backend.Name(), err)

	optimistic := optimisticMeeting(in, time.Now())
	s.mu.Lock()
	s.cached = append([]*meetings.Meeting{optimistic}, s.cached...)
	s.loaded = true
	s.mu.Unlock()
	return optimistic, nil
}

// UpdateStatus transitions a meeting out of upcoming. Terminal statuses are
// never changed again, an unknown id is a no-op, and a failed backend write
// is logged while the in-memory copy is updated regardless. A failed write
// therefore leaves the view ahead of the backend until the next reload.
func (s *Store) UpdateStatus(ctx context.Context, id string, status meetings.Status) {
	if !status.Terminal() {
		return
	}
	s.List(ctx)

	s.mu.Lock()
	backend := s.backend
	var target *meetings.Meeting
	for _, m := range s.cached {
		if m.ID == id {
			target = m
			break
		}
	}
	if target == nil || target.Status.Terminal() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := backend.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, meetings.ErrStatusNotSupported) {
			s.logf("%s: status updates are not written back", backend.Name())
		} else {
			s.logf("%s: unable to update status of %s: %v", backend.Name(), id, err)
		}
	}

	s.mu.Lock()
	target.Status = status
	s.mu.Unlock()
}

// Filter applies the dashboard filter to the current view.
func (s *Store) Filter(ctx context.Context, f meetings.Filter) []*meetings.Meeting {
	return meetings.FilterMeetings(s.List(ctx), f)
}

// AgendaView groups the current view into the 7-day compact agenda.
func (s *Store) AgendaView(ctx context.Context, today meetings.Date) []meetings.AgendaDay {
	return meetings.Agenda(today, s.List(ctx))
}

func (s *Store) snapshot() []*meetings.Meeting {
	out := make([]*meetings.Meeting, len(s.cached))
	copy(out, s.cached)
	return out
}

func (s *Store) logf(format string, a ...any) {
	fmt.Fprintln(s.output, "store:", fmt.Sprintf(format, a...))
}

// optimisticMeeting is the record shown for a create the backend rejected.
// It mirrors what the backend would have stored, under a locally generated
// id that the next successful reload discards.
func optimisticMeeting(in *meetings.MeetingInput, now time.Time) *meetings.Meeting {
	return &meetings.Meeting{
		ID:              strconv.FormatInt(now.UnixNano(), 10),
		Title:           in.Title,
		Type:            in.Type,
		Status:          meetings.StatusUpcoming,
		StartsAt:        in.StartsAt(),
		DurationMinutes: in.DurationMinutes,
		Attendees:       in.Attendees,
		Location:        in.Location,
		Description:     in.Description,
		MeetingURL:      meetings.ResolveMeetingURL(in.Type, in.MeetingURL, now),
	}
}
