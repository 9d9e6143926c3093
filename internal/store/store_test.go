package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/meetings"
)

type statusUpdate struct {
	id     string
	status meetings.Status
}

type fakeBackend struct {
	name      string
	list      []*meetings.Meeting
	listErr   error
	createErr error
	updateErr error

	listCalls int
	updates   []statusUpdate
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) List(ctx context.Context) ([]*meetings.Meeting, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*meetings.Meeting, len(f.list))
	for i, m := range f.list {
		copied := *m
		out[i] = &copied
	}
	return out, nil
}

func (f *fakeBackend) Create(ctx context.Context, in *meetings.MeetingInput) (*meetings.Meeting, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	m := &meetings.Meeting{
		ID:              "fake-id",
		Title:           in.Title,
		Type:            in.Type,
		Status:          meetings.StatusUpcoming,
		StartsAt:        in.StartsAt(),
		DurationMinutes: in.DurationMinutes,
		Attendees:       in.Attendees,
		Location:        in.Location,
		Description:     in.Description,
	}
	f.list = append([]*meetings.Meeting{m}, f.list...)
	return m, nil
}

func (f *fakeBackend) UpdateStatus(ctx context.Context, id string, status meetings.Status) error {
	f.updates = append(f.updates, statusUpdate{id, status})
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, m := range f.list {
		if m.ID == id {
			m.Status = status
		}
	}
	return nil
}

func fixedResolver(calendar, remote *fakeBackend, calendarErr, remoteErr error) Resolver {
	return Resolver{
		Calendar: func(auth string) (meetings.Backend, error) {
			if calendarErr != nil {
				return nil, calendarErr
			}
			return calendar, nil
		},
		Remote: func(userID string) (meetings.Backend, error) {
			if remoteErr != nil {
				return nil, remoteErr
			}
			return remote, nil
		},
		Local: func(userID string) meetings.Backend {
			return &fakeBackend{name: "local"}
		},
	}
}

func validInput() *meetings.MeetingInput {
	return &meetings.MeetingInput{
		Title:           "Sync",
		Type:            meetings.TypeVideo,
		Date:            meetings.NewDate(2025, time.May, 1, time.Local),
		Time:            "09:00",
		DurationMinutes: 30,
		Attendees:       []string{"a@x.com", "b@x.com"},
	}
}

func TestResolution_Priority(t *testing.T) {
	calendar := &fakeBackend{name: "calendar"}
	remote := &fakeBackend{name: "remote"}

	tests := []struct {
		name string
		sess meetings.Session
		want string
	}{
		{"all credentials present", meetings.Session{UserID: "u1", CalendarAuth: "tok"}, "calendar"},
		{"authenticated only", meetings.Session{UserID: "u1"}, "remote"},
		{"anonymous", meetings.Session{}, "local"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := New(&bytes.Buffer{}, fixedResolver(calendar, remote, nil, nil), tt.sess)
			assert.Equal(t, tt.want, st.BackendName())
		})
	}
}

func TestResolution_DegradesOnConstructorErrors(t *testing.T) {
	calendar := &fakeBackend{name: "calendar"}
	remote := &fakeBackend{name: "remote"}
	sess := meetings.Session{UserID: "u1", CalendarAuth: "tok"}

	st := New(&bytes.Buffer{}, fixedResolver(calendar, remote, errors.New("bad creds"), nil), sess)
	assert.Equal(t, "remote", st.BackendName())

	st = New(&bytes.Buffer{}, fixedResolver(calendar, remote, errors.New("bad creds"), errors.New("db down")), sess)
	assert.Equal(t, "local", st.BackendName(), "local cache is the ultimate fallback")
}

func TestSetSession_ReResolvesAndReloads(t *testing.T) {
	calendar := &fakeBackend{name: "calendar"}
	remote := &fakeBackend{name: "remote", list: []*meetings.Meeting{{ID: "r1", Status: meetings.StatusUpcoming}}}

	st := New(&bytes.Buffer{}, fixedResolver(calendar, remote, nil, nil), meetings.Session{})
	require.Equal(t, "local", st.BackendName())

	st.SetSession(context.Background(), meetings.Session{UserID: "u1"})
	assert.Equal(t, "remote", st.BackendName())
	assert.Equal(t, 1, remote.listCalls, "session change reloads from the new backend")
	require.Len(t, st.List(context.Background()), 1)
}

func TestList_FailedReadDegradesToEmpty(t *testing.T) {
	remote := &fakeBackend{name: "remote", listErr: errors.New("network down")}
	var logs bytes.Buffer

	st := New(&logs, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})
	assert.Empty(t, st.List(context.Background()))
	assert.Contains(t, logs.String(), "network down")
}

// Note on concurrency: a create is followed by a full re-read, and nothing
// queues requests. Two creates issued concurrently may interleave with each
// other's re-reads; that is accepted behavior, so these tests only exercise
// the sequential path.
func TestCreate_RefreshesFromBackend(t *testing.T) {
	remote := &fakeBackend{name: "remote"}
	st := New(&bytes.Buffer{}, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})

	created, err := st.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "fake-id", created.ID)
	assert.Equal(t, meetings.StatusUpcoming, created.Status)

	list := st.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "Sync", list[0].Title)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, list[0].Attendees)
	assert.GreaterOrEqual(t, remote.listCalls, 1, "create re-reads instead of merging")
}

func TestCreate_FailureIsOptimistic(t *testing.T) {
	remote := &fakeBackend{name: "remote", createErr: errors.New("insert denied")}
	var logs bytes.Buffer

	st := New(&logs, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})
	st.List(context.Background())

	created, err := st.Create(context.Background(), validInput())
	require.NoError(t, err, "backend write failures are not surfaced")
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.MeetingURL, "optimistic video meeting still gets a URL")

	list := st.List(context.Background())
	require.Len(t, list, 1, "the view reflects the attempted create")
	assert.Contains(t, logs.String(), "insert denied")

	// The next reload discards the optimistic record: the backend is truth.
	assert.Empty(t, st.Refresh(context.Background()))
}

func TestCreate_InvalidInputIsRejected(t *testing.T) {
	remote := &fakeBackend{name: "remote"}
	st := New(&bytes.Buffer{}, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})

	in := validInput()
	in.Title = ""
	_, err := st.Create(context.Background(), in)
	assert.Error(t, err)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	remote := &fakeBackend{name: "remote", list: []*meetings.Meeting{
		{ID: "m1", Status: meetings.StatusUpcoming},
		{ID: "m2", Status: meetings.StatusCompleted},
	}}
	st := New(&bytes.Buffer{}, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})

	st.UpdateStatus(context.Background(), "m1", meetings.StatusCompleted)
	require.Len(t, remote.updates, 1)

	// Completed and cancelled never transition again.
	st.UpdateStatus(context.Background(), "m1", meetings.StatusCancelled)
	st.UpdateStatus(context.Background(), "m2", meetings.StatusCancelled)
	assert.Len(t, remote.updates, 1)

	// Transitions back to upcoming are not a thing either.
	st.UpdateStatus(context.Background(), "m1", meetings.StatusUpcoming)
	assert.Len(t, remote.updates, 1)
}

func TestUpdateStatus_UnknownIDIsNoop(t *testing.T) {
	remote := &fakeBackend{name: "remote"}
	st := New(&bytes.Buffer{}, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})

	st.UpdateStatus(context.Background(), "ghost", meetings.StatusCompleted)
	assert.Empty(t, remote.updates)
}

func TestUpdateStatus_FailureIsOptimistic(t *testing.T) {
	remote := &fakeBackend{
		name:      "remote",
		list:      []*meetings.Meeting{{ID: "m1", Status: meetings.StatusUpcoming}},
		updateErr: errors.New("permission denied"),
	}
	var logs bytes.Buffer

	st := New(&logs, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})
	st.UpdateStatus(context.Background(), "m1", meetings.StatusCancelled)

	list := st.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, meetings.StatusCancelled, list[0].Status,
		"the view runs ahead of the backend until the next reload")
	assert.Contains(t, logs.String(), "permission denied")
}

func TestUpdateStatus_UnsupportedBackendStillUpdatesView(t *testing.T) {
	calendar := &fakeBackend{
		name:      "calendar",
		list:      []*meetings.Meeting{{ID: "ev1", Status: meetings.StatusUpcoming}},
		updateErr: meetings.ErrStatusNotSupported,
	}
	var logs bytes.Buffer

	st := New(&logs, fixedResolver(calendar, nil, nil, nil), meetings.Session{CalendarAuth: "tok"})
	st.UpdateStatus(context.Background(), "ev1", meetings.StatusCompleted)

	list := st.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, meetings.StatusCompleted, list[0].Status)
	assert.Contains(t, logs.String(), "not written back")
}

func TestFilterAndAgendaViews(t *testing.T) {
	today := meetings.NewDate(2025, time.May, 1, time.Local)
	remote := &fakeBackend{name: "remote", list: []*meetings.Meeting{
		{ID: "m1", Title: "Sales sync", Status: meetings.StatusUpcoming, Type: meetings.TypeVideo, StartsAt: today.At("09:00")},
		{ID: "m2", Title: "Retro", Status: meetings.StatusCompleted, Type: meetings.TypeVideo, StartsAt: today.AddDate(0, 0, 10).At("09:00")},
	}}
	st := New(&bytes.Buffer{}, fixedResolver(nil, remote, nil, nil), meetings.Session{UserID: "u1"})

	filtered := st.Filter(context.Background(), meetings.Filter{Status: "upcoming"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "m1", filtered[0].ID)

	days := st.AgendaView(context.Background(), today)
	require.Len(t, days, meetings.AgendaDays)
	require.Len(t, days[0].Meetings, 1)
	assert.Equal(t, "m1", days[0].Meetings[0].ID)
}
