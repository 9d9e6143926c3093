// Package google treats Google Calendar as the system of record for
// meetings when a calendar credential is present. It is a best-effort
// mirror: only the forward-looking event list is consulted, and status
// changes are never written back.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/tripdesk/meetings"
)

// CalendarID is the calendar the dashboard reads and writes. Only the
// signed-in account's primary calendar is in scope.
const CalendarID = "primary"

type Client struct {
	oauthCfg *oauth2.Config

	Verbose bool
}

func NewClient(credJSON []byte) (*Client, error) {
	oauthCfg, err := googleauth.ConfigFromJSON(credJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("google: parsing credentials file: %v", err)
	}

	return &Client{
		oauthCfg: oauthCfg,
	}, nil
}

// Backend binds the client to one session's serialized OAuth token.
func (c *Client) Backend(auth string) *Backend {
	return &Backend{client: c, auth: auth}
}

type Backend struct {
	client *Client
	auth   string
}

func (b *Backend) Name() string {
	return "google"
}

const defaultSleep = 5 * time.Second

// List fetches upcoming events from the primary calendar and maps them onto
// the meeting shape. The calendar's own notion of past events is not
// consulted; the query window simply starts now.
func (b *Backend) List(ctx context.Context) ([]*meetings.Meeting, error) {
	svc, err := b.client.calendarSvc(ctx, b.auth)
	if err != nil {
		return nil, err
	}

	eventsCall := svc.Events.
		List(CalendarID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(time.Now().Format(time.RFC3339))

	var (
		list          []*meetings.Meeting
		nextPageToken string
	)
	for {
		events, err := eventsCall.PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) {
				time.Sleep(defaultSleep)
				continue
			}
			b.client.logf("unable to get list of events: %v", err)
			return nil, fmt.Errorf("google: listing events: %w", err)
		}

		for _, item := range events.Items {
			list = append(list, newMeeting(item))
		}
		nextPageToken = events.NextPageToken
		if nextPageToken == "" {
			break
		}
	}
	return list, nil
}

// Create converts the input into the external event shape and inserts it.
// The caller re-reads the full list afterwards; the calendar stays the
// source of truth for what was actually stored.
func (b *Backend) Create(ctx context.Context, in *meetings.MeetingInput) (*meetings.Meeting, error) {
	msg := fmt.Sprintf("creating event: %q on %s... ", in.Title, in.StartsAt())
	defer func() {
		b.client.logf(msg)
	}()

	svc, err := b.client.calendarSvc(ctx, b.auth)
	if err != nil {
		msg += "❌"
		return nil, err
	}

	for {
		gevent, err := svc.Events.Insert(CalendarID, newGoogleEvent(in)).Context(ctx).Do()
		if err == nil {
			msg += "✅"
			return newMeeting(gevent), nil
		}
		if shouldRetry(err) {
			time.Sleep(defaultSleep)
			continue
		}
		msg += "❌"
		return nil, fmt.Errorf("google: creating event: %w", err)
	}
}

// UpdateStatus is not wired through to the calendar. Completing or
// cancelling a meeting only changes the dashboard's local view.
func (b *Backend) UpdateStatus(ctx context.Context, id string, status meetings.Status) error {
	return meetings.ErrStatusNotSupported
}

// Login runs the OAuth authorization-code flow with a loopback redirect and
// returns the serialized token. prompt receives the URL the user must open.
func (c *Client) Login(ctx context.Context, prompt func(authURL string)) ([]byte, error) {
	state := fmt.Sprintf("meetings-%d", time.Now().UTC().Nanosecond())
	authURL := c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	prompt(authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}

	var (
		token   *oauth2.Token
		authErr error
	)

	mux.HandleFunc("/meetings", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(ctx)
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	serverCh := make(chan struct{})
	var svrErr error
	go func() {
		svrErr = server.ListenAndServe()
		close(serverCh)
	}()

	<-serverCh

	if svrErr != nil && svrErr != http.ErrServerClosed {
		return nil, svrErr
	}

	if authErr != nil {
		return nil, authErr
	}

	return json.Marshal(token)
}

func (c *Client) calendarSvc(ctx context.Context, auth string) (*calendar.Service, error) {
	var tok *oauth2.Token
	err := json.Unmarshal([]byte(auth), &tok)
	if err != nil {
		return nil, fmt.Errorf("google: parsing auth token: %w", err)
	}
	return calendar.NewService(ctx, option.WithHTTPClient(c.oauthCfg.Client(ctx, tok)))
}

func (c *Client) logf(format string, a ...any) {
	if c.Verbose {
		fmt.Fprintf(os.Stdout, "google: "+format+"\n", a...)
	}
}

func shouldRetry(err error) bool {
	return errIsReason(err, "rateLimitExceeded")
}

func errIsReason(err error, reason string) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, err := range gErr.Errors {
		switch err.Reason {
		case reason:
			return true
		}
	}
	return false
}
