// Package localcache persists meetings as a per-user JSON state file. It is
// the fallback backend for unauthenticated or offline use: single writer,
// whole-list overwrite on every change, last write wins across processes.
package localcache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tripdesk/meetings"
)

// AnonymousKey scopes the state file when no user is signed in.
const AnonymousKey = "anonymous"

type Storage struct {
	dir string
	key string

	now func() time.Time
}

func New(dir string, sess meetings.Session) *Storage {
	key := sess.UserID
	if key == "" {
		key = AnonymousKey
	}
	return &Storage{
		dir: dir,
		key: key,
		now: time.Now,
	}
}

func (s *Storage) Name() string {
	return "localcache"
}

func (s *Storage) path() string {
	return filepath.Join(s.dir, "meetings-"+s.key+".json")
}

// List returns the stored collection, most recent first. A key that never
// existed is an empty collection, not an error.
func (s *Storage) List(ctx context.Context) ([]*meetings.Meeting, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return []*meetings.Meeting{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localcache: reading %s: %w", s.path(), err)
	}

	var list []*meetings.Meeting
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("localcache: parsing %s: %w", s.path(), err)
	}
	return list, nil
}

// Create prepends a new upcoming meeting and rewrites the whole list.
// Ids are timestamp-based; this backend is single-writer per session so
// nanosecond resolution is unique enough.
func (s *Storage) Create(ctx context.Context, in *meetings.MeetingInput) (*meetings.Meeting, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	m := &meetings.Meeting{
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

	list = append([]*meetings.Meeting{m}, list...)
	if err := s.write(list); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateStatus replaces the status of the matching record and rewrites the
// list. An unknown id is a no-op, not an error.
func (s *Storage) UpdateStatus(ctx context.Context, id string, status meetings.Status) error {
	list, err := s.List(ctx)
	if err != nil {
		return err
	}

	var found bool
	for _, m := range list {
		if m.ID == id {
			m.Status = status
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	return s.write(list)
}

func (s *Storage) write(list []*meetings.Meeting) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("localcache: creating %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("localcache: encoding state: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("localcache: writing %s: %w", s.path(), err)
	}
	return nil
}
