// Package sqlite is the remote-table backend: meetings live in a relational
// table scoped by user id, and the table is always treated as the source of
// truth (writes are followed by a full re-read at the store layer).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tripdesk/meetings"
)

const DriverName = "sqlite3"

type Storage struct {
	db     *sqlx.DB
	userID string
}

func NewStorage(db *sql.DB, userID string) *Storage {
	s := &Storage{
		db:     sqlx.NewDb(db, DriverName),
		userID: userID,
	}
	err := s.RunMigrations()
	if err != nil {
		panic(fmt.Sprintf("sqlite: running migrations: %v", err))
	}
	return s
}

func (s Storage) Name() string {
	return "sqlite"
}

// List returns the user's meetings ordered by start time descending.
func (s Storage) List(ctx context.Context) ([]*meetings.Meeting, error) {
	var rows []Meeting

	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, title, type, status, starts_at, ends_at,
			duration_minutes, attendees, location, description, meeting_url
		FROM meetings
		WHERE user_id = ?
		ORDER BY starts_at DESC
	`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meetings: %w", err)
	}

	res := make([]*meetings.Meeting, len(rows))
	for i, row := range rows {
		res[i] = row.Convert()
	}
	return res, nil
}

// Create inserts a row scoped to the user. The row id is assigned here, not
// by the caller; the stored window is the start/end instant pair.
func (s Storage) Create(ctx context.Context, in *meetings.MeetingInput) (*meetings.Meeting, error) {
	m := &meetings.Meeting{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Type:            in.Type,
		Status:          meetings.StatusUpcoming,
		StartsAt:        in.StartsAt(),
		DurationMinutes: in.DurationMinutes,
		Attendees:       in.Attendees,
		Location:        in.Location,
		Description:     in.Description,
		MeetingURL:      meetings.ResolveMeetingURL(in.Type, in.MeetingURL, in.StartsAt()),
	}

	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding attendees: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meetings (id, user_id, title, type, status, starts_at, ends_at,
			duration_minutes, attendees, location, description, meeting_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, s.userID, m.Title, m.Type.String(), m.Status.String(),
		m.StartsAt.UTC(), m.EndsAt().UTC(), m.DurationMinutes,
		string(attendees), m.Location, m.Description, m.MeetingURL)
	if err != nil {
		return nil, fmt.Errorf("sqlite: inserting meeting: %w", err)
	}
	return m, nil
}

// UpdateStatus restricts the update to rows matching both id and user id so
// a guessed id can never mutate another user's row.
func (s Storage) UpdateStatus(ctx context.Context, id string, status meetings.Status) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE meetings SET status = ? WHERE id = ? AND user_id = ?
	`, status.String(), id, s.userID)
	if err != nil {
		return fmt.Errorf("sqlite: updating status: %w", err)
	}
	return nil
}
