package main

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tripdesk/meetings"
	"github.com/tripdesk/meetings/calendar/google"
	"github.com/tripdesk/meetings/file"
	"github.com/tripdesk/meetings/internal/localcache"
	"github.com/tripdesk/meetings/internal/sqlite"
	"github.com/tripdesk/meetings/internal/store"
)

// newStore wires the three backend tiers and resolves one of them for the
// configured session. A constructor that fails (missing credentials file,
// unopenable database) just means that tier is unavailable and resolution
// falls through to the next one.
func newStore(cfg *file.Config, verbose bool) *store.Store {
	return store.New(os.Stderr, newResolver(cfg, verbose), cfg.Session())
}

func newResolver(cfg *file.Config, verbose bool) store.Resolver {
	return store.Resolver{
		Calendar: func(auth string) (meetings.Backend, error) {
			credJSON, err := os.ReadFile(cfg.Google.CredentialsFile)
			if err != nil {
				return nil, err
			}
			client, err := google.NewClient(credJSON)
			if err != nil {
				return nil, err
			}
			client.Verbose = verbose
			return client.Backend(auth), nil
		},
		Remote: func(userID string) (meetings.Backend, error) {
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return nil, err
			}
			db, err := sql.Open(sqlite.DriverName, cfg.DatabasePath())
			if err != nil {
				return nil, err
			}
			return sqlite.NewStorage(db, userID), nil
		},
		Local: func(userID string) meetings.Backend {
			return localcache.New(cfg.DataDir, meetings.Session{UserID: userID})
		},
	}
}
