package sqlite

func (s Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS meetings (
		id VARCHAR NOT NULL PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		title VARCHAR NOT NULL,
		type VARCHAR NOT NULL,
		status VARCHAR NOT NULL DEFAULT "upcoming",
		starts_at TIMESTAMP NOT NULL,
		ends_at TIMESTAMP NOT NULL,
		duration_minutes INTEGER NULL DEFAULT NULL,
		attendees TEXT NOT NULL DEFAULT "[]",
		location VARCHAR NULL DEFAULT NULL,
		description VARCHAR NULL DEFAULT NULL,
		meeting_url VARCHAR NULL DEFAULT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS meetings_user_starts_at
		ON meetings (user_id, starts_at DESC)`,
}
