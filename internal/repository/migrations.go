package repository

import "strings"

// schema is written once and rendered per dialect
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id {{pk}},
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT 'U',
		date_of_birth TEXT,
		is_staff BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		date_joined {{ts}} NOT NULL,
		password_hash TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id {{pk}},
		city TEXT NOT NULL,
		province TEXT NOT NULL,
		country TEXT NOT NULL,
		UNIQUE (city, province, country)
	)`,
	`CREATE TABLE IF NOT EXISTS races (
		id {{pk}},
		name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		date_created {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS race_types (
		id {{pk}},
		name TEXT NOT NULL,
		participants_allowed INTEGER NOT NULL DEFAULT 0 CHECK (participants_allowed >= 0),
		ftt_allowed INTEGER NOT NULL DEFAULT 0 CHECK (ftt_allowed >= 0),
		needs_swim_time BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS checkins (
		id {{pk}},
		name TEXT NOT NULL,
		positive_action TEXT NOT NULL DEFAULT '',
		negative_action TEXT NOT NULL DEFAULT '',
		depends_on_id INTEGER REFERENCES checkins(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS race_type_checkins (
		race_type_id INTEGER NOT NULL REFERENCES race_types(id) ON DELETE CASCADE,
		checkin_id INTEGER NOT NULL REFERENCES checkins(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (race_type_id, checkin_id)
	)`,
	`CREATE TABLE IF NOT EXISTS heats (
		id {{pk}},
		race_id INTEGER NOT NULL REFERENCES races(id),
		race_type_id INTEGER NOT NULL REFERENCES race_types(id),
		termination TEXT NOT NULL,
		pool TEXT NOT NULL DEFAULT '',
		start_datetime {{ts}} NOT NULL,
		color TEXT NOT NULL,
		ideal_capacity INTEGER NOT NULL DEFAULT 0 CHECK (ideal_capacity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id {{pk}},
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		origin_id INTEGER REFERENCES locations(id),
		heat_id INTEGER REFERENCES heats(id),
		race_id INTEGER NOT NULL REFERENCES races(id),
		race_type_id INTEGER NOT NULL REFERENCES race_types(id),
		bib_number INTEGER NOT NULL,
		is_ftt BOOLEAN NOT NULL DEFAULT FALSE,
		team TEXT NOT NULL DEFAULT '',
		swim_time_seconds INTEGER,
		location TEXT NOT NULL DEFAULT '',
		waiver_signed BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		date_changed {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS relay_teams (
		id {{pk}},
		name TEXT NOT NULL,
		race_id INTEGER NOT NULL REFERENCES races(id),
		race_type_id INTEGER NOT NULL REFERENCES race_types(id),
		heat_id INTEGER REFERENCES heats(id),
		bib_number INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		date_changed {{ts}} NOT NULL,
		UNIQUE (race_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS relay_participants (
		id {{pk}},
		relay_team_id INTEGER NOT NULL REFERENCES relay_teams(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		origin_id INTEGER REFERENCES locations(id),
		location TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		date_changed {{ts}} NOT NULL,
		UNIQUE (relay_team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS participant_checkins (
		id {{pk}},
		participant_id INTEGER NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		checkin_id INTEGER NOT NULL REFERENCES checkins(id),
		is_checked_in BOOLEAN NOT NULL DEFAULT FALSE,
		date_changed {{ts}} NOT NULL,
		UNIQUE (participant_id, checkin_id)
	)`,
	`CREATE TABLE IF NOT EXISTS relay_team_checkins (
		id {{pk}},
		relay_team_id INTEGER NOT NULL REFERENCES relay_teams(id) ON DELETE CASCADE,
		checkin_id INTEGER NOT NULL REFERENCES checkins(id),
		is_checked_in BOOLEAN NOT NULL DEFAULT FALSE,
		date_changed {{ts}} NOT NULL,
		UNIQUE (relay_team_id, checkin_id)
	)`,
	`CREATE TABLE IF NOT EXISTS participant_comments (
		id {{pk}},
		participant_id INTEGER NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		writer_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
		comment TEXT NOT NULL,
		creation_date {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS relay_team_comments (
		id {{pk}},
		relay_team_id INTEGER NOT NULL REFERENCES relay_teams(id) ON DELETE CASCADE,
		writer_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
		comment TEXT NOT NULL,
		creation_date {{ts}} NOT NULL
	)`,
	// bib numbers are only reserved while the entrant is active
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_active_bib ON participants(race_id, bib_number) WHERE is_active`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_relay_teams_active_bib ON relay_teams(race_id, bib_number) WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS idx_participants_race_type ON participants(race_id, race_type_id)`,
	`CREATE INDEX IF NOT EXISTS idx_relay_teams_race_type ON relay_teams(race_id, race_type_id)`,
	`CREATE INDEX IF NOT EXISTS idx_heats_race_type ON heats(race_id, race_type_id)`,
	`CREATE INDEX IF NOT EXISTS idx_participants_user ON participants(user_id)`,
}

// additionalMigrations add columns to databases created by older releases.
// Errors are ignored because the column may already exist.
var additionalMigrations = []string{
	`ALTER TABLE heats ADD COLUMN pool TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE participants ADD COLUMN waiver_signed BOOLEAN NOT NULL DEFAULT FALSE`,
}

func (d dialect) renderSchema(stmt string) string {
	var r *strings.Replacer
	if d == dialectPostgres {
		r = strings.NewReplacer("{{pk}}", "SERIAL PRIMARY KEY", "{{ts}}", "TIMESTAMPTZ")
	} else {
		r = strings.NewReplacer("{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{ts}}", "DATETIME")
	}
	return r.Replace(stmt)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(r.dialect.renderSchema(stmt)); err != nil {
			return err
		}
	}

	for _, stmt := range additionalMigrations {
		r.db.Exec(r.dialect.renderSchema(stmt)) // Ignore errors - columns may already exist
	}

	return nil
}
