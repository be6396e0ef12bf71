package store

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			icon TEXT,
			sounds TEXT NOT NULL,
			played_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_history_user_played ON history(user_id, played_at);

		CREATE TABLE IF NOT EXISTS favorites (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			icon TEXT,
			sounds TEXT NOT NULL,
			added_at INTEGER NOT NULL,
			UNIQUE(user_id, item_id)
		);

		CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id TEXT NOT NULL,
			signed_in_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS volumes (
			sound_id TEXT PRIMARY KEY,
			level REAL NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
	return err
}
