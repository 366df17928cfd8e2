package database

import (
	"database/sql"
	"log"
)

// EnsureSchema creates the tables the service owns if they do not exist.
// Each table stands in for one document container; the owner column
// (business_id or email) is the partition key.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plants (
			id TEXT PRIMARY KEY,
			business_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			water_days INT NOT NULL DEFAULT 7,
			active_water_days INT NOT NULL DEFAULT 7,
			needs_watering BOOLEAN NOT NULL DEFAULT FALSE,
			weather_affected BOOLEAN NOT NULL DEFAULT FALSE,
			last_watering_update TEXT,
			last_watered TEXT,
			watered_by TEXT,
			watered_at TIMESTAMPTZ,
			watered_lat DOUBLE PRECISION,
			watered_lon DOUBLE PRECISION,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			section TEXT,
			aisle TEXT,
			shelf_number TEXT,
			version INT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plants_business ON plants (business_id)`,

		`CREATE TABLE IF NOT EXISTS user_plants (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			next_water TEXT,
			next_feed TEXT,
			next_repot TEXT,
			watering TEXT,
			feeding TEXT,
			version INT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_plants_email ON user_plants (email)`,

		`CREATE TABLE IF NOT EXISTS device_tokens (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL,
			token_hash TEXT NOT NULL,
			platform TEXT NOT NULL DEFAULT 'android',
			provider TEXT NOT NULL DEFAULT 'fcm',
			valid BOOLEAN NOT NULL DEFAULT TRUE,
			last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			invalidated_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, token_hash)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_device_tokens_token ON device_tokens (token)`,

		`CREATE TABLE IF NOT EXISTS notification_settings (
			owner_id TEXT NOT NULL,
			owner_type TEXT NOT NULL,
			notification_time TEXT NOT NULL DEFAULT '09:00',
			watering_reminders BOOLEAN NOT NULL DEFAULT TRUE,
			care_reminders BOOLEAN NOT NULL DEFAULT TRUE,
			daily_tips_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			last_notification_sent TIMESTAMPTZ,
			last_notification_success BOOLEAN,
			last_notified_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (owner_id, owner_type)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("[DB] Schema statement failed: %v", err)
			return err
		}
	}

	return nil
}
