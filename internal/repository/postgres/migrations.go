package postgres

import (
	"database/sql"
	"fmt"
)

// RunMigrations executes the schema statements in order. All statements are
// idempotent so the call is safe on every start.
func RunMigrations(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'User',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL UNIQUE,
		color VARCHAR(20) NOT NULL,
		icon VARCHAR(50) NOT NULL,
		description TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(200) NOT NULL,
		address TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		description TEXT,
		image_url TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		contact_email VARCHAR(255),
		contact_phone VARCHAR(50),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		registered_count INTEGER NOT NULL DEFAULT 0,
		image_url TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'Draft',
		organizer_id UUID NOT NULL REFERENCES users(id),
		category_id UUID NOT NULL REFERENCES categories(id),
		location_id UUID NOT NULL REFERENCES locations(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (registered_count >= 0 AND registered_count <= capacity),
		CHECK (end_date >= start_date)
	)`,

	`CREATE TABLE IF NOT EXISTS registrations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id),
		user_id UUID NOT NULL REFERENCES users(id),
		status VARCHAR(20) NOT NULL DEFAULT 'Confirmed',
		registration_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		notes TEXT
	)`,

	// One registration row per (user, event) regardless of status. A cancelled
	// row therefore blocks re-registration for the same event.
	`CREATE UNIQUE INDEX IF NOT EXISTS registrations_user_event_key
		ON registrations (user_id, event_id)`,

	`CREATE INDEX IF NOT EXISTS events_status_idx ON events (status)`,
	`CREATE INDEX IF NOT EXISTS events_start_date_idx ON events (start_date)`,
	`CREATE INDEX IF NOT EXISTS registrations_event_idx ON registrations (event_id)`,
}
