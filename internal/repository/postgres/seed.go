package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"eventify/internal/domain"
)

// Seed inserts the baseline reference data on an empty database: the initial
// admin account, the category list, and a starter venue. Existing rows are
// left untouched.
func Seed(ctx context.Context, db *sql.DB, hasher domain.PasswordHasher, adminEmail, adminPassword string, logger *slog.Logger) error {
	if err := seedAdmin(ctx, db, hasher, adminEmail, adminPassword, logger); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedCategories(ctx, db); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := seedLocations(ctx, db); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB, hasher domain.PasswordHasher, email, password string, logger *slog.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'Admin'`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	salt, err := hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := hasher.Hash(salt, password)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, salt, first_name, last_name, role)
		VALUES ($1, $2, $3, 'System', 'Admin', 'Admin')
	`, email, hash, salt)
	if err != nil {
		return err
	}
	logger.Info("seeded admin account", "email", email)
	return nil
}

func seedCategories(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	categories := []struct {
		name, color, icon string
	}{
		{"Conference", "#4f46e5", "presentation"},
		{"Workshop", "#059669", "wrench"},
		{"Meetup", "#d97706", "users"},
		{"Concert", "#db2777", "music"},
		{"Sports", "#2563eb", "trophy"},
		{"Other", "#6b7280", "calendar"},
	}
	for _, c := range categories {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO categories (name, color, icon) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, c.name, c.color, c.icon); err != nil {
			return err
		}
	}
	return nil
}

func seedLocations(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO locations (name, address, capacity, description)
		VALUES ('Main Hall', '1 Convention Plaza', 500, 'Default venue created on first start')
	`)
	return err
}
