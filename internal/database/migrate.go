package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema on startup. Statements are idempotent so
// repeated boots are safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash BYTEA NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			profile_photo TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			skills_offered JSONB NOT NULL DEFAULT '[]'::jsonb,
			skills_wanted JSONB NOT NULL DEFAULT '[]'::jsonb,
			availability JSONB NOT NULL DEFAULT '[]'::jsonb,
			is_profile_public BOOLEAN NOT NULL DEFAULT TRUE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			is_banned BOOLEAN NOT NULL DEFAULT FALSE,
			role TEXT NOT NULL DEFAULT 'user',
			total_rating INT NOT NULL DEFAULT 0,
			rating_count INT NOT NULL DEFAULT 0,
			average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			reset_token_hash BYTEA,
			reset_token_expires TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx ON users (LOWER(username));`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (LOWER(email));`,
		`CREATE INDEX IF NOT EXISTS users_public_idx ON users (is_profile_public, is_banned);`,

		`CREATE TABLE IF NOT EXISTS user_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			device_id TEXT NOT NULL,
			device_name TEXT NOT NULL DEFAULT '',
			refresh_token_hash BYTEA NOT NULL,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS user_sessions_user_device_idx ON user_sessions (user_id, device_id);`,

		`CREATE TABLE IF NOT EXISTS swap_requests (
			id TEXT PRIMARY KEY,
			requester_id TEXT NOT NULL REFERENCES users(id),
			requested_id TEXT NOT NULL REFERENCES users(id),
			skill_offered JSONB NOT NULL,
			skill_wanted JSONB NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			proposed_date TIMESTAMPTZ,
			duration TEXT NOT NULL DEFAULT '1 hour',
			completed_at TIMESTAMPTZ,
			requester_rating JSONB,
			requested_rating JSONB,
			is_reported BOOLEAN NOT NULL DEFAULT FALSE,
			report_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS swap_requests_requester_idx ON swap_requests (requester_id, status);`,
		`CREATE INDEX IF NOT EXISTS swap_requests_requested_idx ON swap_requests (requested_id, status);`,
		`CREATE INDEX IF NOT EXISTS swap_requests_status_created_idx ON swap_requests (status, created_at DESC);`,

		`CREATE TABLE IF NOT EXISTS admin_messages (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'announcement',
			priority TEXT NOT NULL DEFAULT 'medium',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at TIMESTAMPTZ,
			read_by JSONB NOT NULL DEFAULT '[]'::jsonb,
			sent_by_id TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS admin_messages_active_idx ON admin_messages (is_active, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
