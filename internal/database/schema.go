package database

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS notifications (
	id                            UUID PRIMARY KEY,
	asteroid_name                 TEXT NOT NULL,
	close_approach_date           DATE NOT NULL,
	miss_distance_kilometers      NUMERIC NOT NULL,
	estimated_diameter_avg_meters DOUBLE PRECISION NOT NULL,
	email_sent                    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at                    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at                    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (asteroid_name, close_approach_date)
);

CREATE INDEX IF NOT EXISTS idx_notifications_pending
	ON notifications (created_at) WHERE email_sent = FALSE;

CREATE TABLE IF NOT EXISTS users (
	id                    BIGSERIAL PRIMARY KEY,
	email                 TEXT NOT NULL UNIQUE,
	notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE
);
`

// EnsureSchema creates the notification and recipient tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
