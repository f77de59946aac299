package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notification is a persisted record of one collision event awaiting or past email delivery.
type Notification struct {
	ID                         string
	AsteroidName               string
	CloseApproachDate          time.Time
	MissDistanceKilometers     decimal.Decimal
	EstimatedDiameterAvgMeters float64
	EmailSent                  bool
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// ErrNotificationNotFound is returned when an update targets a missing notification.
var ErrNotificationNotFound = errors.New("notification not found")

// InsertNotificationIdempotent inserts a pending notification unless one already exists
// for the same asteroid and close approach date.
// Returns the new notification ID, or nil if the row already existed.
func (db *DB) InsertNotificationIdempotent(ctx context.Context, n *Notification) (*string, error) {
	query := `
		INSERT INTO notifications (id, asteroid_name, close_approach_date, miss_distance_kilometers, estimated_diameter_avg_meters, email_sent)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		ON CONFLICT (asteroid_name, close_approach_date) DO NOTHING
		RETURNING id
	`

	var id string
	err := db.conn.QueryRowContext(ctx, query,
		uuid.New().String(),
		n.AsteroidName,
		n.CloseApproachDate,
		n.MissDistanceKilometers,
		n.EstimatedDiameterAvgMeters,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("Notification already exists, skipping",
				"asteroid_name", n.AsteroidName,
				"close_approach_date", n.CloseApproachDate.Format("2006-01-02"),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	slog.Info("Inserted new notification",
		"notification_id", id,
		"asteroid_name", n.AsteroidName,
		"close_approach_date", n.CloseApproachDate.Format("2006-01-02"),
	)
	return &id, nil
}

// ListPendingNotifications returns every notification whose email has not been sent, oldest first.
func (db *DB) ListPendingNotifications(ctx context.Context) ([]*Notification, error) {
	query := `
		SELECT id, asteroid_name, close_approach_date, miss_distance_kilometers,
		       estimated_diameter_avg_meters, email_sent, created_at, updated_at
		FROM notifications
		WHERE email_sent = FALSE
		ORDER BY created_at, id
	`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID,
			&n.AsteroidName,
			&n.CloseApproachDate,
			&n.MissDistanceKilometers,
			&n.EstimatedDiameterAvgMeters,
			&n.EmailSent,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return out, nil
}

// MarkEmailSent flags a notification as delivered. Marking an already sent record is a no-op.
func (db *DB) MarkEmailSent(ctx context.Context, id string) error {
	query := `
		UPDATE notifications
		SET email_sent = TRUE, updated_at = NOW()
		WHERE id = $1
	`
	result, err := db.conn.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	}

	slog.Debug("Marked notification sent", "notification_id", id)
	return nil
}
