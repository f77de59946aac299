package database

import (
	"context"
	"fmt"
)

// ListEnabledRecipientEmails returns the addresses of every user with notifications enabled.
func (db *DB) ListEnabledRecipientEmails(ctx context.Context) ([]string, error) {
	query := `
		SELECT email
		FROM users
		WHERE notifications_enabled = TRUE
		ORDER BY email
	`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipients: %w", err)
	}
	return emails, nil
}
