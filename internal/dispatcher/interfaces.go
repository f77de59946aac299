// Package dispatcher periodically emails enabled recipients about pending notifications.
package dispatcher

import (
	"context"

	"asteroid-alerting/internal/database"
)

// NotificationStore reads pending notifications and recipients and flips the sent flag.
type NotificationStore interface {
	ListPendingNotifications(ctx context.Context) ([]*database.Notification, error)
	ListEnabledRecipientEmails(ctx context.Context) ([]string, error)
	MarkEmailSent(ctx context.Context, id string) error
}

// Mailer sends one alert email about one notification to one recipient.
type Mailer interface {
	Send(ctx context.Context, to string, n *database.Notification) error
}
