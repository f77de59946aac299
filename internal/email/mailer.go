package email

import (
	"context"
	"fmt"
	"strings"

	"asteroid-alerting/internal/database"
)

// Sender sends a fully built email.
type Sender interface {
	Send(ctx context.Context, req *EmailRequest) error
}

// Mailer turns notification records into alert emails.
type Mailer struct {
	sender Sender
	from   string
}

// NewMailer creates a Mailer that sends from the given address.
func NewMailer(sender Sender, from string) *Mailer {
	return &Mailer{sender: sender, from: from}
}

// Send emails one recipient about one notification.
func (m *Mailer) Send(ctx context.Context, to string, n *database.Notification) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email address format: %q (missing @ symbol)", to)
	}
	payload := BuildPayload(n)
	return m.sender.Send(ctx, &EmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: payload.Subject,
		Body:    payload.Body,
	})
}

// Payload is the subject and body of an alert email.
type Payload struct {
	Subject string
	Body    string
}

// BuildPayload builds the alert email content for a notification.
func BuildPayload(n *database.Notification) Payload {
	date := n.CloseApproachDate.Format("2006-01-02")

	var sb strings.Builder
	sb.WriteString("Asteroid Collision Alert\n")
	sb.WriteString("========================\n\n")
	sb.WriteString("A potentially hazardous asteroid is approaching Earth.\n\n")
	fmt.Fprintf(&sb, "Asteroid: %s\n", n.AsteroidName)
	fmt.Fprintf(&sb, "Close approach date: %s\n", date)
	fmt.Fprintf(&sb, "Miss distance: %s km\n", n.MissDistanceKilometers.String())
	fmt.Fprintf(&sb, "Estimated diameter: %.2f m\n", n.EstimatedDiameterAvgMeters)

	return Payload{
		Subject: fmt.Sprintf("Asteroid alert: %s approaching on %s", n.AsteroidName, date),
		Body:    sb.String(),
	}
}
