package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// resendAPI is the subset of the Resend emails service the provider uses.
type resendAPI interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendProvider sends email through the Resend API.
type ResendProvider struct {
	emails resendAPI
}

// NewResendProvider creates a Resend provider. An empty key yields an unconfigured provider.
func NewResendProvider(apiKey string) *ResendProvider {
	if apiKey == "" {
		return &ResendProvider{}
	}
	slog.Info("Resend email provider initialized")
	return &ResendProvider{emails: resend.NewClient(apiKey).Emails}
}

// Name returns the provider name.
func (p *ResendProvider) Name() string {
	return "resend"
}

// IsConfigured returns true if an API key was supplied.
func (p *ResendProvider) IsConfigured() bool {
	return p.emails != nil
}

// Send sends an email via the Resend API.
func (p *ResendProvider) Send(ctx context.Context, req *EmailRequest) error {
	if p.emails == nil {
		return fmt.Errorf("Resend client not initialized")
	}
	if len(req.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
	}
	if req.HTML != "" {
		params.Html = req.HTML
	} else {
		params.Text = req.Body
	}

	result, err := p.emails.Send(params)
	if err != nil {
		return fmt.Errorf("Resend send failed: %w", err)
	}

	slog.Debug("Email sent via Resend", "email_id", result.Id, "to", req.To)
	return nil
}
