package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

// SMTPProvider sends email over SMTP. Port 465 uses implicit TLS; any other port
// upgrades with STARTTLS when the server offers it.
type SMTPProvider struct {
	cfg SMTPConfig
}

// NewSMTPProvider creates an SMTP provider.
func NewSMTPProvider(cfg SMTPConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

// Name returns the provider name.
func (p *SMTPProvider) Name() string {
	return "smtp"
}

// IsConfigured returns true if a host and port are set.
func (p *SMTPProvider) IsConfigured() bool {
	return p.cfg.Host != "" && p.cfg.Port != ""
}

// Send delivers the message. The whole SMTP session is bounded by ctx's deadline.
func (p *SMTPProvider) Send(ctx context.Context, req *EmailRequest) error {
	if len(req.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	addr := net.JoinHostPort(p.cfg.Host, p.cfg.Port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	tlsConfig := &tls.Config{ServerName: p.cfg.Host}
	if p.cfg.Port == "465" {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, p.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if p.cfg.Port != "465" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if p.cfg.User != "" && p.cfg.Password != "" {
		auth := smtp.PlainAuth("", p.cfg.User, p.cfg.Password, p.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(req.From); err != nil {
		return fmt.Errorf("failed to set sender %s: %w", req.From, err)
	}
	for _, rcpt := range req.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(buildMessage(req, time.Now())); err != nil {
		w.Close()
		return fmt.Errorf("failed to write email data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		slog.Warn("Error during SMTP QUIT", "error", err)
	}

	slog.Debug("Email sent via SMTP", "to", req.To, "subject", req.Subject, "smtp_server", addr)
	return nil
}

// buildMessage builds a plain text RFC 5322 message.
func buildMessage(req *EmailRequest, now time.Time) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", req.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(req.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", req.Subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", now.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(req.Body, "\n", "\r\n"))
	return msg.Bytes()
}
