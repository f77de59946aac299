// Package config provides configuration parsing and validation for the alerting and notification services.
package config

import (
	"fmt"
	"time"
)

// Email provider names.
const (
	EmailProviderSMTP   = "smtp"
	EmailProviderSES    = "ses"
	EmailProviderResend = "resend"
)

// AlertingConfig holds the configuration of the asteroid-alerting service.
type AlertingConfig struct {
	HTTPAddr       string
	KafkaBrokers   string
	AlertsTopic    string
	MockPublisher  bool
	NeoBaseURL     string
	NeoAPIKey      string
	NeoTimeout     time.Duration
	WindowDays     int
	PublishTimeout time.Duration
	RunTimeout     time.Duration
	RedisAddr      string
}

// Validate checks that all required configuration fields are set and have valid values.
func (c *AlertingConfig) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http-addr cannot be empty")
	}
	if !c.MockPublisher && c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.AlertsTopic == "" {
		return fmt.Errorf("alerts-topic cannot be empty")
	}
	if c.NeoBaseURL == "" {
		return fmt.Errorf("neo-base-url cannot be empty")
	}
	if c.NeoTimeout <= 0 {
		return fmt.Errorf("neo-timeout must be positive")
	}
	if c.WindowDays < 0 {
		return fmt.Errorf("window-days cannot be negative")
	}
	if c.PublishTimeout <= 0 {
		return fmt.Errorf("publish-timeout must be positive")
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run-timeout must be positive")
	}
	return nil
}

// EmailConfig holds the outbound email transport settings.
type EmailConfig struct {
	Provider         string
	FallbackProvider string
	From             string
	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPassword     string
	AWSRegion        string
	ResendAPIKey     string
}

// Validate checks that the selected providers have what they need.
func (c *EmailConfig) Validate() error {
	if c.From == "" {
		return fmt.Errorf("email-from cannot be empty")
	}
	if err := c.validateProvider("email-provider", c.Provider); err != nil {
		return err
	}
	if c.FallbackProvider != "" {
		if c.FallbackProvider == c.Provider {
			return fmt.Errorf("email-fallback-provider must differ from email-provider")
		}
		if err := c.validateProvider("email-fallback-provider", c.FallbackProvider); err != nil {
			return err
		}
	}
	return nil
}

func (c *EmailConfig) validateProvider(flagName, name string) error {
	switch name {
	case EmailProviderSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("smtp-host cannot be empty when %s is smtp", flagName)
		}
		if c.SMTPPort == "" {
			return fmt.Errorf("smtp-port cannot be empty when %s is smtp", flagName)
		}
	case EmailProviderSES:
		if c.AWSRegion == "" {
			return fmt.Errorf("aws-region cannot be empty when %s is ses", flagName)
		}
	case EmailProviderResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("resend-api-key cannot be empty when %s is resend", flagName)
		}
	default:
		return fmt.Errorf("%s must be one of smtp, ses, resend (got %q)", flagName, name)
	}
	return nil
}

// NotificationConfig holds the configuration of the notification service.
type NotificationConfig struct {
	KafkaBrokers       string
	AlertsTopic        string
	ConsumerGroupID    string
	PostgresDSN        string
	RedisAddr          string
	DispatchInterval   time.Duration
	SendTimeout        time.Duration
	ResubscribeBackoff time.Duration
	Email              EmailConfig
}

// Validate checks that all required configuration fields are set and have valid values.
func (c *NotificationConfig) Validate() error {
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.AlertsTopic == "" {
		return fmt.Errorf("alerts-topic cannot be empty")
	}
	if c.ConsumerGroupID == "" {
		return fmt.Errorf("consumer-group-id cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	if c.DispatchInterval <= 0 {
		return fmt.Errorf("dispatch-interval must be positive")
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("send-timeout must be positive")
	}
	if c.ResubscribeBackoff <= 0 {
		return fmt.Errorf("resubscribe-backoff must be positive")
	}
	return c.Email.Validate()
}
