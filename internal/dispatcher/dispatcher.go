package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"asteroid-alerting/internal/database"
)

const (
	// DefaultInterval is the pause between ticks.
	DefaultInterval = 10 * time.Second
	// DefaultSendTimeout bounds a single email send.
	DefaultSendTimeout = 15 * time.Second
)

// TickResult summarizes one tick.
type TickResult struct {
	Pending    int
	Recipients int
	Attempts   int
	Sent       int
	Failed     int
	Marked     int
	Err        error
}

// Dispatcher drains unsent notifications on a fixed interval.
type Dispatcher struct {
	store       NotificationStore
	mailer      Mailer
	metrics     MetricsRecorder
	interval    time.Duration
	sendTimeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInterval sets the pause between ticks.
func WithInterval(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.interval = d
		}
	}
}

// WithSendTimeout bounds each email send.
func WithSendTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.sendTimeout = d
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(dp *Dispatcher) {
		if m != nil {
			dp.metrics = m
		}
	}
}

// New creates a Dispatcher.
func New(store NotificationStore, mailer Mailer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:       store,
		mailer:      mailer,
		metrics:     &NoOpMetrics{},
		interval:    DefaultInterval,
		sendTimeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run ticks immediately and then every interval until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.Info("Starting notification dispatcher", "interval", d.interval, "send_timeout", d.sendTimeout)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		d.Tick(ctx)
		select {
		case <-ctx.Done():
			slog.Info("Notification dispatcher stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick sends one email per (pending notification, enabled recipient) pair and marks a
// notification sent once every recipient has been emailed about it.
//
// A failed send is logged and does not stop the remaining sends. A notification with any
// failed send, or with no recipients at all, stays pending for the next tick. If ctx is
// cancelled mid-batch the tick stops between sends; only notifications whose sends all
// completed are marked.
func (d *Dispatcher) Tick(ctx context.Context) TickResult {
	var res TickResult
	if ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}
	start := time.Now()

	pending, err := d.store.ListPendingNotifications(ctx)
	if err != nil {
		d.metrics.RecordError()
		slog.Error("Failed to load pending notifications", "error", err)
		res.Err = fmt.Errorf("failed to load pending notifications: %w", err)
		return res
	}
	res.Pending = len(pending)
	if len(pending) == 0 {
		return res
	}

	recipients, err := d.store.ListEnabledRecipientEmails(ctx)
	if err != nil {
		d.metrics.RecordError()
		slog.Error("Failed to load recipients", "error", err)
		res.Err = fmt.Errorf("failed to load recipients: %w", err)
		return res
	}
	res.Recipients = len(recipients)
	if len(recipients) == 0 {
		slog.Warn("No enabled recipients, leaving notifications pending", "pending", len(pending))
		return res
	}

	for _, n := range pending {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			break
		}
		d.metrics.RecordReceived()

		delivered := d.deliver(ctx, n, recipients, &res)
		if !delivered {
			continue
		}

		if err := d.markSent(ctx, n.ID); err != nil {
			d.metrics.RecordError()
			slog.Error("Failed to mark notification sent",
				"notification_id", n.ID,
				"asteroid_name", n.AsteroidName,
				"error", err,
			)
			continue
		}
		res.Marked++
		d.metrics.RecordPublished()
	}

	d.metrics.RecordProcessed(time.Since(start))
	slog.Info("Dispatch tick finished",
		"pending", res.Pending,
		"recipients", res.Recipients,
		"attempts", res.Attempts,
		"sent", res.Sent,
		"failed", res.Failed,
		"marked", res.Marked,
	)
	return res
}

// markSent records completed sends even when ctx was cancelled during the last one.
func (d *Dispatcher) markSent(ctx context.Context, id string) error {
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()
	return d.store.MarkEmailSent(markCtx, id)
}

// deliver emails every recipient about n and reports whether all sends completed.
func (d *Dispatcher) deliver(ctx context.Context, n *database.Notification, recipients []string, res *TickResult) bool {
	ok := true
	for _, to := range recipients {
		if ctx.Err() != nil {
			return false
		}
		res.Attempts++

		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		err := d.mailer.Send(sendCtx, to, n)
		cancel()

		if err != nil {
			ok = false
			res.Failed++
			d.metrics.IncrementCustom("emails_failed")
			slog.Error("Failed to send alert email",
				"notification_id", n.ID,
				"asteroid_name", n.AsteroidName,
				"recipient", to,
				"error", err,
			)
			continue
		}
		res.Sent++
		d.metrics.IncrementCustom("emails_sent")
		slog.Debug("Sent alert email",
			"notification_id", n.ID,
			"asteroid_name", n.AsteroidName,
			"recipient", to,
		)
	}
	return ok
}
