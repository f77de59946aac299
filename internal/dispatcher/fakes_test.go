package dispatcher

import (
	"context"
	"sync"
	"time"

	"asteroid-alerting/internal/database"
)

// FakeStore is a test fake for NotificationStore.
type FakeStore struct {
	mu            sync.Mutex
	Notifications []*database.Notification
	Recipients    []string
	ListErr       error
	RecipientsErr error
	MarkErr       error
	Marked        []string
}

func (f *FakeStore) ListPendingNotifications(ctx context.Context) ([]*database.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var pending []*database.Notification
	for _, n := range f.Notifications {
		if !n.EmailSent {
			pending = append(pending, n)
		}
	}
	return pending, nil
}

func (f *FakeStore) ListEnabledRecipientEmails(ctx context.Context) ([]string, error) {
	if f.RecipientsErr != nil {
		return nil, f.RecipientsErr
	}
	return f.Recipients, nil
}

func (f *FakeStore) MarkEmailSent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MarkErr != nil {
		return f.MarkErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	for _, n := range f.Notifications {
		if n.ID == id {
			n.EmailSent = true
		}
	}
	f.Marked = append(f.Marked, id)
	return nil
}

func (f *FakeStore) sent(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.Notifications {
		if n.ID == id {
			return n.EmailSent
		}
	}
	return false
}

// FakeSend is one recorded Mailer.Send call.
type FakeSend struct {
	To             string
	NotificationID string
}

// FakeMailer is a test fake for Mailer.
type FakeMailer struct {
	mu       sync.Mutex
	Sends    []FakeSend
	SendFunc func(ctx context.Context, to string, n *database.Notification) error
}

func (f *FakeMailer) Send(ctx context.Context, to string, n *database.Notification) error {
	f.mu.Lock()
	f.Sends = append(f.Sends, FakeSend{To: to, NotificationID: n.ID})
	f.mu.Unlock()
	if f.SendFunc != nil {
		return f.SendFunc(ctx, to, n)
	}
	return nil
}

func (f *FakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sends)
}

// FakeMetrics is a test fake for MetricsRecorder that tracks calls.
type FakeMetrics struct {
	mu               sync.Mutex
	ReceivedCount    int
	ProcessedCount   int
	PublishedCount   int
	ErrorCount       int
	CustomIncrements map[string]int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{CustomIncrements: make(map[string]int)}
}

func (f *FakeMetrics) RecordReceived() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReceivedCount++
}

func (f *FakeMetrics) RecordProcessed(_ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProcessedCount++
}

func (f *FakeMetrics) RecordPublished() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PublishedCount++
}

func (f *FakeMetrics) RecordError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ErrorCount++
}

func (f *FakeMetrics) IncrementCustom(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CustomIncrements[name]++
}
