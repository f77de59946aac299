package metrics

import (
	"context"
	"testing"
	"time"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(ServiceNotification, nil)

	c.RecordReceived()
	c.RecordReceived()
	c.RecordProcessed(10 * time.Millisecond)
	c.RecordProcessed(30 * time.Millisecond)
	c.RecordPublished()
	c.RecordError()
	c.IncrementCustom("emails_sent")
	c.AddCustom("emails_sent", 2)

	snap := c.GetSnapshot()

	if snap.ServiceName != ServiceNotification {
		t.Errorf("ServiceName = %q, want %q", snap.ServiceName, ServiceNotification)
	}
	if snap.MessagesReceived != 2 {
		t.Errorf("MessagesReceived = %d, want 2", snap.MessagesReceived)
	}
	if snap.MessagesProcessed != 2 {
		t.Errorf("MessagesProcessed = %d, want 2", snap.MessagesProcessed)
	}
	if snap.MessagesPublished != 1 {
		t.Errorf("MessagesPublished = %d, want 1", snap.MessagesPublished)
	}
	if snap.ProcessingErrors != 1 {
		t.Errorf("ProcessingErrors = %d, want 1", snap.ProcessingErrors)
	}
	if snap.CustomCounters["emails_sent"] != 3 {
		t.Errorf("CustomCounters[emails_sent] = %d, want 3", snap.CustomCounters["emails_sent"])
	}
	wantAvg := float64((20 * time.Millisecond).Nanoseconds())
	if snap.AvgProcessingLatencyNs != wantAvg {
		t.Errorf("AvgProcessingLatencyNs = %v, want %v", snap.AvgProcessingLatencyNs, wantAvg)
	}
}

func TestCollector_StartStopWithoutRedis(t *testing.T) {
	c := NewCollector(ServiceAlerting, nil)
	c.SetReportInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	c.Stop()
	c.Stop()
}

func TestStartCollector_UnreachableRedisStillCounts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, addr := range []string{"", "127.0.0.1:1"} {
		c := StartCollector(ctx, ServiceAlerting, addr)
		c.RecordPublished()
		if got := c.GetSnapshot().MessagesPublished; got != 1 {
			t.Errorf("addr %q: MessagesPublished = %d, want 1", addr, got)
		}
		c.Stop()
	}
}
