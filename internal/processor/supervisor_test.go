package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"asteroid-alerting/internal/database"
)

func TestSupervise_ResubscribesAfterPersistenceFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := &FakeReader{Deliveries: []FakeDelivery{delivery(apophis(), 7)}}
	second := &FakeReader{Cancel: cancel, Deliveries: []FakeDelivery{delivery(apophis(), 7)}}
	readers := []*FakeReader{first, second}

	subscribed := 0
	subscribe := func() (MessageReader, error) {
		if subscribed >= len(readers) {
			t.Fatal("subscribed more often than expected")
		}
		r := readers[subscribed]
		subscribed++
		return r, nil
	}

	failures := 1
	storage := &FakeStorage{InsertFunc: func(n *database.Notification) (*string, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("database is starting up")
		}
		return nil, nil
	}}

	Supervise(ctx, subscribe, storage, nil, time.Millisecond)

	if subscribed != 2 {
		t.Errorf("subscribed %d times, want 2", subscribed)
	}
	if !first.Closed || !second.Closed {
		t.Errorf("closed = %v/%v, want both readers closed", first.Closed, second.Closed)
	}
	if len(first.Committed) != 0 {
		t.Errorf("first reader committed %d, want 0", len(first.Committed))
	}
	if len(second.Committed) != 1 || second.Committed[0].Offset != 7 {
		t.Errorf("second reader committed %+v, want the redelivered offset 7", second.Committed)
	}
	if len(storage.Inserted) != 1 {
		t.Errorf("inserted %d, want 1", len(storage.Inserted))
	}
}

func TestSupervise_RetriesSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	subscribe := func() (MessageReader, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("no brokers available")
		}
		return &FakeReader{Cancel: cancel}, nil
	}

	Supervise(ctx, subscribe, &FakeStorage{}, nil, time.Millisecond)

	if attempts != 3 {
		t.Errorf("subscribe attempts = %d, want 3", attempts)
	}
}

func TestSupervise_StopsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	subscribe := func() (MessageReader, error) {
		cancel()
		return nil, errors.New("no brokers available")
	}

	done := make(chan struct{})
	go func() {
		Supervise(ctx, subscribe, &FakeStorage{}, nil, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Supervise did not return after cancellation")
	}
}
