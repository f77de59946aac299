package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		name    string
		brokers string
		want    []string
	}{
		{name: "empty", brokers: "", want: nil},
		{name: "single", brokers: "localhost:9092", want: []string{"localhost:9092"}},
		{name: "with spaces", brokers: "a:9092, b:9092 ", want: []string{"a:9092", "b:9092"}},
		{name: "trailing comma", brokers: "a:9092,", want: []string{"a:9092"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBrokers(tt.brokers)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseBrokers(%q) = %v, want %v", tt.brokers, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseBrokers(%q)[%d] = %q, want %q", tt.brokers, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateConsumerParams(t *testing.T) {
	tests := []struct {
		name                  string
		brokers, topic, group string
		errMsg                string
	}{
		{name: "valid", brokers: "localhost:9092", topic: "asteroid-alerts", group: "notification-service"},
		{name: "empty brokers", brokers: " , ", topic: "asteroid-alerts", group: "g", errMsg: "brokers cannot be empty"},
		{name: "empty topic", brokers: "localhost:9092", group: "g", errMsg: "topic cannot be empty"},
		{name: "empty group", brokers: "localhost:9092", topic: "asteroid-alerts", errMsg: "groupID cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConsumerParams(tt.brokers, tt.topic, tt.group)
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("ValidateConsumerParams() error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.errMsg {
				t.Errorf("ValidateConsumerParams() error = %v, want %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateProducerParams(t *testing.T) {
	if err := ValidateProducerParams("localhost:9092", "asteroid-alerts"); err != nil {
		t.Errorf("ValidateProducerParams() error = %v, want nil", err)
	}
	if err := ValidateProducerParams("", "asteroid-alerts"); err == nil {
		t.Error("ValidateProducerParams() with empty brokers should fail")
	}
	if err := ValidateProducerParams("localhost:9092", ""); err == nil {
		t.Error("ValidateProducerParams() with empty topic should fail")
	}
}

func TestNewReaderConfig(t *testing.T) {
	cfg := NewReaderConfig([]string{"localhost:9092"}, "asteroid-alerts", "notification-service")

	if cfg.GroupID != "notification-service" {
		t.Errorf("GroupID = %q, want notification-service", cfg.GroupID)
	}
	if cfg.Topic != "asteroid-alerts" {
		t.Errorf("Topic = %q, want asteroid-alerts", cfg.Topic)
	}
	if cfg.StartOffset != kafka.FirstOffset {
		t.Errorf("StartOffset = %d, want FirstOffset", cfg.StartOffset)
	}
	if cfg.CommitInterval != CommitInterval {
		t.Errorf("CommitInterval = %v, want %v", cfg.CommitInterval, CommitInterval)
	}
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"localhost:9092"}, "asteroid-alerts")
	defer w.Close()

	if w.Topic != "asteroid-alerts" {
		t.Errorf("Topic = %q, want asteroid-alerts", w.Topic)
	}
	if w.RequiredAcks != kafka.RequireOne {
		t.Errorf("RequiredAcks = %v, want RequireOne", w.RequiredAcks)
	}
	if w.Async {
		t.Error("writer must be synchronous")
	}
	if w.WriteTimeout != WriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", w.WriteTimeout, WriteTimeout)
	}
}
