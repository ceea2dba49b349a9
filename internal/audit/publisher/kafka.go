// Package publisher mirrors audit entries to a Kafka topic so downstream
// compliance tooling can consume the trail without touching the primary
// store.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"aurum/internal/audit"
)

// Kafka publishes audit entries keyed by tenant so one tenant's trail stays
// ordered within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects to the brokers and ensures the audit topic exists.
func NewKafka(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 3, 1, nil, topic); err != nil {
		// Already-exists is fine; anything else is a real setup failure.
		if !strings.Contains(err.Error(), "TOPIC_ALREADY_EXISTS") {
			client.Close()
			return nil, fmt.Errorf("ensure audit topic: %w", err)
		}
	}

	return &Kafka{client: client, topic: topic, logger: logger}, nil
}

// Publish produces one entry asynchronously. Delivery failures are logged,
// never surfaced: the business operation already committed.
func (k *Kafka) Publish(ctx context.Context, entry audit.Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(entry.TenantID.String()),
		Value: value,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			k.logger.Warn("audit kafka delivery failed",
				"error", err,
				"topic", k.topic,
				"action", entry.Action,
			)
		}
	})
	return nil
}

// Close flushes outstanding records and shuts the client down.
func (k *Kafka) Close() {
	_ = k.client.Flush(context.Background())
	k.client.Close()
}
