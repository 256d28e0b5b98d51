package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer publishes domain events. A nil Producer is valid and drops
// everything, so callers never have to branch on whether Kafka is
// configured.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

// Publish sends one JSON event keyed for partition affinity. Events are
// fire-and-forget: failures are logged, never propagated to the mutation
// that produced them.
func (p *Producer) Publish(ctx context.Context, key string, event any) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode event", "key", key, "error", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(uuid.NewString())},
		},
	}); err != nil {
		slog.Error("Failed to publish event", "key", key, "error", err)
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
