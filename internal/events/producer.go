package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUsers    = "user_events"
	TopicBookings = "booking_events"
	TopicOrders   = "order_events"

	publishTimeout = 5 * time.Second
)

type Event struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	UserID     string         `json:"user_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

func buildMessage(topic, key string, event Event) (kafka.Message, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}, nil
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event Event) error {
	msg, err := buildMessage(topic, key, event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event; used when KAFKA_BROKERS is empty.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                             { return nil }
