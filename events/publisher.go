package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotfinder/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits one event per availability search.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// NewPublisherWithWriter wires an existing writer.
func NewPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Record publishes the search keyed by location so one location's events stay ordered.
func (p *KafkaPublisher) Record(ctx context.Context, rec models.SearchRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("events: encode search record: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(rec.LocationID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "mode", Value: []byte(rec.Mode)},
		},
		Time: rec.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish search %s: %w", rec.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
