package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

type Producer struct {
	writer  *kafka.Writer
	brokers []string
}

func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}
	return &Producer{writer: w, brokers: brokers}, nil
}

// Brokers reports the addresses the producer writes to.
func (p *Producer) Brokers() []string {
	return append([]string(nil), p.brokers...)
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// ProductEvent is the envelope written to the product topic.
type ProductEvent struct {
	EventID    string         `json:"event_id"`
	Type       string         `json:"type"`
	ProductID  uint           `json:"product_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

const (
	ProductCreated      = "product_created"
	ProductUpdated      = "product_updated"
	ProductDeleted      = "product_deleted"
	ProductStockReduced = "product_stock_reduced"
)

func NewProductEvent(eventType string, productID uint, data map[string]any) ProductEvent {
	return ProductEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
