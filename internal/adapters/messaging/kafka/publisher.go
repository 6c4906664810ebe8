package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/phenrril/tiendaropa/internal/domain"
)

const DefaultTopic = "orders.placed"

type Publisher struct {
	w *kafkaGo.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{w: &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkaGo.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, e domain.OrderPlaced) error {
	msg, err := orderPlacedMessage(e)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.EventType(), err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }

func orderPlacedMessage(e domain.OrderPlaced) (kafkaGo.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafkaGo.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.ProductID), 10)),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "event_type", Value: []byte(e.EventType())},
		},
		Time: e.OrderDate,
	}, nil
}

// Noop se usa cuando no hay brokers configurados.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, domain.OrderPlaced) error { return nil }
