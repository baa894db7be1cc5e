package messaging

import (
	"context"
	"encoding/json"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/usecase/interfaces"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventPublisher writes order events to Kafka. The topic is the event
// type (order.paid, order.cancelled) and the key is the order id, so events
// of one order stay on one partition.
type OrderEventPublisher struct {
	writer messageWriter
}

var _ interfaces.IOrderEventPublisher = (*OrderEventPublisher)(nil)

func NewOrderEventPublisher(brokers []string) *OrderEventPublisher {
	return &OrderEventPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

func (p *OrderEventPublisher) Publish(ctx context.Context, ev entities.OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: string(ev.Type),
		Key:   []byte(ev.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
		Time: ev.OccurredAt,
	})
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
