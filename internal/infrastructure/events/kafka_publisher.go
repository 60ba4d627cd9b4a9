package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"

	"github.com/segmentio/kafka-go"
)

const (
	headerEventType      = "event-type"
	eventTypeSessionDone = "pix.session.finished"
	writeTimeout         = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPaymentEventPublisher writes terminal PIX session events to Kafka,
// keyed by order id so events of one order stay ordered.
type KafkaPaymentEventPublisher struct {
	writer messageWriter
	topic  string
}

var _ interfaces.IPaymentEventPublisher = (*KafkaPaymentEventPublisher)(nil)

// NewKafkaPaymentEventPublisher returns nil when brokers or topic are empty;
// a nil publisher is a no-op. Call Close when shutting down.
func NewKafkaPaymentEventPublisher(brokers []string, topic string) *KafkaPaymentEventPublisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	log.Printf("[events][kafka] publisher initialized topic=%s brokers=%v", topic, brokers)
	return &KafkaPaymentEventPublisher{writer: writer, topic: topic}
}

func (p *KafkaPaymentEventPublisher) Publish(ctx context.Context, event entities.PaymentSessionEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(eventTypeSessionDone)},
		},
	})
	if err != nil {
		log.Printf("[events][kafka] publish failed topic=%s order_id=%s err=%v", p.topic, event.OrderID, err)
		return err
	}
	log.Printf("[events][kafka] published topic=%s order_id=%s status=%s", p.topic, event.OrderID, event.Status)
	return nil
}

// Close closes the Kafka writer. Safe to call on a nil publisher.
func (p *KafkaPaymentEventPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
