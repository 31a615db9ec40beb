// Package events publishes order lifecycle events after the database commit.
package events

import (
	"context"       // Publish deadlines
	"encoding/json" // Event payloads
	"strings"       // Broker list handling
	"time"          // Event timestamps

	"github.com/segmentio/kafka-go" // Kafka client
)

const (
	TypeOrderPlaced     = "order.placed"
	TypeTrackingUpdated = "order.tracking_updated"
)

// OrderEvent is the payload written for every order change
type OrderEvent struct {
	Type           string    `json:"type"`
	OrderRef       string    `json:"order_id"`
	UserID         uint      `json:"user_id"`
	PaymentStatus  string    `json:"payment_status,omitempty"`
	TrackingStatus string    `json:"tracking_status"`
	Total          string    `json:"total,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher delivers order events
type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
	Close() error
}

// NopPublisher drops every event, used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NopPublisher) Close() error                              { return nil }

// publishBatchTimeout bounds how long a synchronous write waits for a batch to fill
const publishBatchTimeout = 10 * time.Millisecond

// messageWriter is the part of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by order id so one order's events stay ordered
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher returns a publisher for the brokers, or a NopPublisher when there are none
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	var addrs []string
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return NopPublisher{}
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: publishBatchTimeout, // Publishing runs on the request path
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.OrderRef), Value: data, Time: ev.OccurredAt})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
