package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/config"
)

// EventType labels an order event on the wire.
type EventType string

const (
	EventTypeOrderCreated  EventType = "order.created"
	EventTypeQuickPurchase EventType = "order.quick_purchase"
)

// OrderEvent is the payload published after a committed checkout.
type OrderEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	LineCount int             `json:"line_count"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher emits order events. Publishing is best-effort: checkout never
// fails because the broker is down.
type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close() error
}

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *log.Entry
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a Kafka-backed order event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: log.WithField("component", "event-publisher"),
	}
}

// PublishOrder publishes one order event keyed by order id.
func (p *KafkaPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"event_type": event.Type,
			"order_id":   event.OrderID,
		}).Error("event publish failed")
		return err
	}

	p.logger.WithFields(log.Fields{
		"event_type": event.Type,
		"order_id":   event.OrderID,
	}).Info("event published")
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrder(ctx context.Context, event OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                             { return nil }

// MockPublisher records events for tests. Safe for concurrent use.
type MockPublisher struct {
	mu     sync.Mutex
	events []OrderEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{events: make([]OrderEvent, 0)}
}

func (m *MockPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return nil
}

// Published returns a snapshot of everything recorded so far.
func (m *MockPublisher) Published() []OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OrderEvent(nil), m.events...)
}

func (m *MockPublisher) Close() error { return nil }
