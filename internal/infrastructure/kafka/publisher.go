package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/smartsupply/supply-core/internal/domain"
	"github.com/smartsupply/supply-core/pkg/logging"
	"github.com/smartsupply/supply-core/pkg/metrics"
)

// Config holds Kafka producer configuration
type Config struct {
	Brokers        []string
	InventoryTopic string
	OrdersTopic    string
	BatchSize      int
	BatchTimeout   time.Duration
	RequiredAcks   int
}

// DefaultConfig returns producer defaults suitable for local development
func DefaultConfig(brokers []string) *Config {
	return &Config{
		Brokers:        brokers,
		InventoryTopic: "smartsupply.inventory",
		OrdersTopic:    "smartsupply.orders",
		BatchSize:      100,
		BatchTimeout:   10 * time.Millisecond,
		RequiredAcks:   -1,
	}
}

// envelope is the wire form of a published domain event
type envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// EventPublisher publishes domain events to Kafka, one writer per topic.
// Inventory events and order events go to separate topics so consumers can
// subscribe to only the stream they care about.
type EventPublisher struct {
	config  *Config
	metrics *metrics.Metrics
	logger  *logging.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewEventPublisher creates a new Kafka-based event publisher
func NewEventPublisher(config *Config, m *metrics.Metrics, logger *logging.Logger) *EventPublisher {
	return &EventPublisher{
		config:  config,
		metrics: m,
		logger:  logger.WithComponent("kafka"),
		writers: make(map[string]*kafka.Writer),
	}
}

// Publish publishes a single domain event
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	topic, key, source := p.route(event)

	data, err := json.Marshal(envelope{
		ID:         uuid.NewString(),
		Type:       event.EventType(),
		Source:     source,
		OccurredAt: event.OccurredAt(),
		Data:       event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.EventType())},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.OccurredAt(),
	}

	start := time.Now()
	err = p.writer(topic).WriteMessages(ctx, msg)
	p.metrics.RecordKafkaPublish(topic, event.EventType(), err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}
	return nil
}

// PublishAll publishes multiple domain events in order
func (p *EventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes every topic writer
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close writer for %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafka.Writer)
	return firstErr
}

// route maps an event to its topic, partition key and source path
func (p *EventPublisher) route(event domain.DomainEvent) (topic, key, source string) {
	switch e := event.(type) {
	case *domain.StockAddedEvent:
		return p.config.InventoryTopic, e.LocationID, "inventory/" + e.LocationID
	case *domain.StockRemovedEvent:
		return p.config.InventoryTopic, e.LocationID, "inventory/" + e.LocationID
	case *domain.LowStockAlertEvent:
		return p.config.InventoryTopic, e.LocationID, "inventory/" + e.LocationID
	case *domain.OrderPlacedEvent:
		return p.config.OrdersTopic, e.OrderID, "orders/" + e.OrderID
	case *domain.OrderStatusChangedEvent:
		return p.config.OrdersTopic, e.OrderID, "orders/" + e.OrderID
	default:
		return p.config.OrdersTopic, event.EventType(), "orders"
	}
}

func (p *EventPublisher) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.config.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    p.config.BatchSize,
		BatchTimeout: p.config.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(p.config.RequiredAcks),
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}
